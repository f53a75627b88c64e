package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tasknest/tasknest/core"
)

type searchRequest struct {
	Query string `json:"query"`
	// Owner is optional; when set it must match the token identity.
	Owner core.ID `json:"owner,omitempty"`
}

type searchHit struct {
	taskResponse
	Similarity float32 `json:"similarity"`
}

type searchResponse struct {
	Tasks []searchHit `json:"tasks"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	userID, err := owner(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", errBadRequest))
		return
	}
	// A client-supplied owner is never trusted over the token.
	if body.Owner != 0 && body.Owner != userID {
		writeError(w, errOwnerMismatch)
		return
	}

	results, err := s.searcher.Search(r.Context(), userID, body.Query)
	if err != nil {
		writeError(w, err)
		return
	}

	hits := make([]searchHit, 0, len(results))
	for _, result := range results {
		hits = append(hits, searchHit{
			taskResponse: toTaskResponse(result.Task),
			Similarity:   result.Score,
		})
	}

	writeJSON(w, http.StatusOK, searchResponse{Tasks: hits})
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// handleGenerateEmbedding embeds a text and returns the raw vector without
// persisting anything.
func (s *Server) handleGenerateEmbedding(w http.ResponseWriter, r *http.Request) {
	if _, err := owner(r); err != nil {
		writeError(w, err)
		return
	}

	var body embedRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", errBadRequest))
		return
	}

	vector, err := s.tasks.EmbedText(r.Context(), body.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, embedResponse{Embedding: vector})
}
