package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/ai"
	"github.com/tasknest/tasknest/auth"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/planner"
	"github.com/tasknest/tasknest/search"
	"github.com/tasknest/tasknest/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("failed to encode response", "err", err)
		}
	}
}

// writeError maps a domain error to an HTTP status. This is the single place
// errors become status codes; handlers never pick codes themselves.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, core.ErrInvalidTask),
		errors.Is(err, core.ErrInvalidSubtask),
		errors.Is(err, core.ErrInvalidUser),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidPriority),
		errors.Is(err, ai.ErrEmptyText),
		errors.Is(err, search.ErrEmptyQuery),
		errors.Is(err, planner.ErrNoTitles),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, errOwnerMismatch):
		status = http.StatusUnauthorized
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, search.ErrSearchUnavailable),
		errors.Is(err, ai.ErrProviderUnavailable),
		errors.Is(err, ai.ErrMalformedResponse):
		status = http.StatusBadGateway
	}

	// Upstream failure chains carry hosts, addresses, and credentials hints;
	// clients get a short fixed message and the chain stays in the log.
	if status == http.StatusBadGateway {
		slog.Warn("upstream provider failure", "err", err)
		writeJSON(w, status, errorResponse{Error: "service temporarily unavailable"})
		return
	}

	if status == http.StatusInternalServerError {
		slog.Error("internal error", "err", err)
		// Don't leak internals
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
