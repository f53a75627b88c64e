package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tasknest/tasknest/core"
)

type subtaskResponse struct {
	ID     core.ID `json:"id"`
	TaskID core.ID `json:"task_id"`
	Title  string  `json:"title"`
	// Saved is always true on the wire: unsaved suggestions never reach
	// storage, so they never appear here.
	Saved     bool      `json:"saved"`
	CreatedAt time.Time `json:"created_at"`
}

func toSubtaskResponses(subtasks []*core.Subtask) []subtaskResponse {
	responses := make([]subtaskResponse, 0, len(subtasks))
	for _, subtask := range subtasks {
		responses = append(responses, subtaskResponse{
			ID:        subtask.Id,
			TaskID:    subtask.TaskId,
			Title:     subtask.Title,
			Saved:     subtask.Saved,
			CreatedAt: subtask.CreatedAt,
		})
	}
	return responses
}

func (s *Server) handleSuggestSubtasks(w http.ResponseWriter, r *http.Request) {
	userID, err := owner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	titles, err := s.planner.Suggest(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": titles})
}

func (s *Server) handleSaveSubtasks(w http.ResponseWriter, r *http.Request) {
	userID, err := owner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Titles []string `json:"titles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", errBadRequest))
		return
	}

	saved, err := s.planner.Save(r.Context(), userID, taskID, body.Titles)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubtaskResponses(saved))
}

func (s *Server) handleListSubtasks(w http.ResponseWriter, r *http.Request) {
	userID, err := owner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	listed, err := s.planner.List(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubtaskResponses(listed))
}

func (s *Server) handleDeleteSubtask(w http.ResponseWriter, r *http.Request) {
	userID, err := owner(r)
	if err != nil {
		writeError(w, err)
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	subtaskID, err := pathID(r, "subtaskId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.planner.Delete(r.Context(), userID, taskID, subtaskID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
