package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tasknest/tasknest/core"
)

type taskResponse struct {
	ID        core.ID       `json:"id"`
	Title     string        `json:"title"`
	Priority  core.Priority `json:"priority"`
	Status    core.Status   `json:"status"`
	Embedded  bool          `json:"embedded"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// toTaskResponse converts a task for the wire. Vectors stay internal; clients
// only learn whether a task is searchable yet.
func toTaskResponse(task *core.Task) taskResponse {
	return taskResponse{
		ID:        task.Id,
		Title:     task.Title,
		Priority:  task.Priority,
		Status:    task.Status,
		Embedded:  len(task.Vector) > 0,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

func toTaskResponses(tasks []*core.Task) []taskResponse {
	responses := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}
	return responses
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := owner(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Title    string        `json:"title"`
		Priority core.Priority `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", errBadRequest))
		return
	}

	task, err := s.tasks.Create(r.Context(), userID, body.Title, body.Priority)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := owner(r)
	if err != nil {
		writeError(w, err)
		return
	}

	listed, err := s.tasks.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponses(listed))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
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

	task, err := s.tasks.Get(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
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
		Status core.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", errBadRequest))
		return
	}

	task, err := s.tasks.UpdateStatus(r.Context(), userID, taskID, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
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

	if err := s.tasks.Delete(r.Context(), userID, taskID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEmbedTask(w http.ResponseWriter, r *http.Request) {
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

	task, err := s.tasks.Embed(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}
