package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from database sequences or content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Task represents a single task owned by a user.
// It may be enriched with an embedding vector after creation.
type Task struct {
	Id        ID
	Title     string
	Priority  Priority
	Status    Status
	Owner     ID        // ID of the user that created the task
	CreatedAt time.Time // When the task was inserted into the database
	UpdatedAt time.Time // When the task was last updated
	Vector    []float32 // Embedding vector for semantic search (empty until embedded)
}

// Subtask represents an actionable step belonging to a parent task.
// Subtasks suggested by the generative model are transient until the user
// saves them; only saved subtasks reach storage.
type Subtask struct {
	Id        ID
	TaskId    ID // Owning task, required
	Owner     ID
	Title     string
	Saved     bool // True once the user explicitly persisted the subtask
	CreatedAt time.Time
}

// User represents an account that owns tasks and subtasks.
type User struct {
	Id           ID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SearchResult is a task projected with its similarity score.
// Scores are reported in [0, 1]; negative cosine similarity is clamped to 0.
// SearchResults are response-only and never persisted.
type SearchResult struct {
	Task  *Task
	Score float32
}
