package storage

import (
	"context"

	"github.com/tasknest/tasknest/core"
)

// TaskRepository provides operations for managing tasks and their embeddings.
// Implementations must be thread-safe and support concurrent access.
//
// Every operation is scoped to an owner: a repository never returns or
// mutates another owner's data, regardless of what the caller passes. This is
// a hard security invariant enforced at the storage boundary, not a
// convenience left to call sites.
type TaskRepository interface {
	// AddTasks adds one or more tasks to storage in a single transaction.
	// Generates new IDs from sequence and sets CreatedAt/UpdatedAt if unset.
	// A task carrying a vector is written atomically with it; a task is never
	// visible with a partially written embedding.
	// Returns the tasks with generated IDs and timestamps populated.
	AddTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error)

	// GetTask retrieves a single task by ID.
	// Returns ErrNotFound if the task doesn't exist or belongs to a
	// different owner.
	GetTask(ctx context.Context, owner, id core.ID) (*core.Task, error)

	// GetTasks retrieves every task belonging to owner, embedded or not,
	// in unspecified order.
	GetTasks(ctx context.Context, owner core.ID) ([]*core.Task, error)

	// UpdateTaskStatus sets the status of an owned task and bumps UpdatedAt.
	// Returns ErrNotFound if the task doesn't exist under that owner.
	UpdateTaskStatus(ctx context.Context, owner, id core.ID, status core.Status) (*core.Task, error)

	// DeleteTasks removes tasks by their IDs along with all of their
	// subtasks (cascade). Returns ErrNotFound if any task doesn't exist
	// under that owner.
	DeleteTasks(ctx context.Context, owner core.ID, ids ...core.ID) error

	// PutEmbedding attaches or replaces the embedding of an existing owned
	// task. Returns ErrNotFound if the task does not exist under that owner.
	// Idempotent: writing a vector identical to the stored one is a no-op
	// and does not bump UpdatedAt.
	PutEmbedding(ctx context.Context, owner, id core.ID, vector []float32) error

	// ScanEmbedded returns every task belonging to owner that currently has
	// a non-empty embedding, in unspecified order. Ordering is the ranker's
	// job, not the store's. Tasks lacking an embedding are silently excluded;
	// they are not searchable until embedded.
	ScanEmbedded(ctx context.Context, owner core.ID) ([]*core.Task, error)

	// TasksWithoutEmbedding returns every task across all owners that has no
	// embedding yet. Used by the backfill pipeline, never exposed to clients.
	TasksWithoutEmbedding(ctx context.Context) ([]*core.Task, error)

	// Close releases resources held by the repository.
	Close() error
}

// SubtaskRepository provides operations for managing saved subtasks.
type SubtaskRepository interface {
	// AddSubtasks adds one or more subtasks to storage.
	// Generates new IDs from sequence and sets CreatedAt if unset.
	// Returns the subtasks with generated IDs and timestamps populated.
	AddSubtasks(ctx context.Context, subtasks ...*core.Subtask) ([]*core.Subtask, error)

	// GetSubtasksByTask retrieves the subtasks of an owned task.
	GetSubtasksByTask(ctx context.Context, owner, taskID core.ID) ([]*core.Subtask, error)

	// DeleteSubtask removes a single subtask.
	// Returns ErrNotFound if it doesn't exist under that owner and task.
	DeleteSubtask(ctx context.Context, owner, taskID, id core.ID) error

	// Close releases resources held by the repository.
	Close() error
}

// UserRepository provides operations for managing user accounts.
type UserRepository interface {
	// AddUser adds a new user account. Returns ErrDuplicateKey if a user
	// with the same email already exists.
	AddUser(ctx context.Context, user *core.User) (*core.User, error)

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, id core.ID) (*core.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)

	// Close releases resources held by the repository.
	Close() error
}
