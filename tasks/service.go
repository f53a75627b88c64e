package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasknest/tasknest/ai"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage"
)

// DefaultEmbedTimeout bounds the synchronous embedding attempt at creation.
const DefaultEmbedTimeout = 10 * time.Second

// Service implements the task lifecycle over a repository and an embedder.
type Service struct {
	tasks        storage.TaskRepository
	embedder     ai.Embedder
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithEmbedTimeout bounds the embedding attempt during task creation.
// Default is DefaultEmbedTimeout.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(s *Service) error {
		if timeout <= 0 {
			return fmt.Errorf("embed timeout must be positive, got %v", timeout)
		}
		s.embedTimeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new task service.
func NewService(
	tasks storage.TaskRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Service, error) {
	if tasks == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Service{
		tasks:        tasks,
		embedder:     provider.Embedder(),
		embedTimeout: DefaultEmbedTimeout,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.logger = s.logger.With("component", "tasks")

	return s, nil
}

// Create validates and stores a new task for the owner.
//
// The title is embedded synchronously, but a provider failure does not block
// creation: the task is stored without a vector and becomes searchable once
// the backfill pipeline embeds it.
func (s *Service) Create(ctx context.Context, owner core.ID, title string, priority core.Priority) (*core.Task, error) {
	if priority == "" {
		priority = core.PriorityMedium
	}

	task := &core.Task{
		Title:    strings.TrimSpace(title),
		Priority: priority,
		Status:   core.StatusPending,
		Owner:    owner,
	}

	if err := core.ValidateTask(task); err != nil {
		return nil, err
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	vector, err := s.embedder.EmbedText(embedCtx, task.Title)
	if err != nil {
		s.logger.Warn("embedding failed at creation, storing without vector",
			"owner", owner, "err", err)
	} else {
		task.Vector = vector
	}

	added, err := s.tasks.AddTasks(ctx, task)
	if err != nil {
		return nil, err
	}
	return added[0], nil
}

// Get retrieves a single owned task.
func (s *Service) Get(ctx context.Context, owner, id core.ID) (*core.Task, error) {
	return s.tasks.GetTask(ctx, owner, id)
}

// List retrieves every task belonging to the owner.
func (s *Service) List(ctx context.Context, owner core.ID) ([]*core.Task, error) {
	return s.tasks.GetTasks(ctx, owner)
}

// UpdateStatus changes the status of an owned task.
func (s *Service) UpdateStatus(ctx context.Context, owner, id core.ID, status core.Status) (*core.Task, error) {
	if err := core.ValidateStatus(status); err != nil {
		return nil, err
	}
	return s.tasks.UpdateTaskStatus(ctx, owner, id, status)
}

// Delete removes owned tasks and their subtasks.
func (s *Service) Delete(ctx context.Context, owner core.ID, ids ...core.ID) error {
	return s.tasks.DeleteTasks(ctx, owner, ids...)
}

// EmbedText embeds an arbitrary text without touching storage. Callers that
// manage their own persistence attach the result via the repository.
func (s *Service) EmbedText(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ai.ErrEmptyText
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()
	return s.embedder.EmbedText(embedCtx, text)
}

// Embed re-embeds the task title and attaches the vector. Attaching an
// identical vector is a no-op at the storage layer, so repeated calls for an
// unchanged title converge.
func (s *Service) Embed(ctx context.Context, owner, id core.ID) (*core.Task, error) {
	task, err := s.tasks.GetTask(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	vector, err := s.embedder.EmbedText(embedCtx, task.Title)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.PutEmbedding(ctx, owner, id, vector); err != nil {
		return nil, err
	}
	return s.tasks.GetTask(ctx, owner, id)
}
