package planner

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

// DefaultGenerateTimeout bounds a single suggestion call to the provider.
// Generation is slower than embedding, so the bound is looser.
const DefaultGenerateTimeout = 60 * time.Second

// Planner generates and persists subtasks for a task.
type Planner struct {
	tasks           storage.TaskRepository
	subtasks        storage.SubtaskRepository
	generator       ai.SubtaskGenerator
	generateTimeout time.Duration
	logger          *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner) error

// WithGenerateTimeout bounds the provider call per suggestion request.
// Default is DefaultGenerateTimeout.
func WithGenerateTimeout(timeout time.Duration) Option {
	return func(p *Planner) error {
		if timeout <= 0 {
			return fmt.Errorf("generate timeout must be positive, got %v", timeout)
		}
		p.generateTimeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPlanner creates a new planner.
func NewPlanner(
	tasks storage.TaskRepository,
	subtasks storage.SubtaskRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Planner, error) {
	if tasks == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if subtasks == nil {
		return nil, ErrSubtaskRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Planner{
		tasks:           tasks,
		subtasks:        subtasks,
		generator:       provider.SubtaskGenerator(),
		generateTimeout: DefaultGenerateTimeout,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	p.logger = p.logger.With("component", "planner")

	return p, nil
}

// Suggest asks the provider to break the owned task into subtask titles.
// Suggestions are transient; nothing is stored until Save.
func (p *Planner) Suggest(ctx context.Context, owner, taskID core.ID) ([]string, error) {
	task, err := p.tasks.GetTask(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, p.generateTimeout)
	defer cancel()

	titles, err := p.generator.GenerateSubtasks(genCtx, task.Title)
	if err != nil {
		p.logger.Error("subtask generation failed", "owner", owner, "task", taskID, "err", err)
		return nil, err
	}

	p.logger.Debug("generated subtask suggestions",
		"owner", owner, "task", taskID, "count", len(titles))

	return titles, nil
}

// Save persists the given subtask titles under an owned task.
// Titles already saved for the task are skipped, so re-saving a suggestion
// list after a partial save never duplicates.
func (p *Planner) Save(ctx context.Context, owner, taskID core.ID, titles []string) ([]*core.Subtask, error) {
	if _, err := p.tasks.GetTask(ctx, owner, taskID); err != nil {
		return nil, err
	}

	existing, err := p.subtasks.GetSubtasksByTask(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}
	// Dedupe on content IDs so a re-sent suggestion list is a no-op.
	seen := make(map[core.ID]bool, len(existing))
	for _, subtask := range existing {
		seen[core.IDFromContent(subtask.Title)] = true
	}

	var toSave []*core.Subtask
	for _, title := range titles {
		title = strings.TrimSpace(title)
		titleID := core.IDFromContent(title)
		if title == "" || seen[titleID] {
			continue
		}
		seen[titleID] = true

		subtask := &core.Subtask{
			TaskId: taskID,
			Owner:  owner,
			Title:  title,
			Saved:  true,
		}
		if err := core.ValidateSubtask(subtask); err != nil {
			return nil, err
		}
		toSave = append(toSave, subtask)
	}

	if len(toSave) == 0 {
		if len(titles) == 0 {
			return nil, ErrNoTitles
		}
		// Everything was already saved
		return []*core.Subtask{}, nil
	}

	return p.subtasks.AddSubtasks(ctx, toSave...)
}

// List returns the saved subtasks of an owned task.
func (p *Planner) List(ctx context.Context, owner, taskID core.ID) ([]*core.Subtask, error) {
	if _, err := p.tasks.GetTask(ctx, owner, taskID); err != nil {
		return nil, err
	}
	return p.subtasks.GetSubtasksByTask(ctx, owner, taskID)
}

// Delete removes a single saved subtask from an owned task.
func (p *Planner) Delete(ctx context.Context, owner, taskID, id core.ID) error {
	return p.subtasks.DeleteSubtask(ctx, owner, taskID, id)
}
