package search

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

// DefaultEmbedTimeout bounds how long a single search waits on the
// embedding provider.
const DefaultEmbedTimeout = 10 * time.Second

// Searcher provides semantic search over one owner's tasks.
type Searcher struct {
	tasks        storage.TaskRepository
	embedder     ai.Embedder
	topK         int
	minScore     float32
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithTopK sets the maximum number of results returned.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(s *Searcher) error {
		if topK <= 0 {
			return fmt.Errorf("topK must be positive, got %d", topK)
		}
		s.topK = topK
		return nil
	}
}

// WithMinScore sets the similarity floor below which results are dropped.
// Default is DefaultMinScore.
func WithMinScore(minScore float32) Option {
	return func(s *Searcher) error {
		if minScore < 0 || minScore > 1 {
			return fmt.Errorf("minScore must be in [0, 1], got %f", minScore)
		}
		s.minScore = minScore
		return nil
	}
}

// WithEmbedTimeout bounds the embedding call per search.
// Default is DefaultEmbedTimeout.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
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
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	tasks storage.TaskRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if tasks == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		tasks:        tasks,
		embedder:     provider.Embedder(),
		topK:         DefaultTopK,
		minScore:     DefaultMinScore,
		embedTimeout: DefaultEmbedTimeout,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Search finds the owner's tasks most similar to the query text.
// Returns up to topK results at or above minScore, ranked by similarity.
// An empty result set means nothing relevant was stored; it is not an error.
//
// A provider failure or timeout surfaces as ErrSearchUnavailable. Stored
// tasks are unaffected; the caller may retry later.
func (s *Searcher) Search(ctx context.Context, owner core.ID, query string) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	queryVector, err := s.embedder.EmbedText(embedCtx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	candidates, err := s.tasks.ScanEmbedded(ctx, owner)
	if err != nil {
		s.logger.Error("error scanning embedded tasks", "owner", owner, "err", err)
		return nil, err
	}

	results := Rank(queryVector, candidates, s.topK, s.minScore)

	s.logger.Debug("search complete",
		"owner", owner,
		"candidates", len(candidates),
		"hits", len(results))

	return results, nil
}
