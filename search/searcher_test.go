package search

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/ai"
	"github.com/tasknest/tasknest/ai/mock"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage/badger"
)

// bucketEmbedder maps texts into hand-crafted topic buckets so similarity in
// tests is controlled, not an artifact of hashed vectors.
func bucketEmbedder(ctx context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "milk"), strings.Contains(lower, "groceries"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(lower, "tax"), strings.Contains(lower, "finance"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func newBucketProvider() ai.AIProvider {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = bucketEmbedder
	return mock.NewMockProviderWithServices(embedder, mock.NewMockSubtaskGenerator())
}

func TestNewSearcher(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(taskRepo, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with options", func(t *testing.T) {
		searcher, err := NewSearcher(taskRepo, provider,
			WithTopK(3),
			WithMinScore(0.5),
			WithEmbedTimeout(time.Second),
			WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil task repository", func(t *testing.T) {
		_, err := NewSearcher(nil, provider)
		assert.Equal(t, ErrTaskRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(taskRepo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})

	t.Run("invalid topK", func(t *testing.T) {
		_, err := NewSearcher(taskRepo, provider, WithTopK(0))
		assert.Error(t, err)
	})

	t.Run("invalid minScore", func(t *testing.T) {
		_, err := NewSearcher(taskRepo, provider, WithMinScore(1.5))
		assert.Error(t, err)
	})

	t.Run("invalid embed timeout", func(t *testing.T) {
		_, err := NewSearcher(taskRepo, provider, WithEmbedTimeout(0))
		assert.Error(t, err)
	})
}

func TestSearchEmptyQuery(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	searcher, err := NewSearcher(taskRepo, provider)
	require.NoError(t, err)

	mockProvider := provider.(*mock.MockProvider)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := searcher.Search(context.Background(), 1, query)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}

	// Rejected before the provider is ever consulted
	assert.Equal(t, 0, mockProvider.GetMockEmbedder().CallCount())
}

func TestSearchEmptyStore(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	searcher, err := NewSearcher(taskRepo, newBucketProvider())
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), 1, "buy milk")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRelevance(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	owner := core.ID(1)

	_, err = taskRepo.AddTasks(ctx,
		&core.Task{Title: "Buy groceries", Priority: core.PriorityMedium, Status: core.StatusPending, Owner: owner, Vector: []float32{1, 0, 0}},
		&core.Task{Title: "File taxes", Priority: core.PriorityHigh, Status: core.StatusPending, Owner: owner, Vector: []float32{0, 1, 0}},
	)
	require.NoError(t, err)

	searcher, err := NewSearcher(taskRepo, newBucketProvider())
	require.NoError(t, err)

	t.Run("related query finds the matching task", func(t *testing.T) {
		results, err := searcher.Search(ctx, owner, "need milk from the store")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Buy groceries", results[0].Task.Title)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	})

	t.Run("unrelated query returns empty", func(t *testing.T) {
		results, err := searcher.Search(ctx, owner, "quantum astrophysics")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("search never crosses owners", func(t *testing.T) {
		results, err := searcher.Search(ctx, core.ID(99), "need milk from the store")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearchTieBreakByRecency(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	owner := core.ID(1)
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err = taskRepo.AddTasks(ctx,
		&core.Task{Title: "Older groceries run", Priority: core.PriorityLow, Status: core.StatusPending, Owner: owner, CreatedAt: now.Add(-time.Hour), Vector: []float32{1, 0, 0}},
		&core.Task{Title: "Newer groceries run", Priority: core.PriorityLow, Status: core.StatusPending, Owner: owner, CreatedAt: now, Vector: []float32{1, 0, 0}},
	)
	require.NoError(t, err)

	searcher, err := NewSearcher(taskRepo, newBucketProvider())
	require.NoError(t, err)

	results, err := searcher.Search(ctx, owner, "buy milk")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Newer groceries run", results[0].Task.Title)
	assert.Equal(t, "Older groceries run", results[1].Task.Title)
}

func TestSearchTopK(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	owner := core.ID(1)

	var tasks []*core.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, &core.Task{
			Title:    "Groceries",
			Priority: core.PriorityLow,
			Status:   core.StatusPending,
			Owner:    owner,
			Vector:   []float32{1, 0, 0},
		})
	}
	_, err = taskRepo.AddTasks(ctx, tasks...)
	require.NoError(t, err)

	searcher, err := NewSearcher(taskRepo, newBucketProvider(), WithTopK(4))
	require.NoError(t, err)

	results, err := searcher.Search(ctx, owner, "buy milk")
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestSearchProviderFailure(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockSubtaskGenerator())

	searcher, err := NewSearcher(taskRepo, provider)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), 1, "buy milk")
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

// checkedProvider wraps a provider's embedder with the same contract check
// the production constructors apply.
type checkedProvider struct {
	ai.AIProvider
}

func (p checkedProvider) Embedder() ai.Embedder {
	return ai.NewValidated(p.AIProvider.Embedder(), mock.Dimensions)
}

func TestSearchMalformedVectorIsUnavailable(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		nan := float32(math.NaN())
		return []float32{nan, nan, nan}, nil
	}
	provider := checkedProvider{mock.NewMockProviderWithServices(embedder, mock.NewMockSubtaskGenerator())}

	searcher, err := NewSearcher(taskRepo, provider)
	require.NoError(t, err)

	// A query vector failing the contract never reaches the ranker; the
	// client sees the same generic failure as an outage.
	_, err = searcher.Search(context.Background(), 1, "buy milk")
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.ErrorIs(t, err, ai.ErrMalformedResponse)
}

func TestSearchEmbedTimeout(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return []float32{1, 0, 0}, nil
		}
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockSubtaskGenerator())

	searcher, err := NewSearcher(taskRepo, provider, WithEmbedTimeout(10*time.Millisecond))
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), 1, "buy milk")
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}
