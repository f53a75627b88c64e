package backfill

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/ai/mock"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage"
	"github.com/tasknest/tasknest/storage/badger"
)

func newMemoryTaskRepo(t *testing.T) storage.TaskRepository {
	t.Helper()

	taskRepo, subtaskRepo, userRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	})
	return taskRepo
}

func testConfig() *Config {
	return &Config{
		BatchSize:  2,
		PoolSize:   2,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}
}

func TestBackfillEmbedsPendingTasks(t *testing.T) {
	taskRepo := newMemoryTaskRepo(t)
	ctx := context.Background()

	for _, owner := range []core.ID{1, 1, 2} {
		_, err := taskRepo.AddTasks(ctx, &core.Task{
			Title:    "Unembedded task",
			Priority: core.PriorityLow,
			Status:   core.StatusPending,
			Owner:    owner,
		})
		require.NoError(t, err)
	}

	var progress bytes.Buffer
	pipeline, err := NewPipeline(taskRepo, mock.NewMockEmbedder(), testConfig(), &progress)
	require.NoError(t, err)
	defer pipeline.Release()

	require.NoError(t, pipeline.Run(ctx))

	pending, err := taskRepo.TasksWithoutEmbedding(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Vectors landed under the right owners
	forOwner1, err := taskRepo.ScanEmbedded(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, forOwner1, 2)

	forOwner2, err := taskRepo.ScanEmbedded(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, forOwner2, 1)

	assert.Contains(t, progress.String(), "Backfill complete")
}

func TestBackfillNothingPending(t *testing.T) {
	taskRepo := newMemoryTaskRepo(t)

	var progress bytes.Buffer
	pipeline, err := NewPipeline(taskRepo, mock.NewMockEmbedder(), testConfig(), &progress)
	require.NoError(t, err)
	defer pipeline.Release()

	require.NoError(t, pipeline.Run(context.Background()))
	assert.Contains(t, progress.String(), "0 tasks")
}

func TestBackfillRetriesTransientFailures(t *testing.T) {
	taskRepo := newMemoryTaskRepo(t)
	ctx := context.Background()

	_, err := taskRepo.AddTasks(ctx, &core.Task{
		Title:    "Flaky provider",
		Priority: core.PriorityLow,
		Status:   core.StatusPending,
		Owner:    1,
	})
	require.NoError(t, err)

	var calls atomic.Int64
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("transient")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	pipeline, err := NewPipeline(taskRepo, embedder, testConfig(), nil)
	require.NoError(t, err)
	defer pipeline.Release()

	require.NoError(t, pipeline.Run(ctx))

	pending, err := taskRepo.TasksWithoutEmbedding(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestBackfillReportsExhaustedBatches(t *testing.T) {
	taskRepo := newMemoryTaskRepo(t)
	ctx := context.Background()

	_, err := taskRepo.AddTasks(ctx, &core.Task{
		Title:    "Poisoned",
		Priority: core.PriorityLow,
		Status:   core.StatusPending,
		Owner:    1,
	})
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("permanent")
	}

	pipeline, err := NewPipeline(taskRepo, embedder, testConfig(), nil)
	require.NoError(t, err)
	defer pipeline.Release()

	err = pipeline.Run(ctx)
	assert.ErrorIs(t, err, ErrBatchFailed)

	// The task stays queued for the next run
	pending, err := taskRepo.TasksWithoutEmbedding(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
