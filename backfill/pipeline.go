package backfill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tasknest/tasknest/ai"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage"
)

// Config holds configuration for a backfill run.
type Config struct {
	// BatchSize is the number of tasks embedded per provider call
	BatchSize int

	// PoolSize is the number of batches processed concurrently
	PoolSize int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return &Config{
		BatchSize:  32,
		PoolSize:   poolSize,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// Pipeline embeds stored tasks that have no vector yet.
type Pipeline struct {
	tasks    storage.TaskRepository
	embedder ai.Embedder
	config   *Config
	pool     *ants.Pool
	progress io.Writer
	logger   *slog.Logger
}

// NewPipeline creates a new backfill pipeline.
// progress: where to write progress output (typically os.Stderr)
func NewPipeline(tasks storage.TaskRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Pipeline, error) {
	if tasks == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	if config.PoolSize < 1 {
		config.PoolSize = 1
	}
	if progress == nil {
		progress = io.Discard
	}

	pool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		tasks:    tasks,
		embedder: embedder,
		config:   config,
		pool:     pool,
		progress: progress,
		logger:   slog.Default().With("component", "backfill"),
	}, nil
}

// Release frees the worker pool.
func (p *Pipeline) Release() {
	p.pool.Release()
}

// Run embeds every task currently lacking a vector.
// Batches run concurrently over the worker pool; a batch that exhausts its
// retries is logged and skipped. Returns an error only when the scan itself
// fails; per-batch failures are reported in the summary.
func (p *Pipeline) Run(ctx context.Context) error {
	pending, err := p.tasks.TasksWithoutEmbedding(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan for unembedded tasks: %w", err)
	}

	if len(pending) == 0 {
		fmt.Fprintf(p.progress, "No tasks pending embedding (0 tasks)\n")
		return nil
	}

	fmt.Fprintf(p.progress, "Backfilling %d tasks (batch size: %d, workers: %d)\n",
		len(pending), p.config.BatchSize, p.config.PoolSize)

	var (
		wg        sync.WaitGroup
		embedded  atomic.Int64
		failed    atomic.Int64
		batchErrs atomic.Int64
	)

	for start := 0; start < len(pending); start += p.config.BatchSize {
		end := start + p.config.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			if err := p.processBatch(ctx, batch); err != nil {
				p.logger.Error("batch failed", "size", len(batch), "err", err)
				failed.Add(int64(len(batch)))
				batchErrs.Add(1)
				return
			}
			embedded.Add(int64(len(batch)))
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(int64(len(batch)))
			batchErrs.Add(1)
		}
	}

	wg.Wait()

	fmt.Fprintf(p.progress, "Backfill complete: %d embedded, %d failed\n",
		embedded.Load(), failed.Load())

	if batchErrs.Load() > 0 {
		return fmt.Errorf("%w: %d batches failed", ErrBatchFailed, batchErrs.Load())
	}
	return nil
}

// processBatch embeds one batch of tasks and attaches the vectors.
func (p *Pipeline) processBatch(ctx context.Context, batch []*core.Task) error {
	titles := make([]string, len(batch))
	for i, task := range batch {
		titles[i] = task.Title
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedTexts(ctx, titles)
		return embedErr
	}, p.config.MaxRetries, p.config.RetryDelay)
	if err != nil {
		return err
	}

	if len(vectors) != len(batch) {
		return fmt.Errorf("provider returned %d vectors for %d tasks", len(vectors), len(batch))
	}

	for i, task := range batch {
		if err := p.tasks.PutEmbedding(ctx, task.Owner, task.Id, vectors[i]); err != nil {
			return err
		}
	}
	return nil
}
