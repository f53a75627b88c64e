package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SubtaskGenerator decomposes a task title into actionable subtasks.
// Implementations must be thread-safe for concurrent use.
type SubtaskGenerator interface {
	// GenerateSubtasks returns 5 to 7 short imperative subtask titles for the
	// given task title. The generator performs no retries beyond recovering
	// from malformed model output and no ranking of its own.
	GenerateSubtasks(ctx context.Context, title string) ([]string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and SubtaskGenerator instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// SubtaskGenerator returns the subtask decomposition service.
	// The returned SubtaskGenerator is safe for concurrent use.
	SubtaskGenerator() SubtaskGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
