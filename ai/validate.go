package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// ValidatedEmbedder wraps an Embedder and enforces the embedding contract:
// input text must be non-empty after trimming, and every returned vector must
// have exactly the configured dimensionality with all components finite.
//
// Empty input is rejected with ErrEmptyText before the inner embedder is
// called. A vector failing the shape check is reported as ErrMalformedResponse.
type ValidatedEmbedder struct {
	inner Embedder
	dims  int
}

var _ Embedder = (*ValidatedEmbedder)(nil)

// NewValidated wraps inner with contract validation for vectors of the given
// dimensionality.
func NewValidated(inner Embedder, dims int) *ValidatedEmbedder {
	return &ValidatedEmbedder{inner: inner, dims: dims}
}

// EmbedText generates a validated vector embedding for a single text string.
func (v *ValidatedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	vector, err := v.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := v.checkVector(vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// EmbedTexts generates validated vector embeddings for multiple text strings.
// All inputs are checked before any external call is made.
func (v *ValidatedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: input %d", ErrEmptyText, i)
		}
	}

	vectors, err := v.inner.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", ErrMalformedResponse, len(texts), len(vectors))
	}
	for i, vector := range vectors {
		if err := v.checkVector(vector); err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return vectors, nil
}

func (v *ValidatedEmbedder) checkVector(vector []float32) error {
	if len(vector) != v.dims {
		return fmt.Errorf("%w: expected %d components, got %d", ErrMalformedResponse, v.dims, len(vector))
	}
	for i, c := range vector {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d is not finite", ErrMalformedResponse, i)
		}
	}
	return nil
}
