package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// EmbeddingProvider defines the interface for generating text embeddings.
type EmbeddingProvider interface {
	// Generate embeds a single text.
	Generate(ctx context.Context, text string) ([]float32, error)

	// GenerateBatch embeds texts in order. The returned slice has one
	// vector per input text.
	GenerateBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the width of vectors this provider produces.
	Dimensions() int
}

// ProviderError carries whether a failure is worth retrying. Rate limits
// and upstream 5xx responses are transient; bad requests are not.
type ProviderError struct {
	Provider  string
	Transient bool
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s embedding error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Transient
}

// normalizeVector scales a vector to unit length. Cosine distance in
// pgvector expects normalized vectors.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
