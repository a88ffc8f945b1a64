// Package embedding provides text embedding via an Ollama-compatible backend, with caching.
package embedding

import (
	"context"
	"errors"
)

// ErrDimensionMismatch is returned when the backend produces a vector whose
// dimension differs from the pinned dimension. The embedder identity is
// pinned per index; a drift here means the model changed underneath us and
// the index must be rebuilt rather than polluted.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder produces vector embeddings for text. The same embedder identity
// (model) must be used at ingestion and query time.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
	Close() error
}
