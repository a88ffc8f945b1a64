// Package vector provides the persistent vector record index and similarity search.
package vector

import (
	"context"
	"errors"
)

// ErrIndexEmpty is returned by Search when the index holds no records.
// Callers treat it as "no context available", not a hard failure.
var ErrIndexEmpty = errors.New("vector index is empty")

// ErrIndexCorrupt is returned by Load when the stored format, embedding
// model, or dimension does not match the active configuration. The caller
// must rebuild the index from source documents; partial recovery is never
// attempted.
var ErrIndexCorrupt = errors.New("vector index corrupt or incompatible")

// ErrEmbedderMismatch is returned when a vector's dimension does not match
// the index dimension. Mixing embeddings from different models corrupts the
// similarity geometry, so this always aborts the operation.
var ErrEmbedderMismatch = errors.New("embedding dimension mismatch")

// Record is one persisted vector entry: chunk identity, embedding, text, and provenance.
type Record struct {
	ID         string
	Vector     []float32
	Text       string
	Source     string
	Locator    string
	ChunkIndex int
}

// Result is a single search hit.
type Result struct {
	Record *Record
	Score  float64 // inner product over normalized vectors (cosine similarity)
}

// Index defines vector record storage with nearest-neighbor search.
// Upsert is idempotent by record ID and atomic per record: a concurrent
// Search sees the old or the new record, never a torn one.
type Index interface {
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	RemoveSource(ctx context.Context, source string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Dimensions() int
	ModelName() string
	Close() error
}
