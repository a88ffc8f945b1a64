// Package retrieval runs semantic retrieval over the vector index.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/vector"
)

// Retriever embeds a question and returns the most similar chunks.
// The embedder must be the same identity used at ingestion time.
type Retriever struct {
	embedder embedding.Embedder
	index    vector.Index
	config   *config.RetrievalConfig
}

// NewRetriever creates a retriever with the given dependencies.
func NewRetriever(embedder embedding.Embedder, index vector.Index, cfg *config.RetrievalConfig) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		config:   cfg,
	}
}

// Retrieve returns up to TopK chunks scored against the question, filtered by
// MinScore and ordered by descending score. An empty index yields an empty
// result, not an error; the caller answers without context.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]models.ScoredChunk, error) {
	queryEmbedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	results, err := r.index.Search(ctx, queryEmbedding, r.config.TopK)
	if err != nil {
		if errors.Is(err, vector.ErrIndexEmpty) {
			return []models.ScoredChunk{}, nil
		}
		return nil, fmt.Errorf("vector search: %w", err)
	}
	chunks := make([]models.ScoredChunk, 0, len(results))
	for _, res := range results {
		if res.Score < r.config.MinScore {
			continue
		}
		chunks = append(chunks, models.ScoredChunk{
			Text:    res.Record.Text,
			Score:   res.Score,
			Source:  res.Record.Source,
			Locator: res.Record.Locator,
		})
	}
	return chunks, nil
}
