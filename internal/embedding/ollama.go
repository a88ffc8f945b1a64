package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hyperjump/kotae/pkg/utils"
)

const defaultEmbedTimeout = 30 * time.Second

// OllamaEmbedder calls an Ollama-compatible embeddings endpoint
// (POST {base}/api/embeddings with {"model", "prompt"}). Vectors are
// normalized to unit length so the index's inner-product metric equals
// cosine similarity. The first successful embed pins the dimension; any
// later drift returns ErrDimensionMismatch.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client

	mu         sync.Mutex
	dimensions int
}

// NewOllamaEmbedder creates an embedder for the given backend and model.
// dimensions may be 0 (pinned on first embed) or the expected dimension,
// which is then enforced from the first call.
func NewOllamaEmbedder(baseURL, model string, dimensions int, timeout time.Duration) *OllamaEmbedder {
	if timeout <= 0 {
		timeout = defaultEmbedTimeout
	}
	return &OllamaEmbedder{
		baseURL:    baseURL,
		model:      model,
		client:     &http.Client{Timeout: timeout},
		dimensions: dimensions,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed returns the normalized embedding for text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding backend: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding backend: %s: %s", resp.Status, bytes.TrimSpace(payload))
	}
	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("embedding backend returned no embedding")
	}

	e.mu.Lock()
	if e.dimensions == 0 {
		e.dimensions = len(out.Embedding)
	}
	pinned := e.dimensions
	e.mu.Unlock()
	if len(out.Embedding) != pinned {
		return nil, fmt.Errorf("%w: got %d, pinned %d", ErrDimensionMismatch, len(out.Embedding), pinned)
	}

	utils.NormalizeL2(out.Embedding)
	return out.Embedding, nil
}

// EmbedBatch embeds each text in order. The Ollama embeddings endpoint takes
// one prompt per call, so the batch is a sequential loop that stops at the
// first failure or context cancellation.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed batch item %d: %w", i, err)
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the pinned embedding dimension (0 before the first embed
// when no expected dimension was configured).
func (e *OllamaEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimensions
}

// ModelName returns the embedding model identity.
func (e *OllamaEmbedder) ModelName() string {
	return e.model
}

// Close is a no-op for OllamaEmbedder.
func (e *OllamaEmbedder) Close() error {
	return nil
}
