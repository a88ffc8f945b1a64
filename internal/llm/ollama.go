package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultGenerateTimeout = 120 * time.Second

// OllamaGenerator calls an Ollama-compatible generation endpoint
// (POST {base}/api/generate with {"model", "prompt", "stream": false}).
type OllamaGenerator struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewOllamaGenerator creates a generator for the given backend and model.
// timeout bounds each request; 0 uses the default.
func NewOllamaGenerator(baseURL, model string, timeout time.Duration) *OllamaGenerator {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &OllamaGenerator{
		baseURL: baseURL,
		model:   model,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate returns the backend's completion for prompt. Failures wrap
// ErrBackendUnavailable so callers can distinguish backend trouble from
// their own errors; the request is never retried here.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Model: g.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: %s: %s", ErrBackendUnavailable, resp.Status, bytes.TrimSpace(payload))
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrBackendUnavailable, err)
	}
	return out.Response, nil
}

// ModelName returns the generation model identity.
func (g *OllamaGenerator) ModelName() string {
	return g.model
}

// Close is a no-op for OllamaGenerator.
func (g *OllamaGenerator) Close() error {
	return nil
}
