package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/answer"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/session"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
)

const testDims = 8

func newTestServer(t *testing.T, gen llm.Generator) (*Server, string) {
	t.Helper()
	dataDir := t.TempDir()
	corpusDir := filepath.Join(dataDir, "corpus")
	if err := os.MkdirAll(corpusDir, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Corpus:   config.CorpusConfig{Directory: corpusDir},
		Chunking: config.ChunkingConfig{Size: 100, Overlap: 10},
		Storage: config.StorageConfig{
			DatabasePath: filepath.Join(dataDir, "manifest.db"),
			IndexPath:    filepath.Join(dataDir, "vectors.idx"),
			SessionsDir:  filepath.Join(dataDir, "sessions"),
		},
	}
	config.ApplyDefaults(cfg)

	manifest, err := storage.NewSQLiteManifest(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = manifest.Close() })

	emb := embedding.NewMockEmbedder(testDims)
	index, err := vector.NewMemoryIndex(testDims, emb.ModelName())
	if err != nil {
		t.Fatal(err)
	}
	pipeline := ingest.NewPipeline(manifest, emb, index, extract.NewExtractor(), cfg)
	retriever := retrieval.NewRetriever(emb, index, &cfg.Retrieval)
	sessions := session.NewStore(cfg.Storage.SessionsDir)
	answers := answer.NewService(retriever, gen, sessions, &cfg.Retrieval)

	return NewServer(answers, pipeline, manifest, index, cfg, zap.NewNop()), corpusDir
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk(t *testing.T) {
	s, corpusDir := newTestServer(t, &llm.MockGenerator{Answer: "the answer"})
	if err := os.WriteFile(filepath.Join(corpusDir, "doc.txt"), []byte("Relevant document text."), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.pipeline.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, s, http.MethodPost, "/api/v1/ask", askRequest{Question: "what is relevant?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var result models.AskResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.SessionID == "" {
		t.Error("session_id missing")
	}
	if result.Answer != "the answer" {
		t.Errorf("answer: got %q", result.Answer)
	}
	if result.AnswerFormat != models.AnswerFormatMarkdown {
		t.Errorf("answer_format: got %q", result.AnswerFormat)
	}
}

func TestHandleAsk_EmptyQuestion(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Answer: "a"})
	rec := doRequest(t, s, http.MethodPost, "/api/v1/ask", askRequest{Question: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleAsk_InvalidBody(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Answer: "a"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleAsk_BackendFailure(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Err: llm.ErrBackendUnavailable})
	rec := doRequest(t, s, http.MethodPost, "/api/v1/ask", askRequest{Question: "q"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rec.Code)
	}
	var result models.AskResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Failed {
		t.Error("failed entry expected in response body")
	}
	if result.Question != "q" {
		t.Errorf("question: got %q", result.Question)
	}
}

func TestHandleSessionHistory(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Answer: "a1"})
	rec := doRequest(t, s, http.MethodPost, "/api/v1/ask", askRequest{Question: "q1"})
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	var result models.AskResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/sessions/"+result.SessionID+"/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SessionID string             `json:"session_id"`
		Entries   []models.ChatEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Question != "q1" {
		t.Errorf("entries: %+v", resp.Entries)
	}
}

func TestHandleSessionHistory_InvalidID(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Answer: "a"})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/sessions/not-a-uuid/history", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleRefreshAndListFiles(t *testing.T) {
	s, corpusDir := newTestServer(t, &llm.MockGenerator{Answer: "a"})
	if err := os.WriteFile(filepath.Join(corpusDir, "one.txt"), []byte("File one content."), 0600); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, s, http.MethodPost, "/api/v1/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status %d: %s", rec.Code, rec.Body.String())
	}
	var refreshResp struct {
		FilesIngested int `json:"files_ingested"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &refreshResp); err != nil {
		t.Fatal(err)
	}
	if refreshResp.FilesIngested != 1 {
		t.Errorf("files_ingested: got %d", refreshResp.FilesIngested)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/files", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("files status %d", rec.Code)
	}
	var filesResp struct {
		Files []models.SourceFile `json:"files"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &filesResp); err != nil {
		t.Fatal(err)
	}
	if filesResp.Total != 1 || len(filesResp.Files) != 1 {
		t.Fatalf("files: %+v", filesResp)
	}
	if filepath.Base(filesResp.Files[0].Path) != "one.txt" {
		t.Errorf("file path: %s", filesResp.Files[0].Path)
	}
}

func TestHandleListFiles_Empty(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Answer: "a"})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/files", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp struct {
		Files []models.SourceFile `json:"files"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 || resp.Files == nil {
		t.Errorf("expected empty list, got %+v", resp)
	}
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Answer: "a"})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"files", "chunks", "vector_index_size", "config"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("status response missing %q", key)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t, &llm.MockGenerator{Answer: "a"})
	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}
}
