package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
ollama:
  embed_model: "all-minilm"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Ollama.EmbedModel != "all-minilm" {
		t.Errorf("embed_model: got %s", cfg.Ollama.EmbedModel)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/db/manifest.db"
  index_path: "./data/indices/vectors.idx"
corpus:
  directory: "./docs"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "manifest.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	wantCorpus := filepath.Join(dir, "docs")
	if cfg.Corpus.Directory != wantCorpus {
		t.Errorf("corpus directory = %s, want %s", cfg.Corpus.Directory, wantCorpus)
	}
}

func TestLoad_envOverridesBaseURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
ollama:
  base_url: "http://filehost:11434"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OLLAMA_BASE_URL", "http://envhost:11434")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ollama.BaseURL != "http://envhost:11434" {
		t.Errorf("base_url = %s, want env override", cfg.Ollama.BaseURL)
	}
}

func TestLoad_envOverridesSystemPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
retrieval:
  system_prompt: "prompt from file"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYSTEM_PROMPT", "prompt from env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Retrieval.SystemPrompt != "prompt from env" {
		t.Errorf("system_prompt = %q, want env override", cfg.Retrieval.SystemPrompt)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("default base_url: got %s", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.TimeoutSecs != 120 {
		t.Errorf("default timeout_secs: got %d", cfg.Ollama.TimeoutSecs)
	}
	if cfg.Chunking.Size != 500 || cfg.Chunking.Overlap != 50 {
		t.Errorf("default chunking: got %+v", cfg.Chunking)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("default top_k: got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MinScore != 0 {
		t.Errorf("default min_score should be 0, got %f", cfg.Retrieval.MinScore)
	}
	if cfg.Retrieval.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("default system_prompt: got %q", cfg.Retrieval.SystemPrompt)
	}
	if cfg.Corpus.RescanIntervalSecs != 15 {
		t.Errorf("default rescan_interval_secs: got %d", cfg.Corpus.RescanIntervalSecs)
	}
	if cfg.Corpus.Extensions == nil {
		t.Error("corpus extensions should be set by default")
	}
	if len(cfg.Corpus.Extensions) != 9 || cfg.Corpus.Extensions[0] != ".txt" {
		t.Errorf("corpus extensions: got %v", cfg.Corpus.Extensions)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090},
		Storage: StorageConfig{DatabasePath: "/tmp/db"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
}
