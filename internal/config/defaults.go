package config

// DefaultSystemPrompt is the instruction preamble used when neither the
// config file nor the SYSTEM_PROMPT environment variable sets one.
const DefaultSystemPrompt = `You are a helpful assistant that answers questions using the provided context.
Base your answer only on the context below. If the context does not contain
the answer, say so instead of guessing. Format the answer as Markdown.`

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kotae/data/db/manifest.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/kotae/data/indices/vectors.idx"
	}
	if cfg.Storage.SessionsDir == "" {
		cfg.Storage.SessionsDir = "/usr/local/var/kotae/data/sessions"
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = "nomic-embed-text"
	}
	if cfg.Ollama.GenerateModel == "" {
		cfg.Ollama.GenerateModel = "llama3"
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = 120
	}
	if cfg.Ollama.CacheSize == 0 {
		cfg.Ollama.CacheSize = 10000
	}
	if cfg.Corpus.Extensions == nil {
		cfg.Corpus.Extensions = []string{".txt", ".md", ".rst", ".pdf", ".docx", ".xlsx", ".pptx", ".odp", ".ods"}
	}
	if cfg.Corpus.RescanIntervalSecs == 0 {
		cfg.Corpus.RescanIntervalSecs = 15
	}
	if cfg.Corpus.WatchDebounceMillis == 0 {
		cfg.Corpus.WatchDebounceMillis = 500
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 500
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 50
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.MaxContextChars == 0 {
		cfg.Retrieval.MaxContextChars = 8000
	}
	if cfg.Retrieval.HistoryEntries == 0 {
		cfg.Retrieval.HistoryEntries = 10
	}
	if cfg.Retrieval.SystemPrompt == "" {
		cfg.Retrieval.SystemPrompt = DefaultSystemPrompt
	}
	// MinScore defaults to 0 so no chunks are filtered unless configured.
}
