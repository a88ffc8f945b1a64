// Package main is the Kotae CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/answer"
	"github.com/hyperjump/kotae/internal/cli"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/server"
	"github.com/hyperjump/kotae/internal/session"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
	"github.com/hyperjump/kotae/internal/watcher"
	"github.com/hyperjump/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// A .env next to the binary can set OLLAMA_BASE_URL without editing the config.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "history":
		runHistory()
	case "ingest":
		runIngest()
	case "files":
		runFiles()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file events, ingestion, retrieval)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Initial corpus scan so the index is ready before requests arrive.
	go func() {
		scan := components.Pipeline.Refresh
		if components.RebuildIndex {
			scan = components.Pipeline.Rebuild
		}
		n, err := scan(context.Background())
		if err != nil {
			logger.Warn("initial corpus scan failed", zap.Error(err))
			return
		}
		logger.Info("initial corpus scan complete",
			zap.Int("files", n),
			zap.Bool("rebuild", components.RebuildIndex))
	}()

	watchOpts := []watcher.WatcherOption{
		watcher.WithDebounce(time.Duration(cfg.Corpus.WatchDebounceMillis) * time.Millisecond),
	}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Corpus.Directory,
		cfg.Corpus.Extensions,
		time.Duration(cfg.Corpus.RescanIntervalSecs)*time.Second,
		func(path string) {
			if err := components.Pipeline.IngestFile(context.Background(), path); err != nil {
				logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
			}
		},
		func() {
			if _, err := components.Pipeline.Refresh(context.Background()); err != nil {
				logger.Warn("periodic rescan failed", zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}

	srv := server.NewServer(
		components.Answers,
		components.Pipeline,
		components.Manifest,
		components.Index,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if err := components.Index.Save(cfg.Storage.IndexPath); err != nil {
		logger.Warn("vector index save failed", zap.String("path", cfg.Storage.IndexPath), zap.Error(err))
	}
	watchCancel()
	watchSvc.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if fs.NArg() > 0 {
		path := fs.Arg(0)
		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("Failed to stat path: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			n, err := components.Pipeline.IngestDirectory(ctx, path)
			if err != nil {
				fmt.Printf("Ingesting directory failed: %v\n", err)
				os.Exit(1)
			}
			saveIndexOrExit(components, cfg)
			fmt.Printf("Ingested %d file(s) from %s\n", n, path)
			return
		}
		if err := components.Pipeline.IngestFile(ctx, path); err != nil {
			fmt.Printf("Ingesting failed: %v\n", err)
			os.Exit(1)
		}
		saveIndexOrExit(components, cfg)
		fmt.Printf("Ingested: %s\n", path)
		return
	}

	scan := components.Pipeline.Refresh
	if components.RebuildIndex {
		scan = components.Pipeline.Rebuild
	}
	n, err := scan(ctx)
	if err != nil {
		fmt.Printf("Ingesting corpus failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %d file(s) from %s\n", n, cfg.Corpus.Directory)
}

func saveIndexOrExit(components *Components, cfg *config.Config) {
	if err := components.Index.Save(cfg.Storage.IndexPath); err != nil {
		fmt.Printf("Saving index failed: %v\n", err)
		os.Exit(1)
	}
}

// askArgsReorder moves flags that appear after the question to the front so
// flag.Parse() sees them. Go's flag package stops at the first non-flag
// argument, so "kotae ask \"question\" -session x" would otherwise leave
// -session unparsed.
func askArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	askArgs := askArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer locally without a running server)")
	sessionID := fs.String("session", "", "session ID to continue a conversation")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae ask [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: kotae ask [flags] <question>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		result, err := askViaHTTP(*serverURL, *sessionID, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAskResult(os.Stdout, result, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Local mode: build the full stack against the live Ollama backend.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	result, err := components.Answers.Ask(context.Background(), *sessionID, question)
	if err != nil && result == nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAskResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, sessionID, question string) (*models.AskResult, error) {
	body, err := json.Marshal(map[string]string{
		"session_id": sessionID,
		"question":   question,
	})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	// 502 still carries the recorded failed entry.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadGateway {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var result models.AskResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read the session store directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae history [flags] <session-id>")
		os.Exit(1)
	}
	sessionID := fs.Arg(0)
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/sessions/" + sessionID + "/history")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			SessionID string             `json:"session_id"`
			Entries   []models.ChatEntry `json:"entries"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteHistory(os.Stdout, out.SessionID, out.Entries, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	entries, err := session.NewStore(cfg.Storage.SessionsDir).History(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "History failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteHistory(os.Stdout, sessionID, entries, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runFiles() {
	fs := flag.NewFlagSet("files", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read the manifest directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/files?limit=1000")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Files []*models.SourceFile `json:"files"`
			Total int64                `json:"total"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteFileList(os.Stdout, out.Files, out.Total, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	manifest, err := storage.NewSQLiteManifest(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open manifest: %v\n", err)
		os.Exit(1)
	}
	defer manifest.Close()

	ctx := context.Background()
	files, err := manifest.ListSourceFiles(ctx, 0, 1000)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}
	total, err := manifest.CountSourceFiles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteFileList(os.Stdout, files, total, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		for _, key := range []string{"files", "chunks", "vector_index_size", "disk_usage_bytes"} {
			if v, ok := status[key]; ok {
				fmt.Printf("%-20s %v\n", key+":", v)
			}
		}
		if cfgInfo, ok := status["config"].(map[string]interface{}); ok {
			fmt.Println("\n# configuration")
			for _, key := range []string{"embed_model", "generate_model", "dimensions", "chunk_size", "chunk_overlap", "corpus_dir", "database_path", "index_path"} {
				if v, ok := cfgInfo[key]; ok {
					fmt.Printf("%-20s %v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Manifest  storage.Manifest
	Embedder  embedding.Embedder
	Index     vector.Index
	Generator llm.Generator
	Pipeline  *ingest.Pipeline
	Sessions  *session.Store
	Answers   *answer.Service
	// RebuildIndex is set when the persisted vector index could not be used
	// (corrupt, model change, or missing while the manifest is populated)
	// and the next corpus scan must bypass the unchanged-file skip.
	RebuildIndex bool
}

func (c *Components) Close() {
	if c.Manifest != nil {
		_ = c.Manifest.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Generator != nil {
		_ = c.Generator.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	manifest, err := storage.NewSQLiteManifest(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize manifest storage: %w", err)
	}

	timeout := time.Duration(cfg.Ollama.TimeoutSecs) * time.Second
	ollamaEmbedder := embedding.NewOllamaEmbedder(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel, cfg.Ollama.Dimensions, timeout)
	embedder := embedding.NewCachedEmbedder(ollamaEmbedder, cfg.Ollama.CacheSize)

	dims := cfg.Ollama.Dimensions
	if dims == 0 {
		// Probe the backend once to pin the vector dimension for this model.
		probeCtx, cancel := context.WithTimeout(context.Background(), timeout)
		vec, probeErr := embedder.Embed(probeCtx, "kotae")
		cancel()
		if probeErr != nil {
			_ = manifest.Close()
			return nil, fmt.Errorf("failed to probe embedding dimensions (set ollama.dimensions to skip): %w", probeErr)
		}
		dims = len(vec)
	}

	index, err := vector.NewMemoryIndex(dims, cfg.Ollama.EmbedModel)
	if err != nil {
		_ = manifest.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	rebuildIndex := false
	if loadErr := index.Load(cfg.Storage.IndexPath); loadErr != nil {
		// A refresh alone cannot recover here: unchanged files are hash-skipped,
		// so the replacement index only fills up if every file is re-ingested.
		rebuildIndex = true
		if errors.Is(loadErr, vector.ErrIndexCorrupt) {
			logger.Warn("vector index incompatible, rebuilding from corpus",
				zap.String("path", cfg.Storage.IndexPath),
				zap.Error(loadErr))
		} else {
			logger.Warn("vector index load failed, rebuilding from corpus",
				zap.String("path", cfg.Storage.IndexPath),
				zap.Error(loadErr))
		}
	} else if index.Size() > 0 {
		logger.Info("vector index loaded",
			zap.String("path", cfg.Storage.IndexPath),
			zap.Int("records", index.Size()))
	} else {
		// Index file missing or empty while the manifest lists ingested
		// chunks (deleted index file, fresh index path). Same recovery.
		chunkCount, countErr := manifest.CountChunks(context.Background())
		if countErr == nil && chunkCount > 0 {
			rebuildIndex = true
			logger.Warn("vector index empty but manifest populated, rebuilding from corpus",
				zap.String("path", cfg.Storage.IndexPath),
				zap.Int64("manifest_chunks", chunkCount))
		}
	}

	generator := llm.NewOllamaGenerator(cfg.Ollama.BaseURL, cfg.Ollama.GenerateModel, timeout)

	pipelineOpts := []ingest.PipelineOption{}
	if debug {
		pipelineOpts = append(pipelineOpts, ingest.WithLogger(logger))
	}
	pipeline := ingest.NewPipeline(manifest, embedder, index, extract.NewExtractor(), cfg, pipelineOpts...)

	retriever := retrieval.NewRetriever(embedder, index, &cfg.Retrieval)
	sessions := session.NewStore(cfg.Storage.SessionsDir)

	answerOpts := []answer.ServiceOption{}
	if debug {
		answerOpts = append(answerOpts, answer.WithLogger(logger))
	}
	answers := answer.NewService(retriever, generator, sessions, &cfg.Retrieval, answerOpts...)

	return &Components{
		Manifest:     manifest,
		Embedder:     embedder,
		Index:        index,
		Generator:    generator,
		Pipeline:     pipeline,
		Sessions:     sessions,
		Answers:      answers,
		RebuildIndex: rebuildIndex,
	}, nil
}

func printUsage() {
	fmt.Println(`kotae - Ask questions about your local documents

Usage:
  kotae server [flags]            Start the HTTP server
  kotae ask [flags] <question>    Ask a question
  kotae history [flags] <id>      Show a session's conversation history
  kotae ingest [flags] [path]     Ingest the corpus directory (or one path)
  kotae files [flags]             List ingested files
  kotae status [flags]            Show corpus/index status
  kotae version                   Show version
  kotae help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotae/config.yaml)
  --debug            Enable debug logging (file events, ingestion, retrieval)

Ask Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to answer locally.
  --session string   Session ID to continue a conversation
  --output string    Output format: text or json (default: text)

History Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to read the session store directly.
  --output string    Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path

Files Flags:
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to read the manifest directly.
  --output string    Output format: text or json (default: text)

Status Flags:
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)

Examples:
  kotae server
  kotae ask "what does the Q3 report say about revenue?"
  kotae ask --session 6f1f... "and compared to Q2?"
  kotae history 6f1f...
  kotae ingest
  kotae ingest ~/Documents/reports
  kotae files
  kotae status --output json`)
}
