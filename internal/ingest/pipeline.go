package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/fileid"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
)

// Pipeline ingests source files: extract, chunk, embed, index, and record
// in the manifest. Re-ingesting an unchanged file is a no-op; a changed
// file replaces all of its previous chunks.
type Pipeline struct {
	manifest  storage.Manifest
	embedder  embedding.Embedder
	index     vector.Index
	extractor *extract.Extractor
	chunker   *Chunker
	config    *config.Config
	logger    *zap.Logger // optional; when set, logs ingestion events
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets a logger for ingestion events (file ingested, file skipped, etc.).
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline with the given dependencies.
func NewPipeline(
	manifest storage.Manifest,
	embedder embedding.Embedder,
	index vector.Index,
	extractor *extract.Extractor,
	cfg *config.Config,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		manifest:  manifest,
		embedder:  embedder,
		index:     index,
		extractor: extractor,
		chunker:   NewChunker(cfg.Chunking.Size, cfg.Chunking.Overlap),
		config:    cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestFile ingests one file. The file is skipped when its content hash
// matches the manifest entry for the same path. A changed file has its old
// chunks removed from the index and manifest before the new ones land.
func (p *Pipeline) IngestFile(ctx context.Context, path string) error {
	return p.ingestFile(ctx, path, false)
}

func (p *Pipeline) ingestFile(ctx context.Context, path string, force bool) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if !extensionAllowed(ext, p.config.Corpus.Extensions) {
		return fmt.Errorf("%w: %q", extract.ErrUnsupportedFormat, ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	hash := fileid.ContentHash(content)
	if existing, err := p.manifest.GetSourceFile(ctx, absPath); !force && err == nil && existing.Hash == hash {
		if p.logger != nil {
			p.logger.Debug("ingest skipping unchanged file", zap.String("path", absPath))
		}
		return nil
	}

	units, err := p.extractor.ExtractBytes(content, ext, absPath)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}
	var chunks []models.Chunk
	for _, unit := range units {
		chunks = append(chunks, p.chunker.Chunk(unit)...)
	}

	records, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	if err := p.index.RemoveSource(ctx, absPath); err != nil {
		return fmt.Errorf("remove previous vectors: %w", err)
	}
	if len(records) > 0 {
		if err := p.index.Upsert(ctx, records); err != nil {
			return fmt.Errorf("index vectors: %w", err)
		}
	}

	if err := p.manifest.DeleteChunksBySource(ctx, absPath); err != nil {
		return fmt.Errorf("delete previous chunks: %w", err)
	}
	if len(chunks) > 0 {
		if err := p.manifest.BatchCreateChunks(ctx, chunks); err != nil {
			return fmt.Errorf("store chunks: %w", err)
		}
	}
	file := &models.SourceFile{
		Path:       absPath,
		Ext:        ext,
		Hash:       hash,
		ChunkCount: len(chunks),
	}
	if err := p.manifest.UpsertSourceFile(ctx, file); err != nil {
		return fmt.Errorf("record source file: %w", err)
	}
	if p.logger != nil {
		p.logger.Debug("ingest file complete",
			zap.String("path", absPath),
			zap.Int("chunks", len(chunks)))
	}
	return nil
}

func (p *Pipeline) embedChunks(ctx context.Context, chunks []models.Chunk) ([]vector.Record, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("generate embeddings: %w", err)
	}
	records := make([]vector.Record, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
		records[i] = vector.Record{
			ID:         chunks[i].ID,
			Vector:     embeddings[i],
			Text:       chunks[i].Text,
			Source:     chunks[i].Source,
			Locator:    chunks[i].Locator,
			ChunkIndex: chunks[i].Index,
		}
	}
	return records, nil
}

// IngestDirectory walks dir recursively and ingests each regular file with
// an allowed extension. Per-file failures are logged and skipped; they never
// abort the run. Returns the number of files successfully ingested.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string) (int, error) {
	return p.ingestDirectory(ctx, dir, false)
}

func (p *Pipeline) ingestDirectory(ctx context.Context, dir string, force bool) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	walkErr := filepath.WalkDir(absDir, func(path string, d os.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !extensionAllowed(ext, p.config.Corpus.Extensions) {
			return nil
		}
		// Resolve symlinks so only regular files are ingested.
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if ingestErr := p.ingestFile(ctx, path, force); ingestErr != nil {
			if p.logger != nil {
				p.logger.Warn("ingest file failed, skipping",
					zap.String("path", path),
					zap.Error(ingestErr))
			}
			return nil
		}
		n++
		return nil
	})
	return n, walkErr
}

// Refresh rescans the configured corpus directory and persists the index.
// Returns the number of files ingested (unchanged files count as skipped).
func (p *Pipeline) Refresh(ctx context.Context) (int, error) {
	return p.refresh(ctx, false)
}

// Rebuild re-ingests every corpus file even when its content hash matches
// the manifest. Required whenever the vector index must be reconstructed
// from scratch: the embed model changed, the index file is corrupt, or the
// file is gone while the manifest still lists its chunks. A plain Refresh
// would skip all unchanged files and leave the index empty.
func (p *Pipeline) Rebuild(ctx context.Context) (int, error) {
	return p.refresh(ctx, true)
}

func (p *Pipeline) refresh(ctx context.Context, force bool) (int, error) {
	n, err := p.ingestDirectory(ctx, p.config.Corpus.Directory, force)
	if err != nil {
		return n, err
	}
	if err := p.index.Save(p.config.Storage.IndexPath); err != nil {
		return n, fmt.Errorf("persist index: %w", err)
	}
	return n, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
