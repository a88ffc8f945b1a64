// Package storage defines the persistence interface for the ingestion manifest.
package storage

import (
	"context"

	"github.com/hyperjump/kotae/internal/models"
)

// Manifest tracks which source files have been ingested (by content hash)
// and the chunks each produced. The ingestion pipeline is its only writer;
// the file-listing API and re-ingestion skip checks read from it.
type Manifest interface {
	// Source file identity tracking
	UpsertSourceFile(ctx context.Context, file *models.SourceFile) error
	GetSourceFile(ctx context.Context, path string) (*models.SourceFile, error)
	ListSourceFiles(ctx context.Context, offset, limit int) ([]*models.SourceFile, error)
	DeleteSourceFile(ctx context.Context, path string) error

	// Chunk provenance
	BatchCreateChunks(ctx context.Context, chunks []models.Chunk) error
	GetChunksBySource(ctx context.Context, source string) ([]models.Chunk, error)
	DeleteChunksBySource(ctx context.Context, source string) error

	// Stats
	CountSourceFiles(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
