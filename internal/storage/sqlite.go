// Package storage provides the SQLite implementation of the Manifest interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kotae/internal/models"
)

// SQLiteManifest implements Manifest using SQLite.
type SQLiteManifest struct {
	db *sql.DB
}

// NewSQLiteManifest opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteManifest(dbPath string) (*SQLiteManifest, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteManifest{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS source_files (
		path TEXT PRIMARY KEY,
		ext TEXT NOT NULL,
		hash TEXT NOT NULL,
		chunk_count INTEGER NOT NULL DEFAULT 0,
		ingested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_source_files_ingested_at ON source_files(ingested_at);

	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		locator TEXT NOT NULL DEFAULT '',
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
	CREATE INDEX IF NOT EXISTS idx_chunks_source_index ON chunks(source, locator, chunk_index);
	`
	_, err := db.Exec(schema)
	return err
}

// UpsertSourceFile inserts or replaces the manifest entry for file.Path.
func (s *SQLiteManifest) UpsertSourceFile(ctx context.Context, file *models.SourceFile) error {
	file.IngestedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO source_files (path, ext, hash, chunk_count, ingested_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   ext = excluded.ext,
		   hash = excluded.hash,
		   chunk_count = excluded.chunk_count,
		   ingested_at = excluded.ingested_at`,
		file.Path, file.Ext, file.Hash, file.ChunkCount, file.IngestedAt,
	)
	return err
}

// GetSourceFile returns the manifest entry for path.
func (s *SQLiteManifest) GetSourceFile(ctx context.Context, path string) (*models.SourceFile, error) {
	var file models.SourceFile
	err := s.db.QueryRowContext(ctx,
		`SELECT path, ext, hash, chunk_count, ingested_at
		 FROM source_files WHERE path = ?`, path,
	).Scan(&file.Path, &file.Ext, &file.Hash, &file.ChunkCount, &file.IngestedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("source file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListSourceFiles returns manifest entries ordered by path with offset and limit.
func (s *SQLiteManifest) ListSourceFiles(ctx context.Context, offset, limit int) ([]*models.SourceFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, ext, hash, chunk_count, ingested_at
		 FROM source_files ORDER BY path LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.SourceFile
	for rows.Next() {
		var file models.SourceFile
		if err := rows.Scan(&file.Path, &file.Ext, &file.Hash, &file.ChunkCount, &file.IngestedAt); err != nil {
			return nil, err
		}
		files = append(files, &file)
	}
	return files, rows.Err()
}

// DeleteSourceFile removes the manifest entry for path.
func (s *SQLiteManifest) DeleteSourceFile(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM source_files WHERE path = ?`, path)
	return err
}

// BatchCreateChunks inserts chunks in a transaction, replacing by ID so
// re-ingestion of an unchanged file stays idempotent.
func (s *SQLiteManifest) BatchCreateChunks(ctx context.Context, chunks []models.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks (id, source, locator, chunk_index, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i := range chunks {
		chunks[i].CreatedAt = now
		ch := &chunks[i]
		if _, err := stmt.ExecContext(ctx, ch.ID, ch.Source, ch.Locator, ch.Index, ch.Text, ch.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetChunksBySource returns all chunks for a source path ordered by locator and index.
func (s *SQLiteManifest) GetChunksBySource(ctx context.Context, source string) ([]models.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, locator, chunk_index, content, created_at
		 FROM chunks WHERE source = ? ORDER BY locator, chunk_index`,
		source,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var ch models.Chunk
		if err := rows.Scan(&ch.ID, &ch.Source, &ch.Locator, &ch.Index, &ch.Text, &ch.CreatedAt); err != nil {
			return nil, err
		}
		chunks = append(chunks, ch)
	}
	return chunks, rows.Err()
}

// DeleteChunksBySource removes all chunks for a source path.
func (s *SQLiteManifest) DeleteChunksBySource(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE source = ?`, source)
	return err
}

// CountSourceFiles returns the number of ingested source files.
func (s *SQLiteManifest) CountSourceFiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM source_files`).Scan(&count)
	return count, err
}

// CountChunks returns the total number of chunks.
func (s *SQLiteManifest) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteManifest) Close() error {
	return s.db.Close()
}
