// Package models defines core data structures for source files, chunks, and chat entries.
package models

import "time"

// SourceFile describes an ingested corpus file tracked in the manifest.
// Hash is the sha256 of the file content; a file is re-ingested only when it changes.
type SourceFile struct {
	Path       string    `json:"path" db:"path"`
	Ext        string    `json:"ext" db:"ext"`
	Hash       string    `json:"hash" db:"hash"`
	ChunkCount int       `json:"chunk_count" db:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at" db:"ingested_at"`
}

// TextUnit is one extracted unit of text from a source file. Multi-page and
// multi-sheet documents produce one unit per page/sheet; Locator records
// which one (e.g. "page 3", "sheet Totals") so provenance stays traceable.
type TextUnit struct {
	Source  string `json:"source"`
	Locator string `json:"locator,omitempty"`
	Text    string `json:"text"`
}

// Chunk is a bounded-length text span, the unit of embedding and retrieval.
// ID is deterministic for a given source, locator, and chunk index so
// re-ingestion replaces rather than duplicates.
type Chunk struct {
	ID        string    `json:"id" db:"id"`
	Source    string    `json:"source" db:"source"`
	Locator   string    `json:"locator,omitempty" db:"locator"`
	Index     int       `json:"chunk_index" db:"chunk_index"`
	Text      string    `json:"text" db:"content"`
	Embedding []float32 `json:"-" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ScoredChunk is a retrieval hit: chunk text plus similarity score and provenance.
type ScoredChunk struct {
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
	Locator string  `json:"locator,omitempty"`
}
