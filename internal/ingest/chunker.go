// Package ingest provides document chunking and the ingestion pipeline.
package ingest

import (
	"strings"

	"github.com/hyperjump/kotae/internal/fileid"
	"github.com/hyperjump/kotae/internal/models"
)

// Chunker splits text units into overlapping character-based chunks.
// It prefers breaking on paragraph and sentence boundaries within the size
// budget and falls back to hard cuts, so semantic units survive where
// possible while worst-case chunk size stays bounded.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in runes).
// Requires chunkSize > 0 and 0 <= chunkOverlap < chunkSize.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// sentenceEnders are runes that close a sentence when followed by whitespace.
var sentenceEnders = map[rune]bool{'.': true, '!': true, '?': true}

// Chunk splits a text unit into chunks. Boundaries are deterministic for a
// given input and configuration, and chunk IDs are derived from the unit's
// source, locator, and chunk position, so re-chunking an unchanged file
// yields identical IDs. Every rune of the input appears in at least one
// chunk and no chunk exceeds the configured size.
func (c *Chunker) Chunk(unit models.TextUnit) []models.Chunk {
	runes := []rune(unit.Text)
	if len(strings.TrimSpace(unit.Text)) == 0 {
		return nil
	}
	var chunks []models.Chunk
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.breakPoint(runes, start, end)
		}
		chunks = append(chunks, models.Chunk{
			ID:      fileid.ChunkID(unit.Source, unit.Locator, len(chunks)),
			Source:  unit.Source,
			Locator: unit.Locator,
			Index:   len(chunks),
			Text:    string(runes[start:end]),
		})
		if end >= len(runes) {
			break
		}
		next := end - c.chunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// breakPoint returns the cut position in (start, limit] for a chunk starting
// at start. It prefers the latest paragraph break, then the latest sentence
// break, within the second half of the budget; with no boundary in tolerance
// it hard-cuts at limit.
func (c *Chunker) breakPoint(runes []rune, start, limit int) int {
	minBreak := start + c.chunkSize/2
	if best := lastParagraphBreak(runes, minBreak, limit); best > 0 {
		return best
	}
	if best := lastSentenceBreak(runes, minBreak, limit); best > 0 {
		return best
	}
	return limit
}

// lastParagraphBreak returns the position just after the latest "\n\n" whose
// end falls in (min, limit], or 0 when there is none.
func lastParagraphBreak(runes []rune, min, limit int) int {
	for i := limit; i > min; i-- {
		if i >= 2 && runes[i-1] == '\n' && runes[i-2] == '\n' {
			return i
		}
	}
	return 0
}

// lastSentenceBreak returns the position just after the latest sentence
// terminator followed by whitespace in (min, limit], or 0 when there is none.
func lastSentenceBreak(runes []rune, min, limit int) int {
	for i := limit; i > min; i-- {
		if i >= 2 && sentenceEnders[runes[i-2]] && isSpace(runes[i-1]) {
			return i
		}
	}
	return 0
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
