// Package fileid provides deterministic identities for source files and chunks.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

const sourcePrefix = "file:"

// SourceID returns a stable identifier for the given absolute path.
// Same path always yields the same ID, so re-ingestion replaces by path.
func SourceID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return sourcePrefix + hex.EncodeToString(hash[:])
}

// ContentHash returns the hex sha256 of the file content. Used to decide
// whether a file changed since it was last ingested.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ChunkID returns a stable chunk identifier derived from the source path,
// the text unit locator, and the chunk's position. Chunking the same file
// with the same configuration always yields the same IDs, which makes
// index upserts idempotent across re-ingestion runs.
func ChunkID(absolutePath, locator string, index int) string {
	key := fmt.Sprintf("%s\x00%s\x00%d", filepath.Clean(absolutePath), locator, index)
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16])
}
