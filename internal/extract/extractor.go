// Package extract provides text extraction from source document formats.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// ErrUnsupportedFormat is returned for file extensions with no registered
// loader. Callers skip the file and continue; it never aborts an ingestion run.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// LoaderFunc extracts text units from raw file content. source is the file
// path recorded as provenance on each unit.
type LoaderFunc func(content []byte, source string) ([]models.TextUnit, error)

// Extractor dispatches extraction through a format registry keyed on file
// extension. Adding a format means registering a loader, not changing dispatch.
type Extractor struct {
	loaders map[string]LoaderFunc
}

// NewExtractor returns an Extractor with all built-in formats registered:
// plain text (.txt, .md, .rst), PDF (one unit per page), XLSX (one unit per
// sheet), DOCX/ODT/RTF, PPTX (one unit per slide), ODP, and ODS.
func NewExtractor() *Extractor {
	e := &Extractor{loaders: make(map[string]LoaderFunc)}
	e.Register(loadPlain, ".txt", ".md", ".rst")
	e.Register(loadPDF, ".pdf")
	e.Register(loadExcel, ".xlsx")
	e.Register(loadDOCX, ".docx", ".odt", ".rtf")
	e.Register(loadPPTX, ".pptx")
	e.Register(loadODP, ".odp")
	e.Register(loadODS, ".ods")
	return e
}

// Register maps the given extensions (with leading dot) to loader.
func (e *Extractor) Register(loader LoaderFunc, exts ...string) {
	for _, ext := range exts {
		e.loaders[strings.ToLower(ext)] = loader
	}
}

// Supported reports whether a loader is registered for ext.
func (e *Extractor) Supported(ext string) bool {
	_, ok := e.loaders[strings.ToLower(ext)]
	return ok
}

// Extensions returns the registered extensions, sorted.
func (e *Extractor) Extensions() []string {
	exts := make([]string, 0, len(e.loaders))
	for ext := range e.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract reads the file at path and returns its text units. The sequence is
// produced in one pass; callers needing it again re-read the file.
// Returns ErrUnsupportedFormat (wrapped) when no loader matches the extension.
func (e *Extractor) Extract(path string) ([]models.TextUnit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)), path)
}

// ExtractBytes extracts text units from content based on ext (with leading
// dot). source is recorded as provenance on each unit.
func (e *Extractor) ExtractBytes(content []byte, ext, source string) ([]models.TextUnit, error) {
	loader, ok := e.loaders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return loader(content, source)
}
