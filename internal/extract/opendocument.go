package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// odContentPath is the path to the main content inside OpenDocument zips
// (.odp presentations and .ods spreadsheets alike).
const odContentPath = "content.xml"

// OpenDocument text elements (with optional attributes). Separate patterns so
// opening and closing tags match (e.g. <text:p>...</text:p> only).
var (
	odTextP    = regexp.MustCompile(`<text:p[^>]*>([^<]*)</text:p>`)
	odTextSpan = regexp.MustCompile(`<text:span[^>]*>([^<]*)</text:span>`)
	odTextH    = regexp.MustCompile(`<text:h[^>]*>([^<]*)</text:h>`)
)

func readOpenDocumentContent(content []byte, format string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract %s: not a zip: %w", format, err)
	}
	for _, f := range zr.File {
		if f.Name != odContentPath {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return "", fmt.Errorf("extract %s: read %s: %w", format, f.Name, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("extract %s: %s not found", format, odContentPath)
}

func collectOpenDocumentText(contentXML string, patterns ...*regexp.Regexp) string {
	var b strings.Builder
	for _, re := range patterns {
		for _, p := range re.FindAllStringSubmatch(contentXML, -1) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.TrimSpace(p[1]))
		}
	}
	return strings.TrimSpace(b.String())
}

// loadODP extracts a single text unit from .odp bytes (OpenDocument
// Presentation): all text:p, text:span, and text:h elements of content.xml.
func loadODP(content []byte, source string) ([]models.TextUnit, error) {
	contentXML, err := readOpenDocumentContent(content, "ODP")
	if err != nil {
		return nil, err
	}
	text := collectOpenDocumentText(contentXML, odTextP, odTextSpan, odTextH)
	if text == "" {
		return nil, nil
	}
	return []models.TextUnit{{Source: source, Text: text}}, nil
}

// loadODS extracts a single text unit from .ods bytes (OpenDocument
// Spreadsheet): all text:p and text:span elements of content.xml.
func loadODS(content []byte, source string) ([]models.TextUnit, error) {
	contentXML, err := readOpenDocumentContent(content, "ODS")
	if err != nil {
		return nil, err
	}
	text := collectOpenDocumentText(contentXML, odTextP, odTextSpan)
	if text == "" {
		return nil, nil
	}
	return []models.TextUnit{{Source: source, Text: text}}, nil
}
