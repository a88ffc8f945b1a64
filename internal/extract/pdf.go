package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/kotae/internal/models"
)

// loadPDF extracts one text unit per page so retrieval provenance points at
// a specific page. Blank pages are skipped.
func loadPDF(content []byte, source string) ([]models.TextUnit, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	units := make([]models.TextUnit, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		units = append(units, models.TextUnit{
			Source:  source,
			Locator: fmt.Sprintf("page %d", i),
			Text:    text,
		})
	}
	return units, nil
}
