package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/kotae/internal/models"
)

// loadExcel extracts one text unit per sheet. Cells within a row are joined
// by tabs, rows by newlines; empty sheets are skipped.
func loadExcel(content []byte, source string) ([]models.TextUnit, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var units []models.TextUnit
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		var buf strings.Builder
		for _, row := range rows {
			buf.WriteString(strings.Join(row, "\t"))
			buf.WriteByte('\n')
		}
		text := strings.TrimSpace(buf.String())
		if text == "" {
			continue
		}
		units = append(units, models.TextUnit{
			Source:  source,
			Locator: fmt.Sprintf("sheet %s", sheet),
			Text:    text,
		})
	}
	return units, nil
}
