package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/kotae/internal/models"
)

// loadPlain returns content as a single text unit, validating it is valid
// UTF-8. Invalid sequences are replaced with the replacement character.
func loadPlain(content []byte, source string) ([]models.TextUnit, error) {
	text := string(content)
	if !utf8.Valid(content) {
		text = strings.ToValidUTF8(text, "�")
	}
	return []models.TextUnit{{Source: source, Text: text}}, nil
}
