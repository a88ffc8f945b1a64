package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// pptxSlidePathPrefix is the path prefix for slide XML files inside a .pptx zip.
const pptxSlidePathPrefix = "ppt/slides/slide"

// atTag matches <a:t>text</a:t> or <a:t xml:space="preserve">text</a:t> (and any other attributes).
var atTag = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

// slideNumRe extracts the slide number from a slide path like ppt/slides/slide12.xml.
var slideNumRe = regexp.MustCompile(`slide(\d+)\.xml$`)

// loadPPTX extracts one text unit per slide from .pptx bytes. PPTX is a ZIP
// containing ppt/slides/slideN.xml (Office Open XML); all <a:t>...</a:t>
// text nodes of a slide become its unit. Units are ordered by slide number.
func loadPPTX(content []byte, source string) ([]models.TextUnit, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("extract PPTX: not a zip: %w", err)
	}
	type slide struct {
		num  int
		text string
	}
	var slides []slide
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, pptxSlidePathPrefix) || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("extract PPTX: read %s: %w", f.Name, err)
		}
		num := 0
		if m := slideNumRe.FindStringSubmatch(f.Name); len(m) > 1 {
			num, _ = strconv.Atoi(m[1])
		}
		var buf strings.Builder
		for _, p := range atTag.FindAllStringSubmatch(string(data), -1) {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(strings.TrimSpace(p[1]))
		}
		text := strings.TrimSpace(buf.String())
		if text == "" {
			continue
		}
		slides = append(slides, slide{num: num, text: text})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })
	units := make([]models.TextUnit, 0, len(slides))
	for _, s := range slides {
		units = append(units, models.TextUnit{
			Source:  source,
			Locator: fmt.Sprintf("slide %d", s.num),
			Text:    s.text,
		})
	}
	return units, nil
}
