package ingest

import (
	"strings"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func unit(text string) models.TextUnit {
	return models.TextUnit{Source: "/docs/a.txt", Text: text}
}

func TestChunker_Deterministic(t *testing.T) {
	c := NewChunker(50, 10)
	text := strings.Repeat("Some sentence here. Another one follows. ", 20)
	a := c.Chunk(unit(text))
	b := c.Chunk(unit(text))
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			t.Errorf("chunk %d text differs", i)
		}
		if a[i].ID != b[i].ID {
			t.Errorf("chunk %d ID differs: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestChunker_CoverageAndBounds(t *testing.T) {
	configs := []struct{ size, overlap int }{
		{20, 5}, {50, 0}, {10, 9}, {100, 25},
	}
	text := "First paragraph with some text.\n\nSecond paragraph follows here. It has two sentences! And a question? Yes.\n\nThird paragraph closes the document with a fairly long final sentence to split."
	for _, cfg := range configs {
		c := NewChunker(cfg.size, cfg.overlap)
		chunks := c.Chunk(unit(text))
		if len(chunks) == 0 {
			t.Fatalf("size=%d overlap=%d: no chunks", cfg.size, cfg.overlap)
		}
		// No chunk exceeds the size budget.
		for i, ch := range chunks {
			if n := len([]rune(ch.Text)); n > cfg.size {
				t.Errorf("size=%d overlap=%d: chunk %d has %d runes", cfg.size, cfg.overlap, i, n)
			}
			if ch.Index != i {
				t.Errorf("chunk %d Index=%d", i, ch.Index)
			}
		}
		// Every rune of the source appears in at least one chunk: chunks are
		// contiguous overlapping windows, so concatenating with overlap removed
		// must reproduce the source.
		covered := make([]bool, len([]rune(text)))
		pos := 0
		runes := []rune(text)
		for _, ch := range chunks {
			chRunes := []rune(ch.Text)
			start := indexOfWindow(runes, chRunes, pos-cfg.size)
			if start < 0 {
				t.Fatalf("size=%d overlap=%d: chunk text %q not found in source", cfg.size, cfg.overlap, ch.Text)
			}
			for i := start; i < start+len(chRunes); i++ {
				covered[i] = true
			}
			pos = start + len(chRunes)
		}
		for i, ok := range covered {
			if !ok {
				t.Fatalf("size=%d overlap=%d: rune %d (%q) not covered", cfg.size, cfg.overlap, i, string(runes[i]))
			}
		}
	}
}

// indexOfWindow finds sub in runes at or after from (clamped to 0).
func indexOfWindow(runes, sub []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(sub) <= len(runes); i++ {
		match := true
		for j := range sub {
			if runes[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func TestChunker_SkyIsBlueScenario(t *testing.T) {
	c := NewChunker(20, 5)
	chunks := c.Chunk(unit("The sky is blue. Grass is green."))
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if n := len([]rune(ch.Text)); n > 20 {
			t.Errorf("chunk %d has %d runes, budget is 20", i, n)
		}
	}
	// The second chunk overlaps the first by at most 5 characters.
	first, second := chunks[0].Text, chunks[1].Text
	overlap := 0
	for n := 1; n <= len(first) && n <= len(second); n++ {
		if strings.HasSuffix(first, second[:n]) {
			overlap = n
		}
	}
	if overlap == 0 || overlap > 5 {
		t.Errorf("overlap between %q and %q is %d, want 1..5", first, second, overlap)
	}
	// Sentence-boundary preference keeps the first sentence intact.
	if !strings.HasPrefix(first, "The sky is blue.") {
		t.Errorf("first chunk %q should contain the whole first sentence", first)
	}
}

func TestChunker_PrefersParagraphBreaks(t *testing.T) {
	c := NewChunker(40, 0)
	text := "Short first paragraph.\n\nSecond paragraph text that continues on for a while."
	chunks := c.Chunk(unit(text))
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "\n\n") {
		t.Errorf("first chunk %q should end at the paragraph break", chunks[0].Text)
	}
}

func TestChunker_Empty(t *testing.T) {
	c := NewChunker(20, 5)
	if chunks := c.Chunk(unit("   \n\t  ")); chunks != nil {
		t.Errorf("whitespace-only text should return nil, got %v", chunks)
	}
}

func TestChunker_LocatorFlowsIntoIDs(t *testing.T) {
	c := NewChunker(20, 5)
	text := "The sky is blue. Grass is green."
	page1 := c.Chunk(models.TextUnit{Source: "/docs/a.pdf", Locator: "page 1", Text: text})
	page2 := c.Chunk(models.TextUnit{Source: "/docs/a.pdf", Locator: "page 2", Text: text})
	if page1[0].ID == page2[0].ID {
		t.Error("chunks from different pages must have different IDs")
	}
	if page1[0].Locator != "page 1" {
		t.Errorf("locator not preserved: %q", page1[0].Locator)
	}
}
