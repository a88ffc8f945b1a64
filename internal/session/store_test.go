package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func TestStore_AppendAndHistory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "sessions"))
	id := s.NewSession()

	for i := 0; i < 3; i++ {
		entry := models.ChatEntry{
			Question:     fmt.Sprintf("question %d", i),
			Answer:       fmt.Sprintf("answer %d", i),
			AnswerFormat: models.AnswerFormatMarkdown,
		}
		if err := s.Append(id, entry); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.History(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Question != "question 0" || entries[2].Question != "question 2" {
		t.Error("entries not in append order")
	}
	if entries[0].AnswerFormat != models.AnswerFormatMarkdown {
		t.Errorf("answer format: got %q", entries[0].AnswerFormat)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not set on append")
	}
}

func TestStore_UnknownSessionEmptyHistory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "sessions"))
	entries, err := s.History(s.NewSession())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestStore_InvalidSessionID(t *testing.T) {
	s := NewStore(t.TempDir())
	err := s.Append("../../etc/passwd", models.ChatEntry{Question: "q"})
	if !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("expected ErrInvalidSessionID, got %v", err)
	}
	if _, err := s.History("not-a-uuid"); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("expected ErrInvalidSessionID, got %v", err)
	}
}

func TestStore_LastN(t *testing.T) {
	s := NewStore(t.TempDir())
	id := s.NewSession()
	for i := 0; i < 5; i++ {
		if err := s.Append(id, models.ChatEntry{Question: fmt.Sprintf("q%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	last, err := s.LastN(id, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(last))
	}
	if last[0].Question != "q3" || last[1].Question != "q4" {
		t.Errorf("wrong tail: %q, %q", last[0].Question, last[1].Question)
	}

	all, err := s.LastN(id, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("n larger than history should return all: got %d", len(all))
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore(t.TempDir())
	a, b := s.NewSession(), s.NewSession()
	if err := s.Append(a, models.ChatEntry{Question: "for a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(b, models.ChatEntry{Question: "for b"}); err != nil {
		t.Fatal(err)
	}

	entries, err := s.History(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Question != "for a" {
		t.Errorf("session a history: %+v", entries)
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	s := NewStore(t.TempDir())
	id := s.NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Append(id, models.ChatEntry{Question: fmt.Sprintf("q%d", i)})
		}(i)
	}
	wg.Wait()

	entries, err := s.History(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 20 {
		t.Errorf("expected 20 entries, got %d", len(entries))
	}
}

func TestStore_SourcesRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	id := s.NewSession()
	entry := models.ChatEntry{
		Question: "where",
		Answer:   "there",
		Sources: []models.ScoredChunk{
			{Text: "chunk text", Score: 0.87, Source: "/docs/a.pdf", Locator: "page 3"},
		},
	}
	if err := s.Append(id, entry); err != nil {
		t.Fatal(err)
	}
	entries, err := s.History(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || len(entries[0].Sources) != 1 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	src := entries[0].Sources[0]
	if src.Locator != "page 3" || src.Score != 0.87 {
		t.Errorf("source round trip: %+v", src)
	}
}
