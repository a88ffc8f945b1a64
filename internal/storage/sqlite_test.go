package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func newTestManifest(t *testing.T) *SQLiteManifest {
	t.Helper()
	m, err := NewSQLiteManifest(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestSQLiteManifest_UpsertAndGetSourceFile(t *testing.T) {
	m := newTestManifest(t)
	ctx := context.Background()

	file := &models.SourceFile{Path: "/docs/notes.md", Ext: ".md", Hash: "abc123", ChunkCount: 4}
	if err := m.UpsertSourceFile(ctx, file); err != nil {
		t.Fatal(err)
	}

	got, err := m.GetSourceFile(ctx, "/docs/notes.md")
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash != "abc123" || got.ChunkCount != 4 || got.Ext != ".md" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.IngestedAt.IsZero() {
		t.Error("IngestedAt not set")
	}

	// Second upsert replaces, count stays at one.
	file.Hash = "def456"
	file.ChunkCount = 7
	if err := m.UpsertSourceFile(ctx, file); err != nil {
		t.Fatal(err)
	}
	count, err := m.CountSourceFiles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 source file, got %d", count)
	}
	got, err = m.GetSourceFile(ctx, "/docs/notes.md")
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash != "def456" || got.ChunkCount != 7 {
		t.Errorf("upsert did not replace: %+v", got)
	}
}

func TestSQLiteManifest_GetSourceFileNotFound(t *testing.T) {
	m := newTestManifest(t)
	if _, err := m.GetSourceFile(context.Background(), "/missing.txt"); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestSQLiteManifest_ListSourceFiles(t *testing.T) {
	m := newTestManifest(t)
	ctx := context.Background()

	for _, p := range []string{"/docs/c.txt", "/docs/a.txt", "/docs/b.txt"} {
		if err := m.UpsertSourceFile(ctx, &models.SourceFile{Path: p, Ext: ".txt", Hash: "h"}); err != nil {
			t.Fatal(err)
		}
	}

	files, err := m.ListSourceFiles(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	if files[0].Path != "/docs/a.txt" || files[2].Path != "/docs/c.txt" {
		t.Errorf("not ordered by path: %q, %q, %q", files[0].Path, files[1].Path, files[2].Path)
	}

	page, err := m.ListSourceFiles(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].Path != "/docs/b.txt" {
		t.Errorf("pagination failed: %+v", page)
	}
}

func TestSQLiteManifest_ChunkLifecycle(t *testing.T) {
	m := newTestManifest(t)
	ctx := context.Background()

	chunks := []models.Chunk{
		{ID: "c1", Source: "/docs/a.txt", Locator: "", Index: 0, Text: "first"},
		{ID: "c2", Source: "/docs/a.txt", Locator: "", Index: 1, Text: "second"},
		{ID: "c3", Source: "/docs/b.pdf", Locator: "page 1", Index: 0, Text: "third"},
	}
	if err := m.BatchCreateChunks(ctx, chunks); err != nil {
		t.Fatal(err)
	}

	got, err := m.GetChunksBySource(ctx, "/docs/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].Index != 0 || got[1].Index != 1 {
		t.Error("chunks not ordered by index")
	}
	if got[0].Text != "first" {
		t.Errorf("got %q", got[0].Text)
	}

	// Re-inserting the same IDs replaces rather than duplicating.
	if err := m.BatchCreateChunks(ctx, chunks[:2]); err != nil {
		t.Fatal(err)
	}
	total, err := m.CountChunks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("expected 3 chunks after re-insert, got %d", total)
	}

	if err := m.DeleteChunksBySource(ctx, "/docs/a.txt"); err != nil {
		t.Fatal(err)
	}
	total, err = m.CountChunks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected 1 chunk after delete, got %d", total)
	}
}

func TestSQLiteManifest_DeleteSourceFile(t *testing.T) {
	m := newTestManifest(t)
	ctx := context.Background()

	if err := m.UpsertSourceFile(ctx, &models.SourceFile{Path: "/x.txt", Ext: ".txt", Hash: "h"}); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteSourceFile(ctx, "/x.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GetSourceFile(ctx, "/x.txt"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestSQLiteManifest_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "deeper", "manifest.db")
	m, err := NewSQLiteManifest(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 100), 0600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b.bin"), make([]byte, 50), 0600); err != nil {
		t.Fatal(err)
	}

	n, err := DiskUsageBytes(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 150 {
		t.Errorf("expected 150 bytes, got %d", n)
	}

	// Missing paths contribute zero.
	n, err = DiskUsageBytes(dir, filepath.Join(dir, "missing"), "")
	if err != nil {
		t.Fatal(err)
	}
	if n != 150 {
		t.Errorf("expected 150 bytes with missing path skipped, got %d", n)
	}
}
