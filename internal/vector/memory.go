package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// indexMagic identifies the on-disk index format.
const indexMagic = "KOTAEIDX1"

// MemoryIndex is an in-memory vector record index using brute-force inner
// product search, persisted to a single binary file. The similarity metric
// is fixed at creation (inner product over normalized vectors) and never
// mixed. Suitable for private-corpus scale (tens of thousands of chunks).
type MemoryIndex struct {
	dimensions int
	model      string
	records    []Record
	byID       map[string]int // record ID -> position in records
	mu         sync.RWMutex
}

// NewMemoryIndex creates an index for vectors of the given dimension,
// produced by the named embedding model. The model name is persisted with
// the index so a load under a different model fails instead of silently
// mixing geometries.
func NewMemoryIndex(dimensions int, model string) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{
		dimensions: dimensions,
		model:      model,
		byID:       make(map[string]int),
	}, nil
}

// Upsert inserts or replaces records by ID. Replacing keeps the record's
// original insertion position so search tie-breaking stays stable across
// re-ingestion runs.
func (m *MemoryIndex) Upsert(ctx context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if len(r.Vector) != m.dimensions {
			return fmt.Errorf("%w: record %s has %d, index expects %d", ErrEmbedderMismatch, r.ID, len(r.Vector), m.dimensions)
		}
		rec := r
		rec.Vector = make([]float32, m.dimensions)
		copy(rec.Vector, r.Vector)
		if pos, ok := m.byID[r.ID]; ok {
			m.records[pos] = rec
			continue
		}
		m.byID[r.ID] = len(m.records)
		m.records = append(m.records, rec)
	}
	return nil
}

// Search returns the top-k records by inner product (cosine similarity for
// normalized vectors). Ties are broken by insertion order. Returns
// ErrIndexEmpty when no records exist.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]*Result, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("%w: query has %d, index expects %d", ErrEmbedderMismatch, len(query), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.records) == 0 {
		return nil, ErrIndexEmpty
	}
	if k <= 0 {
		return nil, nil
	}
	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, len(m.records))
	for i := range m.records {
		scores[i] = scored{pos: i, score: InnerProduct(query, m.records[i].Vector)}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].pos < scores[j].pos
	})
	if k > len(scores) {
		k = len(scores)
	}
	results := make([]*Result, k)
	for i := 0; i < k; i++ {
		rec := m.records[scores[i].pos]
		results[i] = &Result{Record: &rec, Score: scores[i].score}
	}
	return results, nil
}

// RemoveSource removes all records whose Source equals source. Used when a
// changed file is re-ingested so stale chunks do not linger.
func (m *MemoryIndex) RemoveSource(ctx context.Context, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	for _, r := range m.records {
		if r.Source != source {
			kept = append(kept, r)
		}
	}
	m.records = kept
	m.byID = make(map[string]int, len(m.records))
	for i, r := range m.records {
		m.byID[r.ID] = i
	}
	return nil
}

// Save persists the index to path, creating parent directories as needed.
// Format: magic, model, dimensions (u32), count (u32), then per record:
// id, source, locator, chunk index (u32), text, vector (dimensions * f32).
func (m *MemoryIndex) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := writeString(f, indexMagic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := writeString(f, m.model); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(m.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(m.records))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for i := range m.records {
		r := &m.records[i]
		for _, s := range []string{r.ID, r.Source, r.Locator} {
			if err := writeString(f, s); err != nil {
				return fmt.Errorf("write record %s: %w", r.ID, err)
			}
		}
		if err := binary.Write(f, binary.LittleEndian, uint32(r.ChunkIndex)); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
		if err := writeString(f, r.Text); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
		if _, err := f.Write(float32SliceToBytes(r.Vector)); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	return nil
}

// Load reads the index from path, replacing the in-memory contents.
// A missing file leaves the index unchanged and returns nil. Any format,
// model, or dimension mismatch returns ErrIndexCorrupt; the caller must
// rebuild from source documents.
func (m *MemoryIndex) Load(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()
	magic, err := readString(f)
	if err != nil || magic != indexMagic {
		return fmt.Errorf("%w: bad header", ErrIndexCorrupt)
	}
	model, err := readString(f)
	if err != nil {
		return fmt.Errorf("%w: bad model field", ErrIndexCorrupt)
	}
	if model != m.model {
		return fmt.Errorf("%w: index built with model %q, active model is %q", ErrIndexCorrupt, model, m.model)
	}
	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("%w: bad dimensions field", ErrIndexCorrupt)
	}
	if int(dim) != m.dimensions {
		return fmt.Errorf("%w: index has dimension %d, embedder produces %d", ErrIndexCorrupt, dim, m.dimensions)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("%w: bad count field", ErrIndexCorrupt)
	}
	records := make([]Record, 0, n)
	byID := make(map[string]int, n)
	vecBuf := make([]byte, m.dimensions*4)
	for i := uint32(0); i < n; i++ {
		var r Record
		fields := []*string{&r.ID, &r.Source, &r.Locator}
		for _, field := range fields {
			s, err := readString(f)
			if err != nil {
				return fmt.Errorf("%w: truncated record %d", ErrIndexCorrupt, i)
			}
			*field = s
		}
		var chunkIndex uint32
		if err := binary.Read(f, binary.LittleEndian, &chunkIndex); err != nil {
			return fmt.Errorf("%w: truncated record %d", ErrIndexCorrupt, i)
		}
		r.ChunkIndex = int(chunkIndex)
		if r.Text, err = readString(f); err != nil {
			return fmt.Errorf("%w: truncated record %d", ErrIndexCorrupt, i)
		}
		if _, err := io.ReadFull(f, vecBuf); err != nil {
			return fmt.Errorf("%w: truncated record %d", ErrIndexCorrupt, i)
		}
		r.Vector = bytesToFloat32Slice(vecBuf)
		byID[r.ID] = len(records)
		records = append(records, r)
	}
	m.mu.Lock()
	m.records = records
	m.byID = byID
	m.mu.Unlock()
	return nil
}

// Size returns the number of records in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Dimensions returns the fixed vector dimension of the index.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// ModelName returns the embedding model the index was created for.
func (m *MemoryIndex) ModelName() string {
	return m.model
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > 1<<26 {
		return "", fmt.Errorf("string length %d out of range", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
