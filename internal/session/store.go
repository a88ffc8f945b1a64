// Package session persists chat histories as per-session JSONL files.
package session

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hyperjump/kotae/internal/models"
)

// ErrInvalidSessionID is returned for session IDs that are not UUIDs.
// IDs become file names, so anything else is rejected before touching disk.
var ErrInvalidSessionID = errors.New("invalid session id")

// Store keeps one append-only JSONL file per chat session. Appends to the
// same session are serialized; different sessions do not block each other.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a session store rooted at dir. The directory is created
// on first write, not here.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// NewSession returns a fresh session ID.
func (s *Store) NewSession() string {
	return uuid.New().String()
}

func (s *Store) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) sessionPath(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return filepath.Join(s.dir, id+".jsonl"), nil
}

// Append adds one entry to the session's history. The entry's CreatedAt is
// set here when zero.
func (s *Store) Append(sessionID string, entry models.ChatEntry) error {
	path, err := s.sessionPath(sessionID)
	if err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// History returns all entries for the session in append order. An unknown
// session yields an empty history, not an error.
func (s *Store) History(sessionID string) ([]models.ChatEntry, error) {
	path, err := s.sessionPath(sessionID)
	if err != nil {
		return nil, err
	}
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ChatEntry{}, nil
		}
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	var entries []models.ChatEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry models.ChatEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("decode session entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if entries == nil {
		entries = []models.ChatEntry{}
	}
	return entries, nil
}

// LastN returns the most recent n entries in chronological order.
func (s *Store) LastN(sessionID string, n int) ([]models.ChatEntry, error) {
	entries, err := s.History(sessionID)
	if err != nil {
		return nil, err
	}
	if n <= 0 || len(entries) <= n {
		return entries, nil
	}
	return entries[len(entries)-n:], nil
}
