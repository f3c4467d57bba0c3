package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"folio/internal/types"
)

// Document is a stored portfolio. The portfolio fields marshal flat
// alongside the creation timestamp; the id is the map key, not part
// of the document body.
type Document struct {
	types.Portfolio
	CreatedAt time.Time `json:"created_at"`
}

// DocStore keeps uploaded portfolios keyed by id. Documents live in
// memory and, when a path is configured, are mirrored to a single JSON
// file after every write so restarts keep the collection.
type DocStore struct {
	mu   sync.RWMutex
	docs map[string]Document
	path string
	now  func() time.Time
}

// NewDocStore opens a store backed by the given file path. An empty
// path keeps the store memory-only. A missing file is an empty store;
// an unreadable or corrupt file is an error so uploads don't silently
// shadow existing data.
func NewDocStore(path string) (*DocStore, error) {
	s := &DocStore{
		docs: make(map[string]Document),
		path: path,
		now:  time.Now,
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read portfolio store: %w", err)
	}
	if err := json.Unmarshal(data, &s.docs); err != nil {
		return nil, fmt.Errorf("parse portfolio store: %w", err)
	}
	return s, nil
}

// Put stores the portfolio and returns its assigned id, formed from
// the portfolio name and a second-resolution timestamp.
func (s *DocStore) Put(p types.Portfolio) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := fmt.Sprintf("%s_%s", p.Name, now.Format("20060102150405"))
	s.docs[id] = Document{Portfolio: p, CreatedAt: now}

	if err := s.flushLocked(); err != nil {
		delete(s.docs, id)
		return "", err
	}
	return id, nil
}

// Get returns the stored document.
func (s *DocStore) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// IDs lists all stored ids in lexical order.
func (s *DocStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of stored documents.
func (s *DocStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *DocStore) flushLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode portfolio store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write portfolio store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace portfolio store: %w", err)
	}
	return nil
}
