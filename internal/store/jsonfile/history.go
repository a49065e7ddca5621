// Package jsonfile stores meeting history in a single JSON document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aliceinwire/meetbot2/internal/core/history"
)

// HistoryFile is the root JSON structure stored on disk.
type HistoryFile struct {
	Entries []history.Entry `json:"entries"`
}

// HistoryStore implements history.Store on top of one JSON file.
type HistoryStore struct {
	path string
	mu   sync.RWMutex
}

var _ history.Store = (*HistoryStore)(nil)

// NewHistoryStore creates a store backed by the file at path. The file is
// created on the first Save.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Path returns the backing file.
func (s *HistoryStore) Path() string { return s.path }

// List returns all entries, newest first.
func (s *HistoryStore) List(ctx context.Context) ([]history.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	return file.Entries, err
}

// Get returns the entry with the given ID. An unambiguous ID prefix is
// accepted as well.
func (s *HistoryStore) Get(ctx context.Context, id string) (history.Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return history.Entry{}, err
	}
	return find(entries, id)
}

func find(entries []history.Entry, id string) (history.Entry, error) {
	found := -1
	for i, entry := range entries {
		switch {
		case entry.ID == id:
			return entry, nil
		case id == "" || !strings.HasPrefix(entry.ID, id):
			continue
		case found >= 0:
			return history.Entry{}, fmt.Errorf("%w: %q is ambiguous", history.ErrNotFound, id)
		}
		found = i
	}

	if found < 0 {
		return history.Entry{}, history.ErrNotFound
	}
	return entries[found], nil
}

// Save prepends entry and prunes the file to maxEntries.
func (s *HistoryStore) Save(ctx context.Context, entry history.Entry, maxEntries int) error {
	return s.update(ctx, func(file *HistoryFile) {
		file.Entries = append([]history.Entry{entry}, file.Entries...)
		if maxEntries > 0 && len(file.Entries) > maxEntries {
			file.Entries = file.Entries[:maxEntries]
		}
	})
}

// Clear removes all entries.
func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.update(ctx, func(file *HistoryFile) {
		file.Entries = []history.Entry{}
	})
}

// update applies fn to the stored document under the write lock.
func (s *HistoryStore) update(ctx context.Context, fn func(*HistoryFile)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}
	fn(&file)
	return s.save(file)
}

// load reads the file. A missing or empty file is an empty history.
func (s *HistoryStore) load() (HistoryFile, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return HistoryFile{}, nil
	case err != nil:
		return HistoryFile{}, err
	case len(data) == 0:
		return HistoryFile{}, nil
	}

	var file HistoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return HistoryFile{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return file, nil
}

// save replaces the file through a rename so readers never see a partial
// document.
func (s *HistoryStore) save(file HistoryFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
