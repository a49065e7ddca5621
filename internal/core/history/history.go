// Package history defines the record of finished meetings.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no entry matches a lookup.
var ErrNotFound = errors.New("history entry not found")

// Entry describes a meeting that has ended.
type Entry struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	Network   string    `json:"network"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	BaseName  string    `json:"base_name"`
	Items     int       `json:"items"`
	Lines     int       `json:"lines"`
}

// Duration returns how long the meeting ran.
func (e *Entry) Duration() time.Duration {
	if e.EndedAt.IsZero() || e.StartedAt.IsZero() {
		return 0
	}
	return e.EndedAt.Sub(e.StartedAt)
}

// Store persists history entries.
type Store interface {
	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)
	// Get returns the entry with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (Entry, error)
	// Save records an entry, keeping at most maxEntries (0 keeps all).
	Save(ctx context.Context, entry Entry, maxEntries int) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
}
