// Package memory implements an in-process snapshot store.
package memory

import (
	"bytes"
	"context"
	"sync"

	"barohead/internal/persist/core"
	"barohead/pkg/itemdb"
)

// Store keeps the last saved database as encoded JSON, so later mutations of
// the caller's database never leak into the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot []byte
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Driver returns the persistence driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Save replaces the stored snapshot.
func (s *Store) Save(_ context.Context, db *itemdb.Database) error {
	var buf bytes.Buffer
	if err := itemdb.Encode(&buf, db, false); err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = buf.Bytes()
	s.mu.Unlock()
	return nil
}

// Load decodes a fresh copy of the stored snapshot.
func (s *Store) Load(_ context.Context) (*itemdb.Database, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot == nil {
		return nil, core.ErrNoSnapshot
	}
	return itemdb.Decode(bytes.NewReader(snapshot))
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
