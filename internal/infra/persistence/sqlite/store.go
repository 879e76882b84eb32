// Package sqlite persists database snapshots to a SQLite file using the pure
// Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"barohead/internal/persist/core"
	"barohead/pkg/itemdb"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// DefaultPath is used when no path is configured.
const DefaultPath = "barohead.db"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS texts (
		language TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		items INTEGER NOT NULL
	)`,
}

// Store keeps one snapshot: each item and each language table is a row of
// JSON. Save swaps the whole snapshot inside a single transaction.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (creating if needed) the SQLite file at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

// Driver returns the persistence driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Save replaces the stored snapshot with db.
func (s *Store) Save(ctx context.Context, db *itemdb.Database) (retErr error) {
	items, texts, err := core.Records(db)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, stmt := range []string{`DELETE FROM items`, `DELETE FROM texts`, `DELETE FROM snapshot`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot(id,items) VALUES(1,?)`, len(items)); err != nil {
		return fmt.Errorf("mark snapshot: %w", err)
	}
	for _, r := range items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items(id,payload) VALUES(?,?)`, r.Key, r.Payload); err != nil {
			return fmt.Errorf("insert item %s: %w", r.Key, err)
		}
	}
	for _, r := range texts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO texts(language,payload) VALUES(?,?)`, r.Key, r.Payload); err != nil {
			return fmt.Errorf("insert texts %s: %w", r.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load reads the stored snapshot.
func (s *Store) Load(ctx context.Context) (*itemdb.Database, error) {
	var marks int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot`).Scan(&marks); err != nil {
		return nil, fmt.Errorf("read snapshot marker: %w", err)
	}
	if marks == 0 {
		return nil, core.ErrNoSnapshot
	}
	items, err := selectRecords(ctx, s.db, `SELECT id, payload FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	texts, err := selectRecords(ctx, s.db, `SELECT language, payload FROM texts ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("select texts: %w", err)
	}
	return core.Assemble(items, texts)
}

func selectRecords(ctx context.Context, db *sql.DB, query string) ([]core.Record, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []core.Record
	for rows.Next() {
		var r core.Record
		if err := rows.Scan(&r.Key, &r.Payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
