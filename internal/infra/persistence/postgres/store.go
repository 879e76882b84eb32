// Package postgres persists database snapshots to PostgreSQL through the pgx
// database/sql driver.
package postgres

import (
	"barohead/internal/persist/core"
	"barohead/pkg/itemdb"
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/barohead?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS texts (
		language TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		items INTEGER NOT NULL
	)`,
}

// Store keeps one snapshot in the items and texts tables. Save replaces it
// inside a single transaction.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using dsn (falls back to
// defaultDSN), verifies connectivity and applies the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute ddl: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Driver returns the persistence driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Save replaces the stored snapshot with db.
func (s *Store) Save(ctx context.Context, db *itemdb.Database) error {
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
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM texts`); err != nil {
		return fmt.Errorf("clear texts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot`); err != nil {
		return fmt.Errorf("clear snapshot marker: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot(id,items) VALUES(1,$1)`, len(items)); err != nil {
		return fmt.Errorf("mark snapshot: %w", err)
	}
	for _, r := range items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items(id,payload) VALUES($1,$2)`, r.Key, r.Payload); err != nil {
			return fmt.Errorf("insert item %s: %w", r.Key, err)
		}
	}
	for _, r := range texts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO texts(language,payload) VALUES($1,$2)`, r.Key, r.Payload); err != nil {
			return fmt.Errorf("insert texts %s: %w", r.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
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
	items, err := s.selectRecords(ctx, `SELECT id, payload FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	texts, err := s.selectRecords(ctx, `SELECT language, payload FROM texts ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("select texts: %w", err)
	}
	return core.Assemble(items, texts)
}

func (s *Store) selectRecords(ctx context.Context, query string) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, query)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
