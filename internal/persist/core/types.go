// Package core defines the snapshot persistence abstraction for finished
// databases and the row encoding shared by the SQL drivers.
package core

import (
	"context"
	"errors"

	"barohead/pkg/itemdb"
)

// Driver identifies a persistence backend.
type Driver string

const (
	// DriverMemory keeps the snapshot in process memory.
	DriverMemory Driver = "memory"
	// DriverSQLite stores the snapshot in a local SQLite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores the snapshot in PostgreSQL.
	DriverPostgres Driver = "postgres"
)

// Store saves and restores a complete database. Save replaces whatever
// snapshot was stored before.
type Store interface {
	Save(ctx context.Context, db *itemdb.Database) error
	Load(ctx context.Context) (*itemdb.Database, error)
	Close() error
	Driver() Driver
}

// ErrNoSnapshot is returned by Load before the first Save. A saved empty
// database loads as an empty database, not as ErrNoSnapshot.
var ErrNoSnapshot = errors.New("persist: no snapshot stored")
