// Package persist is the entry point for database snapshot storage. It
// re-exports the core abstractions and constructs the infra-backed drivers,
// so no other package imports internal/infra/persistence directly.
package persist

import (
	"context"
	"fmt"

	"barohead/internal/infra/persistence/memory"
	"barohead/internal/infra/persistence/postgres"
	"barohead/internal/infra/persistence/sqlite"
	"barohead/internal/persist/core"
)

type (
	// Driver identifies a persistence backend.
	Driver = core.Driver
	// Store saves and restores a complete database.
	Store = core.Store
)

const (
	// DriverMemory keeps the snapshot in process memory.
	DriverMemory = core.DriverMemory
	// DriverSQLite stores the snapshot in a local SQLite file.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres stores the snapshot in PostgreSQL.
	DriverPostgres = core.DriverPostgres
)

// ErrNoSnapshot is returned by Load before the first Save.
var ErrNoSnapshot = core.ErrNoSnapshot

// Options selects and configures a driver for Open.
type Options struct {
	Driver Driver
	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string
	// PostgresDSN is the connection string for the postgres driver.
	PostgresDSN string
}

// Open constructs the Store described by opts. An empty driver means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverMemory
	}
	switch driver {
	case DriverMemory:
		return memory.NewStore(), nil
	case DriverSQLite:
		s, err := sqlite.NewStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := postgres.NewStore(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", driver)
	}
}
