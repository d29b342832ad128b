// internal/store/store.go
//
// Persistence gateway for the score ledger.
//
// Implementations:
//   - FileStore:   scores.json, the format the score viewer reads.
//   - SQLiteStore: the same ledger in SQLite tables.
//   - MemoryStore: process-local, for tests and throwaway sessions.
//
// Contract shared by every implementation:
//   - Load never fails. A missing, unreadable or corrupt store yields an
//     empty ledger and a logged warning.
//   - Save reports failures wrapped in ErrWrite and never leaves a
//     partially written store behind.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalobadob/roulette/internal/ledger"
)

// Store loads and saves the durable ledger.
type Store interface {
	// Load returns the persisted ledger, or an empty one if there is none
	// or it cannot be read.
	Load(ctx context.Context) *ledger.Ledger

	// Save persists l, replacing the previous contents.
	Save(ctx context.Context, l *ledger.Ledger) error
}

// ErrWrite wraps every save failure.
var ErrWrite = errors.New("store: write failed")

// Drivers accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the store for driver: path is the JSON file, dsn the SQLite
// database. The caller closes SQLite stores (they implement io.Closer).
func Open(driver, path, dsn string) (Store, error) {
	switch driver {
	case DriverJSON, "":
		return NewFileStore(path), nil
	case DriverSQLite:
		return OpenSQLite(dsn)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
