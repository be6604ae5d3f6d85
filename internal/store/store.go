// Package store persists quiz session state across restarts. The engine
// talks to it through a narrow load/save/clear contract; the SQLite
// implementation is the default, with an in-memory implementation serving
// as the degraded mode when the database is unavailable.
package store

import (
	"context"
	"time"
)

// SnapshotVersion is the current snapshot schema version. A persisted
// snapshot with a different version is discarded entirely in favor of
// defaults; there is no partial migration of session data.
const SnapshotVersion = 1

// Snapshot captures the session totals and the last resolved round.
type Snapshot struct {
	Version int

	// Session totals
	Score        int
	Streak       int
	TotalGuesses int

	// Last resolved round
	LastCardID    string
	LastCardName  string
	LastGuess     string
	LastCorrect   bool
	LastSubmitted bool

	UpdatedAt time.Time
}

// NewSnapshot returns an empty snapshot at the current version.
func NewSnapshot() *Snapshot {
	return &Snapshot{Version: SnapshotVersion}
}

// Store is the session persistence contract. Implementations must return
// a default snapshot (not an error) when nothing has been saved yet.
type Store interface {
	// Load reads the persisted snapshot. A version mismatch yields a
	// fresh default snapshot.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the snapshot, replacing any previous one.
	Save(ctx context.Context, snap *Snapshot) error

	// Clear removes the persisted snapshot.
	Clear(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
