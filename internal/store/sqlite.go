package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	busyTimeout = 5 * time.Second
	journalMode = "WAL"
	synchronous = "NORMAL"
)

// SQLiteStore persists the session snapshot in a single-row SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the session database at path
// and applies pending schema migrations. Use ":memory:" for an in-memory
// database in tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=%s&_synchronous=%s",
		path,
		busyTimeout.Milliseconds(),
		journalMode,
		synchronous,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps an in-memory database coherent; every new
	// connection to ":memory:" would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations applies pending migrations on the open connection, so the
// in-memory database used by tests is migrated too.
func runMigrations(db *sql.DB) error {
	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("access migrations directory: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsDir, ".")
	if err != nil {
		return fmt.Errorf("create source driver: %w", err)
	}

	dbDriver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	// Not closing m: its Close would also close the shared *sql.DB.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Load reads the persisted snapshot. A missing row or a version mismatch
// yields a fresh default snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version, score, streak, total_guesses,
		       last_card_id, last_card_name, last_guess,
		       last_correct, last_submitted, updated_at
		FROM session WHERE id = 1`)

	var snap Snapshot
	var lastCorrect, lastSubmitted int
	err := row.Scan(
		&snap.Version, &snap.Score, &snap.Streak, &snap.TotalGuesses,
		&snap.LastCardID, &snap.LastCardName, &snap.LastGuess,
		&lastCorrect, &lastSubmitted, &snap.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if snap.Version != SnapshotVersion {
		return NewSnapshot(), nil
	}

	snap.LastCorrect = lastCorrect != 0
	snap.LastSubmitted = lastSubmitted != 0
	return &snap, nil
}

// Save writes the snapshot, replacing any previous one.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (
			id, version, score, streak, total_guesses,
			last_card_id, last_card_name, last_guess,
			last_correct, last_submitted, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			score = excluded.score,
			streak = excluded.streak,
			total_guesses = excluded.total_guesses,
			last_card_id = excluded.last_card_id,
			last_card_name = excluded.last_card_name,
			last_guess = excluded.last_guess,
			last_correct = excluded.last_correct,
			last_submitted = excluded.last_submitted,
			updated_at = excluded.updated_at`,
		snap.Version, snap.Score, snap.Streak, snap.TotalGuesses,
		snap.LastCardID, snap.LastCardName, snap.LastGuess,
		boolToInt(snap.LastCorrect), boolToInt(snap.LastSubmitted), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the persisted snapshot.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
