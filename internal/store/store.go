package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"bindery/internal/config"
	"bindery/internal/textutil"
)

// Store owns the single writer connection to the subscription database.
// All writes go through this type; no other component opens the file.
type Store struct {
	db         *sql.DB
	path       string
	lock       *flock.Flock
	normalizer *textutil.Normalizer
}

// Open connects to the subscription database, takes the process lock, and
// applies migrations plus default-option seeding. The normalizer is the
// comparison function used for every title equality and search; it must be
// supplied on every open since folded keys are computed in application code.
func Open(cfg *config.Config, normalizer *textutil.Normalizer) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire process lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, cfg.LockPath())
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock, normalizer: normalizer}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection and the process lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}

// Normalizer returns the comparison function this store was opened with.
func (s *Store) Normalizer() *textutil.Normalizer {
	return s.normalizer
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02 15:04:05", value)
	return t
}
