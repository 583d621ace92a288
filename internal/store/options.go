package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Option keys. Values are JSON-encoded blobs so a key can hold a string,
// number, bool, list, or map without schema changes.
const (
	OptOutputDir          = "output_dir"
	OptBackupDir          = "backup_dir"
	OptHanMode            = "han_mode"
	OptThreads            = "threads"
	OptArchiveDownloaded  = "archive_downloaded"
	OptLastRefreshTime    = "last_refresh_time"
	OptDisabledAnalyzers  = "disabled_analyzers"
	OptAnalyzerCustomData = "analyzer_custom_data"
)

// KnownOptionKeys lists every seeded option key, sorted for display.
var KnownOptionKeys = []string{
	OptAnalyzerCustomData,
	OptArchiveDownloaded,
	OptBackupDir,
	OptDisabledAnalyzers,
	OptHanMode,
	OptLastRefreshTime,
	OptOutputDir,
	OptThreads,
}

func seedDefaultOptions(ctx context.Context, tx *sql.Tx) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	defaults := map[string]any{
		OptOutputDir:          filepath.Join(home, "comics"),
		OptBackupDir:          filepath.Join(home, "comics-backup"),
		OptHanMode:            "off",
		OptThreads:            4,
		OptArchiveDownloaded:  false,
		OptLastRefreshTime:    "",
		OptDisabledAnalyzers:  []string{},
		OptAnalyzerCustomData: map[string]map[string]string{},
	}
	for key, value := range defaults {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode default option %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO options (option, value) VALUES (?, ?) ON CONFLICT (option) DO NOTHING`,
			key, encoded,
		); err != nil {
			return fmt.Errorf("seed option %s: %w", key, err)
		}
	}
	return nil
}

// GetOption decodes the value stored under key into out. The fallback is
// applied when the key has never been written.
func (s *Store) GetOption(ctx context.Context, key string, out any) error {
	var raw []byte
	row := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE option = ?`, key)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: option %s", ErrNotFound, key)
		}
		return fmt.Errorf("read option %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode option %s: %w", key, err)
	}
	return nil
}

// RawOption returns the JSON text stored under key.
func (s *Store) RawOption(ctx context.Context, key string) (string, error) {
	var raw []byte
	row := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE option = ?`, key)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: option %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("read option %s: %w", key, err)
	}
	return string(raw), nil
}

// SetOption stores value under key. The update-else-insert is keyed off
// the update's affected-row count, not a prior existence probe.
func (s *Store) SetOption(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode option %s: %w", key, err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE options SET value = ? WHERE option = ?`, encoded, key)
	if err != nil {
		return fmt.Errorf("update option %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO options (option, value) VALUES (?, ?)`, key, encoded); err != nil {
			return fmt.Errorf("insert option %s: %w", key, err)
		}
	}
	return nil
}

// OptionString reads a string option, returning fallback when unset.
func (s *Store) OptionString(ctx context.Context, key, fallback string) string {
	var value string
	if err := s.GetOption(ctx, key, &value); err != nil {
		return fallback
	}
	return value
}

// OptionInt reads an integer option, returning fallback when unset.
func (s *Store) OptionInt(ctx context.Context, key string, fallback int) int {
	var value int
	if err := s.GetOption(ctx, key, &value); err != nil {
		return fallback
	}
	return value
}

// OptionBool reads a boolean option, returning fallback when unset.
func (s *Store) OptionBool(ctx context.Context, key string, fallback bool) bool {
	var value bool
	if err := s.GetOption(ctx, key, &value); err != nil {
		return fallback
	}
	return value
}

// DisabledAnalyzers returns the persisted analyzer black-list.
func (s *Store) DisabledAnalyzers(ctx context.Context) ([]string, error) {
	var disabled []string
	if err := s.GetOption(ctx, OptDisabledAnalyzers, &disabled); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return disabled, nil
}

// SetDisabledAnalyzers replaces the persisted analyzer black-list.
func (s *Store) SetDisabledAnalyzers(ctx context.Context, codenames []string) error {
	if codenames == nil {
		codenames = []string{}
	}
	return s.SetOption(ctx, OptDisabledAnalyzers, codenames)
}

// AnalyzerCustomData returns the persisted per-analyzer custom data map.
func (s *Store) AnalyzerCustomData(ctx context.Context) (map[string]map[string]string, error) {
	data := map[string]map[string]string{}
	if err := s.GetOption(ctx, OptAnalyzerCustomData, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]map[string]string{}, nil
		}
		return nil, err
	}
	return data, nil
}

// SetAnalyzerCustomData replaces one analyzer's custom data map.
func (s *Store) SetAnalyzerCustomData(ctx context.Context, codename string, data map[string]string) error {
	all, err := s.AnalyzerCustomData(ctx)
	if err != nil {
		return err
	}
	all[codename] = data
	return s.SetOption(ctx, OptAnalyzerCustomData, all)
}

// TouchLastRefresh records the completion time of a refresh run.
func (s *Store) TouchLastRefresh(ctx context.Context, at time.Time) error {
	return s.SetOption(ctx, OptLastRefreshTime, formatTime(at))
}
