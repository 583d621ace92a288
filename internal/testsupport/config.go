// Package testsupport builds throwaway configs and stores for tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"bindery/internal/config"
)

// NewConfig produces a config rooted in a unique temp directory per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.LogLevel = "error"
	cfg.Fetch.DelaySeconds = 0
	cfg.Fetch.MaxRetries = 1
	return &cfg
}
