package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bindery/internal/config"
)

func TestLoadMissingDefaultFallsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, _, fromFile, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fromFile {
		t.Fatal("expected no file to be read")
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Fetch.MaxRetries == 0 {
		t.Fatal("expected fetch defaults to be applied")
	}
}

func TestLoadExplicitMissingFileErrors(t *testing.T) {
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.toml")
	body := "data_dir = \"~/bindery-data\"\nlog_level = \"DEBUG\"\n\n[fetch]\nmax_retries = 7\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, fromFile, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !fromFile || resolved != path {
		t.Fatalf("expected config read from %s", path)
	}
	if cfg.DataDir != filepath.Join(home, "bindery-data") {
		t.Fatalf("data_dir not expanded: %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level not normalized: %q", cfg.LogLevel)
	}
	if cfg.Fetch.MaxRetries != 7 {
		t.Fatalf("fetch.max_retries = %d", cfg.Fetch.MaxRetries)
	}
	if !strings.HasSuffix(cfg.DatabasePath(), "bindery.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
