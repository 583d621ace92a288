package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config is the process configuration loaded from TOML.
type Config struct {
	// DataDir holds the subscription database, its lock file, and logs.
	DataDir string `toml:"data_dir"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	Fetch Fetch `toml:"fetch"`
}

// Fetch holds the HTTP fetch policy shared by every analyzer.
type Fetch struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	DelaySeconds   int    `toml:"delay_seconds"`
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "bindery", "config.toml"), nil
}

// Load reads configuration from path, falling back to the default location
// and then to built-in defaults when no file exists. It returns the config,
// the path that was consulted, and whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	explicit := resolved != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", false, err
		}
		resolved = defaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return nil, resolved, false, fmt.Errorf("config file %s not found", resolved)
		}
	default:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, false, err
	}
	return &cfg, resolved, err == nil, nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the data directory if needed.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", c.DataDir, err)
	}
	return nil
}

// DatabasePath is the location of the subscription database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "bindery.db")
}

// LockPath is the location of the process lock file guarding the database.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "bindery.lock")
}

// LogPath is the location of the persistent log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "bindery.log")
}
