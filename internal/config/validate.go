package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must be set")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return errors.New("fetch.timeout_seconds must not be negative")
	}
	if c.Fetch.MaxRetries < 0 {
		return errors.New("fetch.max_retries must not be negative")
	}
	if c.Fetch.DelaySeconds < 0 {
		return errors.New("fetch.delay_seconds must not be negative")
	}
	return nil
}
