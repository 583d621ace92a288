// Package config loads process-level configuration from a TOML file.
//
// The config file only covers knobs that must exist before the database is
// open: where the database lives, logging, and the HTTP fetch policy.
// Everything the user changes at runtime (output directories, worker count,
// analyzer state) is stored in the subscription database's options table.
package config
