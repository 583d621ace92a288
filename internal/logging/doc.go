// Package logging builds the slog loggers used across bindery.
//
// Two handler formats are supported: a human-oriented console handler with
// aligned header fields and ANSI level tinting when stdout is a terminal,
// and a plain JSON handler for log files and scripting. Component loggers
// are derived with logger.With("component", ...); the console handler pulls
// that attribute, plus work and volume identifiers, into the line header.
package logging
