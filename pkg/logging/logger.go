// Package logging provides structured logging for imagesync using zerolog.
// It emits human-readable console output when attached to a terminal and
// structured JSON otherwise, so per-item pipeline log lines stay greppable
// in operator shells and machine-parseable in CI.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the global logger instance. It starts as a plain
	// JSON stderr logger; the app layer replaces it via SetDefault once
	// configuration is loaded.
	defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // Also update zerolog's global logger
}

// New creates a new logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// isatty checks if stderr is a terminal.
func isatty() bool {
	if fileInfo, _ := os.Stderr.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		return true
	}
	return false
}
