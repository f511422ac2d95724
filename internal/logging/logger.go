package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	File       string // log destination; empty discards output
}

// DefaultConfig returns sensible defaults. Logs are discarded until a file is
// configured because the terminal belongs to the UI.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.WarnLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a zerolog logger with the given configuration. The returned
// closer releases the log file and must be called when done.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	var out io.Writer = io.Discard
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
			NoColor:    true,
		}
	}

	logger := zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

// ParseLevel maps a level name to a zerolog level. Unknown names return
// fallback.
func ParseLevel(name string, fallback zerolog.Level) zerolog.Level {
	if name == "" {
		return fallback
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return fallback
	}
	return lvl
}

// ApplyEnv overrides cfg from environment variables.
// COMBOBOX_LOG_LEVEL: trace, debug, info, warn, error
// COMBOBOX_LOG_FORMAT: json, console
// COMBOBOX_LOG_FILE: destination path
func ApplyEnv(cfg Config) Config {
	cfg.Level = ParseLevel(os.Getenv("COMBOBOX_LOG_LEVEL"), cfg.Level)
	switch format := os.Getenv("COMBOBOX_LOG_FORMAT"); format {
	case "json", "console":
		cfg.Format = format
	}
	if file := os.Getenv("COMBOBOX_LOG_FILE"); file != "" {
		cfg.File = file
	}
	return cfg
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
