// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessro/chorus/internal/config"
)

// Options adjusts logger construction beyond what the config file holds.
type Options struct {
	// Verbose forces debug level.
	Verbose bool
	// Quiet discards console output; only a configured log file receives entries.
	// Interactive screens set this so log lines do not tear the display.
	Quiet bool
	// Console is where entries go when no file is configured. Defaults to stderr.
	Console io.Writer
}

// New returns a logger configured from cfg and a closer for any opened file.
func New(cfg config.LogConfig, opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)

	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	case opts.Quiet:
		out = io.Discard
	default:
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		out = zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// ParseLevel maps config level names onto zerolog levels.
func ParseLevel(name string) (zerolog.Level, error) {
	switch name {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
