// Package logging builds the charmbracelet/log loggers used by the CLI and
// the interactive view.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todoctl/internal/config"
)

// Prefix is prepended to every log line.
const Prefix = "todoctl"

// Options holds configuration for a logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
}

// DefaultOptions returns the options for a logger under cfg.
func DefaultOptions(cfg *config.Config) Options {
	opts := Options{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
	}
	if cfg != nil && cfg.Debug {
		opts.Level = log.DebugLevel
	}
	return opts
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, Options{Level: log.FatalLevel, Formatter: log.TextFormatter})
}

// ForCLI returns the logger for one-shot commands. Commands report failures
// through exit codes and "error:" lines, so the log is only shown with --debug.
func ForCLI(errOut io.Writer, cfg *config.Config) *log.Logger {
	if cfg == nil || !cfg.Debug {
		return Discard()
	}
	return New(errOut, DefaultOptions(cfg))
}

// OpenFile opens the interactive view's log file under cfg.Dir and returns a
// logger writing to it. The caller must close the returned file.
func OpenFile(cfg *config.Config) (*log.Logger, *os.File, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, nil, fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts := DefaultOptions(cfg)
	opts.ReportTimestamp = true
	return New(f, opts), f, nil
}
