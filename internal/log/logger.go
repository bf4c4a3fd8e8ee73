// Package log builds the structured loggers used across webuidesk.
//
// There is no package-level logger: New returns a *slog.Logger that callers
// hand to each component at construction. Components derive child loggers
// with WithComponent so every line carries a component field.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options controls the root logger.
type Options struct {
	// Level is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	// Invalid or empty values fall back to INFO.
	Level string

	// Format is "json" or "text". Defaults to text, which suits a
	// foreground desktop process; json is for when the shell runs under a
	// service manager.
	Format string

	// File, when non-empty, duplicates all output into the named file in
	// addition to Writer. The directory is created if missing.
	File string

	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer
}

// New builds the root logger. The returned closer is non-nil when a log file
// was opened and must be closed on shutdown; it is safe to ignore otherwise.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var closer io.Closer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(w, f)
		closer = f
	}

	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	return slog.New(handler), closer, nil
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a child logger with the component field set.
func WithComponent(l *slog.Logger, name string) *slog.Logger {
	return l.With(slog.String("component", name))
}

// Discard returns a logger that drops everything. Handy default for
// components constructed without an explicit logger, and for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
