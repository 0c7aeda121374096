// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a logger writing JSON records, or human-readable text when
// development is set.
func New(w io.Writer, level slog.Level, development bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if development {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Setup installs a logger as the slog default and returns it.
func Setup(w io.Writer, level slog.Level, development bool) *slog.Logger {
	l := New(w, level, development)
	slog.SetDefault(l)
	return l
}
