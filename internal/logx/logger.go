// Package logx builds the service logger.
package logx

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON slog logger on stdout at the given level.
func New(level slog.Level) *slog.Logger {
	return NewTo(os.Stdout, level)
}

// NewTo is New with an explicit writer.
func NewTo(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
