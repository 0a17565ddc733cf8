package internal

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w, at Debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := new(slog.LevelVar)
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With("prog", program)
}
