package log

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger on stderr. Verbose enables debug records, which
// trace every change to the job table; otherwise only warnings and errors are
// shown so they do not interleave with the session.
func New(verbose bool) *slog.Logger {
	return NewWithWriter(os.Stderr, verbose)
}

func NewWithWriter(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}))
}
