package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New builds a logger writing to w (stderr when nil). format is "text" or
// "json". Without debug only warnings and errors are emitted, so progress
// lines on stdout stay readable.
func New(format string, debug bool, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if debug {
		opts.Level = slog.LevelDebug
	}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

// Init builds a logger with New and installs it as the slog default.
func Init(format string, debug bool) (*slog.Logger, error) {
	l, err := New(format, debug, nil)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return l, nil
}
