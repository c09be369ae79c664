package slogutil

import (
	"io"
	"log/slog"

	"minimalapi/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromConfig builds the process logger from the logging section.
//
// Records go to console in the configured format. When cfg.File is set
// they are also appended to that file. override, when non-nil, replaces
// the configured level (CLI verbosity flags). The returned closer releases
// the log file and is never nil.
func FromConfig(cfg config.LoggingConfig, console io.Writer, override *slog.Level) (*slog.Logger, io.Closer, error) {
	level := LevelFromString(cfg.Level)
	if override != nil {
		level = *override
	}

	handler := newHandler(cfg.Format, console, level)
	if cfg.File == "" {
		return slog.New(handler), nopCloser{}, nil
	}

	f, err := OpenLogFile(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	tee := NewTeeHandler(handler, newHandler(cfg.Format, f, level))
	return slog.New(tee), f, nil
}

func newHandler(format string, w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return NewLineHandler(w, opts)
}
