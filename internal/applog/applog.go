// Package applog is cortexd's process-wide structured logger: a thin
// wrapper over log/slog backed by a rotating lumberjack writer.
package applog

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a *slog.Logger; NewDiscard builds one that drops all
// output, for tests.
type Logger struct {
	logger *slog.Logger
}

// Options configures where and how verbosely the daemon logs.
type Options struct {
	FilePath   string
	Level      slog.Level
	MaxSizeMB  int
	MaxBackups int
	AlsoStderr bool
}

// New builds a Logger writing JSON lines to a rotating file, optionally
// tee'd to stderr for foreground/debug runs.
func New(opts Options) (*Logger, error) {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 5
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     30,
		Compress:   true,
	}

	var w io.Writer = rotator
	if opts.AlsoStderr {
		w = io.MultiWriter(rotator, os.Stderr)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	return &Logger{logger: slog.New(handler)}, nil
}

// NewDiscard builds a Logger that drops everything, for tests.
func NewDiscard() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// With returns a child logger with structured fields attached to every
// subsequent call.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}
