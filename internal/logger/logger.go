// Package logger wraps log/slog with a context-aware, leveled API shared
// across every bounded-context module.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// Level is a logging threshold, re-exported from slog so callers never
// need to import log/slog directly.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// LoggerInterface is the contract modules depend on, so tests can supply a
// fake without pulling in slog.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, kv ...interface{})
	Info(ctx context.Context, msg string, kv ...interface{})
	Warn(ctx context.Context, msg string, kv ...interface{})
	Error(ctx context.Context, msg string, kv ...interface{})
	With(kv ...interface{}) *Logger
}

// Logger is a structured, leveled, context-aware logger backed by
// log/slog's JSON handler.
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger writing JSON-encoded records to w at or above
// level. name is attached to every record as the "service" field; attrs
// are attached as-is (pass nil for none).
func New(w io.Writer, level Level, name string, attrs []slog.Attr) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	base := slog.New(handler)
	if name != "" {
		base = base.With("service", name)
	}
	if len(attrs) > 0 {
		args := make([]interface{}, 0, len(attrs))
		for _, a := range attrs {
			args = append(args, a)
		}
		base = base.With(args...)
	}
	return &Logger{slog: base}
}

// NewNop returns a Logger that discards everything written to it, useful
// for tests and for TUI mode where stdout/stderr is owned by the UI.
func NewNop() *Logger {
	return New(io.Discard, LevelError, "", nil)
}

func (l *Logger) Debug(ctx context.Context, msg string, kv ...interface{}) {
	l.slog.DebugContext(ctx, msg, kv...)
}

func (l *Logger) Info(ctx context.Context, msg string, kv ...interface{}) {
	l.slog.InfoContext(ctx, msg, kv...)
}

func (l *Logger) Warn(ctx context.Context, msg string, kv ...interface{}) {
	l.slog.WarnContext(ctx, msg, kv...)
}

func (l *Logger) Error(ctx context.Context, msg string, kv ...interface{}) {
	l.slog.ErrorContext(ctx, msg, kv...)
}

// With returns a child Logger that always includes the given key/value
// pairs, e.g. a per-query logger carrying a trace id.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{slog: l.slog.With(kv...)}
}
