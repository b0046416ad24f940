// Package logging provides the process logger and request-scoped loggers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// New builds a slog logger writing to w (stderr when nil).
func New(level slog.Level, format Format, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Init builds a logger from config strings and installs it as the slog default.
func Init(level, format string) *slog.Logger {
	l := New(ParseLevel(level), Format(strings.ToLower(format)), os.Stderr)
	slog.SetDefault(l)
	return l
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger tags every record with the request id and operation name.
type Logger struct {
	base      *slog.Logger
	requestID string
}

// FromContext returns a Logger bound to the request id stored in ctx by
// RequestIDMiddleware, or "unknown" when there is none.
func FromContext(ctx context.Context) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return &Logger{base: slog.Default(), requestID: rid}
}

func (l *Logger) With(base *slog.Logger) *Logger {
	return &Logger{base: base, requestID: l.requestID}
}

func (l *Logger) RequestID() string { return l.requestID }

func (l *Logger) LogError(operation string, err error) {
	l.base.Error(operation, "request_id", l.requestID, "operation", operation, "error", err)
}

func (l *Logger) LogErrorf(operation string, msg string, args ...any) {
	l.base.Error(msg, append([]any{"request_id", l.requestID, "operation", operation}, args...)...)
}

func (l *Logger) LogInfof(operation string, msg string, args ...any) {
	l.base.Info(msg, append([]any{"request_id", l.requestID, "operation", operation}, args...)...)
}

func (l *Logger) LogWarnf(operation string, msg string, args ...any) {
	l.base.Warn(msg, append([]any{"request_id", l.requestID, "operation", operation}, args...)...)
}

func (l *Logger) LogDebugf(operation string, msg string, args ...any) {
	l.base.Debug(msg, append([]any{"request_id", l.requestID, "operation", operation}, args...)...)
}
