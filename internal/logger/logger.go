// Package logger builds the process slog.Logger and carries request-scoped
// loggers through context.Context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type contextKey string

const (
	keyLogger    contextKey = "logger"
	keyRequestID contextKey = "request_id"
)

// New creates a logger writing to stdout.
func New(level, format string) (*slog.Logger, error) {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a logger with a JSON handler, or a text handler when
// format is "text".
func NewWithWriter(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "pretty":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.Errorf("unknown log format: %s", format)
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}

// WithContext stores a request-scoped logger and its request id.
func WithContext(ctx context.Context, requestID string, l *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, keyRequestID, requestID)
	return context.WithValue(ctx, keyLogger, l)
}

// FromContext returns the request-scoped logger, or fallback if none is set.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(keyLogger).(*slog.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// RequestID returns the request id stored by WithContext, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}
