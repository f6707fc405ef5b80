// Package attr provides slog attribute helpers and correlation ID plumbing
// shared across modules.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey int

const correlationIDKey ctxKey = iota

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIDKey).(string); ok {
		return v
	}
	return ""
}

// ExtractCorrelationID returns a slog attribute for the context's correlation
// ID. Missing IDs log as "unknown" so aggregation queries stay simple.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	id := CorrelationIDFromContext(ctx)
	if id == "" {
		id = "unknown"
	}
	return slog.String("correlation_id", id)
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

// Error returns a standard "error" attribute; nil errors log as empty strings.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
