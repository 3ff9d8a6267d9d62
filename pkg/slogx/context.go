package slogx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}
type correlationKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithCorrelationID stores the request correlation id and binds it to the
// contextual logger so every downstream log line carries it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, correlationKey{}, id)
	return WithContext(ctx, FromContext(ctx).With("correlation_id", id))
}

// CorrelationID returns the correlation id attached to the request context,
// or the empty string when none was set.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
