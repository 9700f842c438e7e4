package transportcore

import (
	"context"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// requestIDContextKey is the context key for the request ID.
	requestIDContextKey contextKey = "request_id"
)

// RequestIDFromContext extracts the request ID from the request context.
// Returns an empty string and false if no request ID is present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

// ContextWithRequestID adds a request ID to the request context.
// This is used by the request ID middleware so handlers and loggers can
// correlate log lines with a single HTTP request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, id)
}
