// Package context provides context utilities for tool-call tracking.
package context

import (
	stdctx "context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const (
	// requestIDKey is the context key for request ids.
	requestIDKey contextKey = iota
)

// NewRequestID generates a new unique request id.
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID adds a request id to the context.
func WithRequestID(parent stdctx.Context, requestID string) stdctx.Context {
	return stdctx.WithValue(parent, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id from the context.
func RequestIDFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
