package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys used in logs.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	UserIDKey        = "user_id"
)

// contextKey is unexported so only this package can set these values.
type contextKey int

const (
	correlationIDCtxKey contextKey = iota
	requestIDCtxKey
	userIDCtxKey
)

// withGeneratedID stores id under key, generating a UUID when id is empty.
func withGeneratedID(ctx context.Context, key contextKey, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, key, id)
}

// WithCorrelationID adds a correlation ID to the context.
// If id is empty, a new UUID is generated.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withGeneratedID(ctx, correlationIDCtxKey, id)
}

// CorrelationIDFromContext extracts the correlation ID from context.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, correlationIDCtxKey)
}

// WithRequestID adds a request ID to the context.
// If id is empty, a new UUID is generated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withGeneratedID(ctx, requestIDCtxKey, id)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, requestIDCtxKey)
}

// WithUserID records the authenticated caller for log enrichment only.
// Authorization decisions never read it back from the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the user ID from context.
func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, userIDCtxKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
