package session

import "context"

type sessionKey struct{}

// WithID stores the session identifier on the context.
func WithID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey{}, id)
}

// ID extracts the session identifier from context if present.
func ID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(sessionKey{}).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
