package auth

import (
	"context"

	"github.com/Ali34f/VideoTranscriber/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionContextKey is the context key for storing the resolved Session.
const sessionContextKey contextKey = "session"

// ContextWithSession adds a resolved Session to the context.
func ContextWithSession(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext retrieves the Session from the context.
// Returns nil if the request is not authenticated.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok {
		return nil
	}
	return sess
}

// MustSessionFromContext retrieves the Session from the context.
// Panics if not present (use only behind the session auth middleware).
func MustSessionFromContext(ctx context.Context) *model.Session {
	sess := SessionFromContext(ctx)
	if sess == nil {
		panic("session not found - ensure session auth middleware is applied")
	}
	return sess
}
