package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Ali34f/VideoTranscriber/internal/auth"
	"github.com/Ali34f/VideoTranscriber/internal/model"
)

// SessionResolver resolves a session token to its session.
// Returns (nil, nil) for unknown or expired tokens.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*model.Session, error)
}

// SessionAuthConfig holds configuration for the session auth middleware.
type SessionAuthConfig struct {
	Logger     *slog.Logger
	Sessions   SessionResolver
	CookieName string
}

// SessionAuth returns a middleware that gates routes behind an active
// session. It reads the session cookie, resolves it against the session
// store, and injects the Session into the request context. Every failure
// mode gets the same 401 body so nothing about accounts leaks.
func SessionAuth(cfg SessionAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionTokenFromRequest(r, cfg.CookieName)
			if token == "" {
				cfg.Logger.Warn("unauthenticated request",
					slog.String("reason", "missing_session_cookie"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			sess, err := cfg.Sessions.GetSession(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("session store error",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}
			if sess == nil {
				cfg.Logger.Warn("unauthenticated request",
					slog.String("reason", "invalid_session"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionTokenFromRequest extracts the session token from the request
// cookie. Returns "" when no cookie is present.
func SessionTokenFromRequest(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// writeAuthError writes a uniform 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"please log in"}`))
}
