// Package middleware provides HTTP middleware for admin session handling.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionKey is the context key for the authenticated Session.
const sessionKey ContextKey = "session"

// Session is the authenticated admin bound to one request. It is derived from
// the bearer token on every request; nothing about it is stored server-side.
type Session struct {
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionClaims is implemented by validated token claims.
type SessionClaims interface {
	Session() Session
}

// TokenValidator validates bearer tokens. It lets the middleware work with any
// token service without an import cycle.
type TokenValidator interface {
	ValidateToken(tokenString string) (SessionClaims, error)
}

// RequireSession rejects requests without a valid bearer token and stores the
// resulting Session in the request context.
func RequireSession(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			session := claims.Session()
			if session.Username == "" || session.Expired(time.Now()) {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// BearerToken extracts the token from a case-insensitive "Bearer" Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFrom returns the Session stored by RequireSession.
func SessionFrom(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="framecraft"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}
