package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/services"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "amal_session"

type sessionCtxKey struct{}

// Resolver turns a token into a session.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*services.Session, error)
}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s *services.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFrom returns the session put there by RequireSession, or nil.
func SessionFrom(ctx context.Context) *services.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*services.Session)
	return s
}

// Token reads the session token from "Authorization: Bearer <token>" or,
// failing that, the session cookie.
func Token(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession rejects requests without a valid session with 401.
func RequireSession(sessions Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := sessions.Resolve(r.Context(), Token(r))
			if err != nil {
				if errors.Is(err, services.ErrNotAuthenticated) {
					deny(w, http.StatusUnauthorized, "Authentication required")
					return
				}
				logger.Error("session lookup failed", "err", err)
				deny(w, http.StatusInternalServerError, "Operation failed")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFrom(r.Context())
		if s == nil {
			deny(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !s.Profile.IsAdmin {
			deny(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
