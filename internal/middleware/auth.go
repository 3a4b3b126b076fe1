package middleware

import (
	"context"
	"net/http"
	"strings"

	"lactalog-backend/internal/models"
	"lactalog-backend/internal/session"
)

type contextKey string

const SessionKey contextKey = "session"

type AuthMiddleware struct {
	sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate validates the dashboard JWT and attaches the live session
// record to the request context. The record carries the upstream gateway,
// so every downstream handler talks to the upstream as the logged-in user.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}

		rec, err := m.sessions.Resolve(parts[1])
		if err != nil {
			http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext extracts the session record from a request context.
func GetSessionFromContext(ctx context.Context) (*session.Record, bool) {
	rec, ok := ctx.Value(SessionKey).(*session.Record)
	return rec, ok
}

// RequireRole ensures the session's role is one of the allowed roles. Must
// run inside Authenticate.
func (m *AuthMiddleware) RequireRole(allowedRoles ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			for _, role := range allowedRoles {
				if rec.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
		})
	}
}

// RequireAdmin ensures the session belongs to an administrator.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin)(next)
}

// RequireNonClient blocks client-role accounts from mutating operations.
func (m *AuthMiddleware) RequireNonClient(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin, models.RoleStaff)(next)
}
