package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ShanmukPranay/Health-Chatbot/internal/auth"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
	"github.com/ShanmukPranay/Health-Chatbot/internal/repository"
)

type contextKeyType string

const userKey contextKeyType = "user"

// Auth validates a Bearer session token, loads the account it names and
// stores it in the request context. Missing or bad tokens, vanished
// accounts and deactivated accounts all fail 401: a dead session is a
// dead session regardless of why.
func Auth(tokens *auth.TokenManager, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, "invalid authorization header format")
				return
			}

			claims, err := tokens.Verify(parts[1], "")
			if err != nil {
				writeAuthError(w, "invalid or expired token")
				return
			}

			user, err := users.GetByEmail(r.Context(), claims.Email)
			if err != nil {
				if apperrors.IsNotFound(err) {
					writeAuthError(w, "invalid or expired token")
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code": "INTERNAL_ERROR", "message": "an internal error occurred",
				})
				return
			}

			if !user.IsActive {
				writeAuthError(w, "account is deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a Bearer session token into the request context
// when one is present, valid and names an active account. Anything else
// passes through anonymously, so routes behind it serve both
// authenticated and anonymous callers.
func OptionalAuth(tokens *auth.TokenManager, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(parts[1], "")
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByEmail(r.Context(), claims.Email)
			if err != nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects callers whose account does not hold the admin
// role. Mount after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != domain.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"code": "UNAUTHORIZED", "message": "admin access required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated account, or nil outside an
// Auth-guarded route.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

// ContextWithUser stores an account in the context. Exposed for handler
// tests.
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
