// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/ndavydov/gotodo/internal/models"
)

// AuthHeader is the request header carrying the bearer token.
const AuthHeader = "x-auth"

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

// TokenResolver resolves a bearer token to the authenticated user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, tokenString string) (*models.User, error)
}

// Auth is a middleware that enforces token authentication.
//
// It reads the token from the x-auth header and resolves it through the
// provided resolver. A missing, malformed, or revoked token is rejected with
// 401 without distinguishing the cases. On success the resolved user and the
// presented token are stored in the request context for downstream handlers.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get(AuthHeader)
			if tokenString == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request context.
// Returns nil if the request was not authenticated.
func GetUserFromContext(ctx context.Context) *models.User {
	if u, ok := ctx.Value(userKey).(*models.User); ok {
		return u
	}
	return nil
}

// GetTokenFromContext extracts the presented bearer token from the request
// context. Returns an empty string if not found.
func GetTokenFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(tokenKey).(string); ok {
		return s
	}
	return ""
}
