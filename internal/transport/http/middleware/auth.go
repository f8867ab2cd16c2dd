package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"moodshare/internal/httputil"
	"moodshare/internal/model"
	"moodshare/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// AuthMiddleware validates the bearer token on API routes. It verifies
// signature and expiry, resolves the embedded id to a live user, refreshes
// last_seen, and stores the user id in the request context. Missing, expired,
// and malformed tokens each get their own 401 body.
func AuthMiddleware(tokens *service.TokenService, users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				httputil.WriteError(w, http.StatusUnauthorized,
					"Missing token", "Authorization header with Bearer token is required")
				return
			}

			userID, err := tokens.ParseAccessToken(tokenString)
			if err != nil {
				if errors.Is(err, model.ErrTokenExpired) {
					httputil.WriteError(w, http.StatusUnauthorized,
						"Token expired", "Please login again to get a new token")
					return
				}
				httputil.WriteError(w, http.StatusUnauthorized,
					"Invalid token", "The token is invalid")
				return
			}

			// The token can outlive the account; resolve the id to be sure.
			if _, err := users.GetByID(r.Context(), userID); err != nil {
				httputil.WriteUnauthorized(w, "User not found")
				return
			}

			if err := users.TouchLastSeen(r.Context(), userID); err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Msg("failed to refresh last_seen")
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns the user ID and true if found, or 0 and false if not found.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
