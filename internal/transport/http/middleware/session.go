package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"moodshare/internal/service"
	"moodshare/internal/session"
)

// SessionCookie is the name of the page-route session cookie.
const SessionCookie = "session_id"

// SessionMiddleware resolves the session cookie on page routes. A valid
// session puts the user id in the request context and refreshes last_seen;
// anonymous or stale sessions just pass through.
func SessionMiddleware(sessions session.Store, users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Lookup(r.Context(), cookie.Value)
			if err != nil {
				// Expired or unknown session: continue anonymously
				next.ServeHTTP(w, r)
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

// RequireLogin gates a page route: anonymous visitors are redirected to the
// login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
