package middleware

import (
	"context"
	"net/http"

	"github.com/barreview/barreview-backend/internal/models"
	"github.com/barreview/barreview-backend/internal/services"
)

type contextKey string

const userContextKey contextKey = "current_user"

// SessionCookieName carries the opaque session token.
const SessionCookieName = "bar_session"

// UserFinder rehydrates a user from the identifier stored in the session.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CurrentUser resolves the session cookie to a full user record and puts it
// on the request context. Every failure along the way (no cookie, expired
// session, deleted account, store error) degrades to anonymous.
func CurrentUser(sessions services.SessionStore, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if userID, ok, err := sessions.Get(r.Context(), cookie.Value); err == nil && ok {
					if user, err := users.FindByID(r.Context(), userID); err == nil && user != nil {
						r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the logged-in user, or nil when anonymous.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
