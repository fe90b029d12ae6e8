package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/travelms/travel-be/internal/http/respond"
	"github.com/travelms/travel-be/internal/models"
	"github.com/travelms/travel-be/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request
// context. The bool is false when no user is attached.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// WithUser attaches a user to the context. Exported for handler tests.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// RequireAuth protects routes behind a bearer token. It validates the
// Authorization header, loads the user the token references, and injects
// it into the request context. Unauthenticated requests get a 401.
func RequireAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "Missing or invalid token")
				return
			}

			userID, err := auth.ValidateToken(token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Missing or invalid token")
				return
			}

			user, err := auth.UserByID(r.Context(), userID)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Missing or invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
