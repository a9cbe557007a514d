package middleware

import (
	"context"
	"net/http"
	"strings"

	"locket-backend/internal/services"
)

type contextKey string

const authUserKey contextKey = "auth_user"

// Auth creates a middleware enforcing bearer-token authentication. The
// validated identity is stored in the request context for handlers.
func Auth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondUnauthorized(w, "Invalid authorization header format")
				return
			}

			user, err := authService.ValidateToken(parts[1])
			if err != nil {
				respondUnauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthUser extracts the authenticated identity from context
func GetAuthUser(ctx context.Context) *services.AuthUser {
	user, ok := ctx.Value(authUserKey).(*services.AuthUser)
	if !ok {
		return nil
	}
	return user
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
