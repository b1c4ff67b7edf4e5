package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yourorg/hotdesk/internal/security/auth"
)

type ClaimsContextKey struct{}

// RequireAuth wraps a handler so it only runs for requests carrying a valid
// bearer token. The resolved claims are placed on the request context.
// Missing, malformed, invalid and expired tokens all get the same 401.
func RequireAuth(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				unauthorized(w)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("token rejected", slog.String("error", err.Error()))
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, `{"error":"invalid or missing token"}`, http.StatusUnauthorized)
}

// GetClaimsFromContext returns the claims attached by RequireAuth, or nil.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}
