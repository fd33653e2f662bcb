package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mroshb/daymate/internal/security"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
)

type ctxKey string

const userIDKey ctxKey = "uid"

// WithUserID returns a context carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user's id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the
// token's user id in the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" {
				writeError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "no token")
				return
			}

			claims, err := security.ValidateJWT(raw, secret)
			if err != nil {
				logger.Debug("rejected token", "error", err)
				writeError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "bad token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "error": message})
}
