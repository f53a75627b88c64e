package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tasknest/tasknest/core"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// Middleware authenticates requests via Bearer tokens.
type Middleware struct {
	secret []byte
}

// NewMiddleware creates an authentication middleware around a signing secret.
func NewMiddleware(secret []byte) Middleware {
	return Middleware{secret: secret}
}

// Wrap authenticates the request and stores the caller's user ID in the
// request context. Requests without a valid token get 401 and never reach
// the handler.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		userID, err := ParseToken(m.secret, tokenString)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (core.ID, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return 0, false
	}
	uid, ok := v.(core.ID)
	return uid, ok
}
