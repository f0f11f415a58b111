package http

import (
	"context"
	"net/http"
	"strconv"
)

type authContextKey string

const userIDKey authContextKey = "user_id"

// userIDHeader carries the authenticated user's id, set by the upstream
// auth proxy. Requests without it are rejected before reaching handlers.
const userIDHeader = "X-User-ID"

func withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid user identity"})
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}
