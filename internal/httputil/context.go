package httputil

import (
	"context"
	"net/http"
)

// Unexported key type so other packages cannot collide with it
type contextKey string

const (
	userIDKey contextKey = "userID"
)

// WithUserID stamps the authenticated user's ID onto the request. The auth
// middleware calls this once per request; the ID becomes the owner scope for
// every file and project query downstream.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID returns the owner ID stamped by the auth middleware, or "" for
// requests that never passed through it.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
