package middleware

import (
	"context"
	"net/http"

	"athlete-network/logger"
	"athlete-network/util"
)

// UserIDKey is the key used to store the UserID in the request context.
type UserIDKeyType string

const UserIDKey UserIDKeyType = "userID"

// AuthMiddleware checks for a valid session. If valid, it proceeds to the next handler.
// Otherwise, it returns an unauthorized error.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := util.GetUserIDFromRequest(r)
		if err != nil {
			logger.Error.Printf("Error getting UserID from request in middleware: %v", err)
			http.Error(w, "Server error processing authentication", http.StatusInternalServerError)
			return
		}

		if userID == "" {
			logger.Warn.Printf("AuthMiddleware: Unauthorized access attempt from %s to %s", r.RemoteAddr, r.URL.Path)
			http.Error(w, "Unauthorized: You must be logged in.", http.StatusUnauthorized)
			return
		}

		ctx := WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
