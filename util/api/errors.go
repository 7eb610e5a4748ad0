package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"athlete-network/logger"
	"athlete-network/middleware"
	"athlete-network/models"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// currentUserID returns the authenticated user or answers 401.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in session context.", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Error encoding response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		http.Error(w, "Error reading request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeServiceError maps service errors to a status and a short message.
// Anything unexpected is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, err error, action, userID string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Msg, http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, "Invalid input", http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, models.ErrSelfAction):
		http.Error(w, "You cannot do that to yourself", http.StatusBadRequest)
	case errors.Is(err, models.ErrAlreadyChasing):
		http.Error(w, "You are already chasing this user", http.StatusConflict)
	case errors.Is(err, models.ErrRequestPending):
		http.Error(w, "Chase request already pending", http.StatusConflict)
	case errors.Is(err, models.ErrEmailInUse):
		http.Error(w, "This email is already registered. Please log in or use a different email.", http.StatusConflict)
	case errors.Is(err, models.ErrAlreadyApplied):
		http.Error(w, "You have already applied to this job", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		logger.Error.Printf("Error %s for user %s: %v", action, userID, err)
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
	}
}

// runAsync executes background side effects. A panic is logged, never propagated.
var runAsync = func(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error.Printf("Recovered from panic in background task: %v", r)
			}
		}()
		fn()
	}()
}
