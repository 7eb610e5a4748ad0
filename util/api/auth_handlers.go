package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/logger"
	"athlete-network/models"
	"athlete-network/util"
)

func startSession(w http.ResponseWriter, user *models.User, status int) {
	token, err := util.CreateSession(user.ID)
	if err != nil {
		logger.Error.Printf("Error creating session for user %s: %v", user.ID, err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	util.SetSessionCookie(w, token)
	writeJSON(w, status, models.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email})
}

// SignUpHandler handles user registration and signs the new user in.
func SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := models.NewUserService(database.DB).Create(req)
	if err != nil {
		writeServiceError(w, err, "registering account", req.Email)
		return
	}
	logger.Info.Printf("User %s registered", user.ID)
	startSession(w, user, http.StatusCreated)
}

// SignInHandler handles user login.
func SignInHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := models.NewUserService(database.DB).Authenticate(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "signing in", req.Email)
		return
	}
	startSession(w, user, http.StatusOK)
}

// SignOutHandler ends the current session.
func SignOutHandler(w http.ResponseWriter, r *http.Request) {
	if token, err := util.SessionTokenFromRequest(r); err == nil && token != "" {
		util.DeleteSession(token)
	}
	util.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// SessionHandler reports the signed-in user, or 401 when there is none.
func SessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	user, err := models.NewUserService(database.DB).Get(userID)
	if err != nil {
		writeServiceError(w, err, "loading session", userID)
		return
	}
	writeJSON(w, http.StatusOK, models.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email})
}
