package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/models"
)

// GetMeHandler returns the caller's own profile, phone number included.
func GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	user, err := models.NewUserService(database.DB).Get(userID)
	if err != nil {
		writeServiceError(w, err, "fetching own profile", userID)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserProfileHandler returns another athlete's profile relative to the caller.
func GetUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	user, err := models.NewUserService(database.DB).Profile(userID, r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, err, "fetching profile "+r.PathValue("userID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfileHandler saves the profile wizard.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := models.NewUserService(database.DB).Update(userID, req)
	if err != nil {
		writeServiceError(w, err, "updating profile", userID)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DirectoryHandler lists other athletes, optionally filtered by ?q=.
func DirectoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	users, err := models.NewUserService(database.DB).Directory(userID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err, "listing athletes", userID)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
