package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/logger"
	"athlete-network/models"
)

// AvatarUploadHandler stores a profile picture and sets it as the caller's avatar.
// The form field is "avatar".
func AvatarUploadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		http.Error(w, "Error parsing multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "Error retrieving avatar file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext, _, err := checkMedia(header, avatarMedia)
	if err != nil {
		http.Error(w, "Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed for avatars.", http.StatusBadRequest)
		return
	}

	url, err := saveUpload(file, "avatars", "avatar_"+userID, ext)
	if err != nil {
		logger.Error.Printf("Error saving avatar for user %s: %v", userID, err)
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	user, err := models.NewUserService(database.DB).SetAvatar(userID, url)
	if err != nil {
		writeServiceError(w, err, "setting avatar", userID)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
