package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/models"
)

// CreatePostHandler publishes a post and announces it to every connected client.
func CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := models.NewFeedService(database.DB).Create(userID, req)
	if err != nil {
		writeServiceError(w, err, "creating post", userID)
		return
	}

	runAsync(func() { BroadcastToAll("new_post", post) })
	writeJSON(w, http.StatusCreated, post)
}

// GetPostsHandler returns the whole feed, newest first.
func GetPostsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	posts, err := models.NewFeedService(database.DB).List(userID)
	if err != nil {
		writeServiceError(w, err, "fetching posts", userID)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func GetPostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	post, err := models.NewFeedService(database.DB).Get(userID, r.PathValue("postID"))
	if err != nil {
		writeServiceError(w, err, "fetching post "+r.PathValue("postID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePostHandler removes a post. Only its author may do so.
func DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID := r.PathValue("postID")

	if err := models.NewFeedService(database.DB).Delete(userID, postID); err != nil {
		writeServiceError(w, err, "deleting post "+postID, userID)
		return
	}
	runAsync(func() { BroadcastToAll("post_deleted", map[string]string{"postId": postID}) })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
