package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/models"
)

// CreateCommentHandler appends a comment to a post.
func CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID := r.PathValue("postID")

	var req models.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	feed := models.NewFeedService(database.DB)
	comment, err := feed.AddComment(userID, postID, req.Text)
	if err != nil {
		writeServiceError(w, err, "commenting on post "+postID, userID)
		return
	}

	runAsync(func() {
		BroadcastToAll("new_comment", comment)
		if ownerID, err := feed.AuthorID(postID); err == nil {
			NotificationHelper.CreatePostCommentNotification(userID, ownerID, postID)
		}
	})
	writeJSON(w, http.StatusCreated, comment)
}

// DeleteCommentHandler removes a comment; allowed for its author and the post author.
func DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID, commentID := r.PathValue("postID"), r.PathValue("commentID")

	if err := models.NewFeedService(database.DB).RemoveComment(userID, postID, commentID); err != nil {
		writeServiceError(w, err, "deleting comment "+commentID, userID)
		return
	}
	runAsync(func() {
		BroadcastToAll("comment_deleted", map[string]string{"postId": postID, "commentId": commentID})
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}
