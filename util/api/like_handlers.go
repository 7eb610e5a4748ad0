package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/models"
)

// reactionHandler builds the toggle endpoint for one reaction kind.
func reactionHandler(reaction string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}
		postID := r.PathValue("postID")

		feed := models.NewFeedService(database.DB)
		resp, err := feed.ToggleReaction(userID, postID, reaction)
		if err != nil {
			writeServiceError(w, err, "toggling "+reaction+" on post "+postID, userID)
			return
		}

		runAsync(func() {
			BroadcastToAll("post_reaction_updated", resp)
			if !resp.Active {
				return
			}
			ownerID, err := feed.AuthorID(postID)
			if err != nil {
				return
			}
			NotificationHelper.CreateReactionNotification(userID, ownerID, postID, reaction)
		})
		writeJSON(w, http.StatusOK, resp)
	}
}

// ToggleLikePostHandler likes or unlikes a post.
var ToggleLikePostHandler = reactionHandler(models.ReactionLike)

// ToggleCongratulatePostHandler adds or withdraws a congratulation.
var ToggleCongratulatePostHandler = reactionHandler(models.ReactionCongratulate)
