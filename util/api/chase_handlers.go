package api

import (
	"net/http"

	"athlete-network/database"
	"athlete-network/models"
)

// announceChase notifies the target and pushes the live chase event.
func announceChase(actorID, targetID string) {
	BroadcastToUser(targetID, "chase", map[string]string{"fromId": actorID, "targetUserId": targetID})
	runAsync(func() { NotificationHelper.CreateChaseNotification(actorID, targetID) })
}

// ChaseUserHandler starts chasing the target user. Repeating it is a no-op.
func ChaseUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID := r.PathValue("userID")

	created, err := models.NewChaseService(database.DB).Chase(userID, targetID)
	if err != nil {
		writeServiceError(w, err, "chasing "+targetID, userID)
		return
	}
	if created {
		announceChase(userID, targetID)
	}
	writeJSON(w, http.StatusOK, models.ChaseStatus{TargetUserID: targetID, Status: models.StatusChasing})
}

// UnchaseUserHandler removes both sides of the chase edge.
func UnchaseUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID := r.PathValue("userID")

	if err := models.NewChaseService(database.DB).Unchase(userID, targetID); err != nil {
		writeServiceError(w, err, "unchasing "+targetID, userID)
		return
	}
	writeJSON(w, http.StatusOK, models.ChaseStatus{TargetUserID: targetID, Status: models.StatusNotChasing})
}

// ToggleChaseHandler flips the chase relationship, like the profile button does.
func ToggleChaseHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID := r.PathValue("userID")

	chasing, err := models.NewChaseService(database.DB).Toggle(userID, targetID)
	if err != nil {
		writeServiceError(w, err, "toggling chase on "+targetID, userID)
		return
	}
	status := models.StatusNotChasing
	if chasing {
		status = models.StatusChasing
		announceChase(userID, targetID)
	}
	writeJSON(w, http.StatusOK, models.ChaseStatus{TargetUserID: targetID, Status: status})
}

func GetFollowersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	followers, err := models.NewChaseService(database.DB).Followers(r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, err, "fetching followers of "+r.PathValue("userID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, followers)
}

func GetFollowingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	following, err := models.NewChaseService(database.DB).Following(r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, err, "fetching following of "+r.PathValue("userID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, following)
}

// SendChaseRequestHandler leaves a pending request on the target's profile.
func SendChaseRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID := r.PathValue("userID")

	req, err := models.NewChaseService(database.DB).SendRequest(userID, targetID)
	if err != nil {
		writeServiceError(w, err, "sending chase request to "+targetID, userID)
		return
	}

	BroadcastToUser(targetID, "chase_request", req)
	runAsync(func() { NotificationHelper.CreateChaseRequestNotification(userID, targetID) })
	writeJSON(w, http.StatusCreated, map[string]any{"status": "pending", "request": req})
}

// GetPendingChaseRequestsHandler lists requests addressed to the caller, oldest first.
func GetPendingChaseRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	requests, err := models.NewChaseService(database.DB).PendingRequests(userID)
	if err != nil {
		writeServiceError(w, err, "fetching chase requests", userID)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// RespondChaseRequestHandler accepts or rejects the request from {fromID}.
func RespondChaseRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	fromID := r.PathValue("fromID")

	var req models.ChaseRequestAction
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := models.NewChaseService(database.DB).Respond(userID, fromID, req.Action); err != nil {
		writeServiceError(w, err, req.Action+" chase request from "+fromID, userID)
		return
	}

	if req.Action == "accept" {
		BroadcastToUser(fromID, "chase_accepted", map[string]string{"userId": userID})
		runAsync(func() { NotificationHelper.CreateChaseAcceptedNotification(fromID, userID) })
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Action + "ed"})
}
