package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"athlete-network/database"
	"athlete-network/logger"
	"athlete-network/models"
	"athlete-network/util/push"
)

const pushTimeout = 10 * time.Second

var pushNotifier push.Notifier = push.NoopNotifier{}

// SetPushNotifier installs the notifier used for users without a live WebSocket.
func SetPushNotifier(n push.Notifier) {
	if n == nil {
		n = push.NoopNotifier{}
	}
	pushNotifier = n
}

// GetNotificationsHandler retrieves notifications for the authenticated user
func GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	notifications, err := models.NewNotificationService(database.DB).GetNotifications(userID, limit)
	if err != nil {
		writeServiceError(w, err, "fetching notifications", userID)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// GetUnreadCountHandler returns the count of unread notifications
func GetUnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	count, err := models.NewNotificationService(database.DB).GetUnreadCount(userID)
	if err != nil {
		writeServiceError(w, err, "fetching unread count", userID)
		return
	}
	writeJSON(w, http.StatusOK, models.NotificationCount{UnreadCount: count})
}

// MarkNotificationAsReadHandler marks a specific notification as read
func MarkNotificationAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	notificationID, err := strconv.ParseInt(r.PathValue("notificationID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := models.NewNotificationService(database.DB).MarkAsRead(notificationID, userID); err != nil {
		writeServiceError(w, err, "marking notification as read", userID)
		return
	}

	runAsync(func() { BroadcastUnreadCountToUser(userID) })
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// MarkAllNotificationsAsReadHandler marks all notifications as read for the user
func MarkAllNotificationsAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := models.NewNotificationService(database.DB).MarkAllAsRead(userID); err != nil {
		writeServiceError(w, err, "marking all notifications as read", userID)
		return
	}

	runAsync(func() { BroadcastUnreadCountToUser(userID) })
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// RegisterDeviceHandler stores an FCM registration token for the caller.
func RegisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req models.DeviceTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := models.NewNotificationService(database.DB).RegisterDevice(userID, req.Token); err != nil {
		writeServiceError(w, err, "registering device", userID)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func RemoveDeviceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := models.NewNotificationService(database.DB).RemoveDevice(userID, r.PathValue("token")); err != nil {
		writeServiceError(w, err, "removing device", userID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotificationHelpers contains utility functions for creating notifications
type NotificationHelpers struct{}

var NotificationHelper = &NotificationHelpers{}

// notify stores a notification and delivers it: live over the WebSocket,
// otherwise as a push to the recipient's registered devices.
func (nh *NotificationHelpers) notify(req models.CreateNotificationRequest) {
	n, err := models.NewNotificationService(database.DB).CreateNotification(req)
	if err != nil {
		logger.Error.Printf("Error creating %s notification for user %s: %v", req.Type, req.UserID, err)
		return
	}
	if IsUserOnline(req.UserID) {
		BroadcastNotificationToUser(req.UserID, n)
		return
	}
	sendPush(req.UserID, n)
}

// actorName resolves a display name; a missing user aborts the notification.
func actorName(userID string) (string, bool) {
	name, err := models.NewUserService(database.DB).Name(userID)
	if err != nil {
		logger.Error.Printf("Error getting name for notification (ID: %s): %v", userID, err)
		return "", false
	}
	return name, true
}

// CreateChaseNotification tells targetUserID that chaserID started chasing them.
func (nh *NotificationHelpers) CreateChaseNotification(chaserID, targetUserID string) {
	name, ok := actorName(chaserID)
	if !ok {
		return
	}
	nh.notify(models.CreateNotificationRequest{
		UserID:    targetUserID,
		Type:      models.NotificationChase,
		Title:     "New Chaser",
		Message:   name + " started chasing you",
		RelatedID: stringPtr(chaserID),
		ActorID:   stringPtr(chaserID),
	})
}

func (nh *NotificationHelpers) CreateChaseRequestNotification(fromID, targetUserID string) {
	name, ok := actorName(fromID)
	if !ok {
		return
	}
	nh.notify(models.CreateNotificationRequest{
		UserID:    targetUserID,
		Type:      models.NotificationChaseRequest,
		Title:     "New Chase Request",
		Message:   name + " wants to chase you",
		RelatedID: stringPtr(fromID),
		ActorID:   stringPtr(fromID),
	})
}

// CreateChaseAcceptedNotification tells requesterID their request was accepted.
func (nh *NotificationHelpers) CreateChaseAcceptedNotification(requesterID, accepterID string) {
	name, ok := actorName(accepterID)
	if !ok {
		return
	}
	nh.notify(models.CreateNotificationRequest{
		UserID:    requesterID,
		Type:      models.NotificationChaseAccepted,
		Title:     "Chase Request Accepted",
		Message:   name + " accepted your chase request",
		RelatedID: stringPtr(accepterID),
		ActorID:   stringPtr(accepterID),
	})
}

// CreateReactionNotification covers likes and congratulations. Self reactions are silent.
func (nh *NotificationHelpers) CreateReactionNotification(actorID, postOwnerID, postID, reaction string) {
	if actorID == postOwnerID {
		return
	}
	name, ok := actorName(actorID)
	if !ok {
		return
	}
	req := models.CreateNotificationRequest{
		UserID:    postOwnerID,
		Type:      models.NotificationPostLike,
		Title:     "New Like",
		Message:   name + " liked your post",
		RelatedID: stringPtr(postID),
		ActorID:   stringPtr(actorID),
	}
	if reaction == models.ReactionCongratulate {
		req.Type = models.NotificationCongratulate
		req.Title = "Congratulations"
		req.Message = name + " congratulated you on your post"
	}
	nh.notify(req)
}

func (nh *NotificationHelpers) CreatePostCommentNotification(commenterID, postOwnerID, postID string) {
	if commenterID == postOwnerID {
		return
	}
	name, ok := actorName(commenterID)
	if !ok {
		return
	}
	nh.notify(models.CreateNotificationRequest{
		UserID:    postOwnerID,
		Type:      models.NotificationPostComment,
		Title:     "New Comment",
		Message:   name + " commented on your post",
		RelatedID: stringPtr(postID),
		ActorID:   stringPtr(commenterID),
	})
}

// CreateMessageNotification records a new direct message for the recipient.
func (nh *NotificationHelpers) CreateMessageNotification(senderID, recipientID string, msg *models.Message) {
	name, ok := actorName(senderID)
	if !ok {
		return
	}
	nh.notify(models.CreateNotificationRequest{
		UserID:    recipientID,
		Type:      models.NotificationNewMessage,
		Title:     "New Message",
		Message:   name + ": " + msg.Content,
		RelatedID: stringPtr(msg.ConversationID),
		ActorID:   stringPtr(senderID),
	})
}

// CreateJobApplicationNotification tells the poster of a job about a new applicant.
func (nh *NotificationHelpers) CreateJobApplicationNotification(applicantID, posterID string, job *models.Job) {
	if posterID == "" || posterID == applicantID {
		return
	}
	name, ok := actorName(applicantID)
	if !ok {
		return
	}
	nh.notify(models.CreateNotificationRequest{
		UserID:    posterID,
		Type:      models.NotificationJobApplication,
		Title:     "New Application",
		Message:   name + " applied for " + job.Title,
		RelatedID: stringPtr(job.ID),
		ActorID:   stringPtr(applicantID),
	})
}

func stringPtr(s string) *string {
	return &s
}

// BroadcastNotificationToUser sends a real-time notification via WebSocket.
// The notification's own type travels in the payload.
func BroadcastNotificationToUser(userID string, notification *models.Notification) {
	BroadcastToUser(userID, "notification", notification)
	BroadcastUnreadCountToUser(userID)
}

// BroadcastUnreadCountToUser sends updated unread notification count via WebSocket
func BroadcastUnreadCountToUser(userID string) {
	count, err := models.NewNotificationService(database.DB).GetUnreadCount(userID)
	if err != nil {
		logger.Error.Printf("Error getting unread count for user %s: %v", userID, err)
		return
	}
	BroadcastToUser(userID, "notification_count_update", models.NotificationCount{UnreadCount: count})
}

// sendPush delivers n to every device the user registered and prunes rejected tokens.
func sendPush(userID string, n *models.Notification) {
	service := models.NewNotificationService(database.DB)
	tokens, err := service.DeviceTokens(userID)
	if err != nil {
		logger.Error.Printf("Error loading device tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{"type": n.Type, "notificationId": strconv.FormatInt(n.ID, 10)}
	if n.RelatedID != nil {
		data["relatedId"] = *n.RelatedID
	}

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	invalid, err := pushNotifier.Send(ctx, tokens, push.Message{Title: n.Title, Body: n.Message, Data: data})
	if err != nil {
		logger.Error.Printf("Error sending push to user %s: %v", userID, err)
	}
	if len(invalid) > 0 {
		if err := service.PruneTokens(invalid); err != nil {
			logger.Error.Printf("Error pruning device tokens for user %s: %v", userID, err)
		}
	}
}
