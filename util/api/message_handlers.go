package api

import (
	"net/http"
	"time"

	"athlete-network/database"
	"athlete-network/models"
)

// SendMessageHandler appends a message to the conversation with {userID}.
// POST /conversations/{userID}/messages
func SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	recipientID := r.PathValue("userID")

	var req models.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := models.NewMessageService(database.DB).Send(userID, recipientID, req.Content)
	if err != nil {
		writeServiceError(w, err, "sending message to "+recipientID, userID)
		return
	}
	deliverMessage(userID, recipientID, msg)
	writeJSON(w, http.StatusCreated, msg)
}

// GetMessagesHandler returns the conversation with {userID}, oldest first.
func GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	messages, err := models.NewMessageService(database.DB).Messages(userID, r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, err, "fetching messages with "+r.PathValue("userID"), userID)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// GetConversationsHandler lists the caller's conversations by latest activity.
func GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	conversations, err := models.NewMessageService(database.DB).Conversations(userID)
	if err != nil {
		writeServiceError(w, err, "fetching conversations", userID)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

// SendTypingIndicatorHandler relays a typing state for clients without a socket.
// POST /conversations/{userID}/typing
func SendTypingIndicatorHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		IsTyping bool `json:"isTyping"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	BroadcastToUser(r.PathValue("userID"), "typing_indicator", map[string]any{
		"senderId": userID,
		"isTyping": req.IsTyping,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Typing indicator sent"})
}

// GetUserOnlineStatusHandler reports whether {userID} has a live connection.
func GetUserOnlineStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetUserID := r.PathValue("userID")

	exists, err := models.NewUserService(database.DB).Exists(targetUserID)
	if err != nil {
		writeServiceError(w, err, "checking user "+targetUserID, userID)
		return
	}
	if !exists {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":    targetUserID,
		"isOnline":  IsUserOnline(targetUserID),
		"timestamp": time.Now().UTC(),
	})
}
