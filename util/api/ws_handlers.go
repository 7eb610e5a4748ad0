package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"athlete-network/database"
	"athlete-network/logger"
	"athlete-network/models"
	"athlete-network/util"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP routes
	},
}

// wsClient serialises writes to one connection; gorilla allows a single writer.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Store active WebSocket connections per user
var (
	activeConnections = make(map[string]*wsClient)
	connectionsMutex  sync.RWMutex
)

type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type directMessageFrame struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// decodeFrameData re-decodes the loosely typed Data field into dst.
func decodeFrameData(data any, dst any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := util.GetUserIDFromRequest(r)
	if err != nil || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &wsClient{conn: conn}

	connectionsMutex.Lock()
	if old, ok := activeConnections[userID]; ok {
		old.conn.Close()
	}
	activeConnections[userID] = client
	connectionsMutex.Unlock()

	logger.Info.Printf("User %s connected via WebSocket", userID)
	BroadcastUserStatusChange(userID, true)

	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
		connectionsMutex.Lock()
		// A newer connection for the same user may already have replaced this one.
		replaced := activeConnections[userID] != client
		if !replaced {
			delete(activeConnections, userID)
		}
		connectionsMutex.Unlock()
		if replaced {
			logger.Info.Printf("User %s WebSocket replaced by a newer connection", userID)
			return
		}
		logger.Info.Printf("User %s disconnected from WebSocket", userID)
		BroadcastUserStatusChange(userID, false)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go keepAlive(client, done)

	client.writeJSON(WSMessage{Type: "connected", Data: map[string]string{"status": "connected"}})
	BroadcastUnreadCountToUser(userID)

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn.Printf("WebSocket read error for user %s: %v", userID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Type {
		case "direct_message":
			handleDirectMessageFrame(client, userID, msg.Data)

		case "typing_indicator":
			var req models.TypingIndicator
			if err := decodeFrameData(msg.Data, &req); err != nil || req.ReceiverID == "" {
				continue
			}
			BroadcastToUser(req.ReceiverID, "typing_indicator", map[string]any{
				"senderId": userID,
				"isTyping": req.IsTyping,
			})

		case "heartbeat":
			client.writeJSON(WSMessage{Type: "heartbeat_ack", Data: "ok"})

		case "ping":
			client.writeJSON(WSMessage{Type: "pong", Data: "pong"})

		case "request_online_status":
			sendOnlineStatusToUser(userID, client)

		default:
			logger.Warn.Printf("Unknown message type from user %s: %s", userID, msg.Type)
		}
	}
}

func keepAlive(c *wsClient, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// handleDirectMessageFrame stores a message sent over the socket and fans it out
// exactly like POST /conversations/{userID}/messages.
func handleDirectMessageFrame(c *wsClient, userID string, data any) {
	var req directMessageFrame
	if err := decodeFrameData(data, &req); err != nil {
		logger.Warn.Printf("Error decoding direct message from user %s: %v", userID, err)
		c.writeJSON(WSMessage{Type: "error", Data: "Invalid message"})
		return
	}
	msg, err := models.NewMessageService(database.DB).Send(userID, req.ReceiverID, req.Content)
	if err != nil {
		logger.Warn.Printf("Error saving direct message for user %s: %v", userID, err)
		c.writeJSON(WSMessage{Type: "error", Data: "Failed to send message"})
		return
	}
	deliverMessage(userID, req.ReceiverID, msg)
	c.writeJSON(WSMessage{Type: "direct_message_sent", Data: msg})
}

// deliverMessage pushes a stored message to the recipient and records the notification.
func deliverMessage(senderID, recipientID string, msg *models.Message) {
	BroadcastToUser(recipientID, "new_message", msg)
	runAsync(func() {
		NotificationHelper.CreateMessageNotification(senderID, recipientID, msg)
	})
}

// BroadcastToUser sends one event to a user's live connection, if any.
func BroadcastToUser(receiverID string, msgType string, data any) {
	connectionsMutex.RLock()
	client, exists := activeConnections[receiverID]
	connectionsMutex.RUnlock()
	if !exists {
		return
	}

	if err := client.writeJSON(WSMessage{Type: msgType, Data: data}); err != nil {
		logger.Warn.Printf("Error broadcasting to user %s: %v", receiverID, err)
		connectionsMutex.Lock()
		if activeConnections[receiverID] == client {
			delete(activeConnections, receiverID)
		}
		connectionsMutex.Unlock()
		client.conn.Close()
	}
}

// BroadcastToAll sends one event to every connected user.
func BroadcastToAll(msgType string, data any) {
	connectionsMutex.RLock()
	ids := make([]string, 0, len(activeConnections))
	for id := range activeConnections {
		ids = append(ids, id)
	}
	connectionsMutex.RUnlock()

	for _, id := range ids {
		BroadcastToUser(id, msgType, data)
	}
}

// GetOnlineUsersCount returns the number of connected users.
func GetOnlineUsersCount() int {
	connectionsMutex.RLock()
	defer connectionsMutex.RUnlock()
	return len(activeConnections)
}

// IsUserOnline reports whether the user has a live WebSocket.
func IsUserOnline(userID string) bool {
	connectionsMutex.RLock()
	defer connectionsMutex.RUnlock()
	_, exists := activeConnections[userID]
	return exists
}

// relatedUsers returns the ids of everyone chasing or chased by userID.
func relatedUsers(userID string) []string {
	chase := models.NewChaseService(database.DB)
	seen := make(map[string]bool)
	var ids []string
	for _, list := range []func(string) ([]models.UserSummary, error){chase.Followers, chase.Following} {
		users, err := list(userID)
		if err != nil {
			logger.Error.Printf("Error fetching chase graph for user %s: %v", userID, err)
			continue
		}
		for _, u := range users {
			if !seen[u.ID] {
				seen[u.ID] = true
				ids = append(ids, u.ID)
			}
		}
	}
	return ids
}

// BroadcastUserStatusChange tells connected followers and following that userID went on or offline.
func BroadcastUserStatusChange(userID string, isOnline bool) {
	statusMessage := "user_online"
	if !isOnline {
		statusMessage = "user_offline"
	}

	targets := relatedUsers(userID)
	for _, targetUserID := range targets {
		BroadcastToUser(targetUserID, statusMessage, map[string]any{"userId": userID})
	}
	logger.Info.Printf("Broadcasted %s status for user %s to %d related users", statusMessage, userID, len(targets))
}

func sendOnlineStatusToUser(userID string, c *wsClient) {
	for _, id := range relatedUsers(userID) {
		if !IsUserOnline(id) {
			continue
		}
		if err := c.writeJSON(WSMessage{Type: "user_online", Data: map[string]any{"userId": id}}); err != nil {
			logger.Warn.Printf("Error sending online status to user %s: %v", userID, err)
			return
		}
	}
}
