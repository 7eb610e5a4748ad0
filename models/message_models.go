package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"athlete-network/util"

	"github.com/google/uuid"
)

// Message is one entry in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// SendMessageRequest is the body of POST /conversations/{userID}/messages.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// Conversation is a two-party channel keyed by ConversationID.
type Conversation struct {
	ID                   string     `json:"id"`
	Participants         []string   `json:"participants"`
	LastMessage          string     `json:"lastMessage"`
	LastMessageTimestamp *time.Time `json:"lastMessageTimestamp,omitempty"`
	OtherUserID          string     `json:"otherUserId"`
	OtherUserName        string     `json:"otherUserName"`
	OtherUserAvatar      string     `json:"otherUserAvatar"`
}

// TypingIndicator is relayed to the other participant over the WebSocket.
type TypingIndicator struct {
	ReceiverID string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

// MessageService handles direct messages.
type MessageService struct {
	DB *sql.DB
}

func NewMessageService(db *sql.DB) *MessageService {
	return &MessageService{DB: db}
}

// Send appends a message to the conversation between senderID and
// recipientID, creating the conversation on first use.
func (s *MessageService) Send(senderID, recipientID, content string) (*Message, error) {
	if senderID == recipientID {
		return nil, ErrSelfAction
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("Message content cannot be empty")
	}
	var exists bool
	if err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", recipientID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check recipient: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	convID := util.ConversationID(senderID, recipientID)
	a, b, _ := util.ConversationParticipants(convID)
	msg := &Message{
		ID:             uuid.NewString(),
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO conversations (id, participant_a, participant_b, last_message, last_message_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_message = excluded.last_message, last_message_at = excluded.last_message_at`,
		convID, a, b, msg.Content, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("upsert conversation %s: %w", convID, err)
	}
	_, err = tx.Exec("INSERT INTO messages (id, conversation_id, sender_id, content, timestamp) VALUES (?, ?, ?, ?, ?)",
		msg.ID, msg.ConversationID, msg.SenderID, msg.Content, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages returns the conversation between userID and otherID, oldest first.
func (s *MessageService) Messages(userID, otherID string) ([]Message, error) {
	if userID == otherID {
		return nil, ErrSelfAction
	}
	rows, err := s.DB.Query(`SELECT id, conversation_id, sender_id, content, timestamp FROM messages
		WHERE conversation_id = ? ORDER BY timestamp, seq`, util.ConversationID(userID, otherID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Conversations lists userID's conversations, most recent activity first.
func (s *MessageService) Conversations(userID string) ([]Conversation, error) {
	rows, err := s.DB.Query(`SELECT c.id, c.participant_a, c.participant_b, c.last_message, c.last_message_at,
		u.id, u.name, u.avatar
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.participant_a = ? THEN c.participant_b ELSE c.participant_a END
		WHERE c.participant_a = ? OR c.participant_b = ?
		ORDER BY c.last_message_at DESC`, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()
	out := []Conversation{}
	for rows.Next() {
		var c Conversation
		var a, b string
		var last sql.NullTime
		if err := rows.Scan(&c.ID, &a, &b, &c.LastMessage, &last, &c.OtherUserID, &c.OtherUserName, &c.OtherUserAvatar); err != nil {
			return nil, err
		}
		c.Participants = []string{a, b}
		if last.Valid {
			t := last.Time
			c.LastMessageTimestamp = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SenderName returns the display name used in message notifications.
func (s *MessageService) SenderName(userID string) (string, error) {
	var name string
	err := s.DB.QueryRow("SELECT name FROM users WHERE id = ?", userID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}
