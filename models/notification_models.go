package models

import (
	"database/sql"
	"time"
)

// Notification types.
const (
	NotificationChase          = "chase"
	NotificationChaseRequest   = "chase_request"
	NotificationChaseAccepted  = "chase_accepted"
	NotificationPostLike       = "post_like"
	NotificationCongratulate   = "post_congratulate"
	NotificationPostComment    = "post_comment"
	NotificationNewMessage     = "new_message"
	NotificationJobApplication = "job_application"
)

// Notification represents a notification in the system
type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`    // Who receives the notification
	Type      string    `json:"type"`      // chase, chase_request, post_like, post_comment, etc.
	Title     string    `json:"title"`     // Short title
	Message   string    `json:"message"`   // Detailed message
	RelatedID *string   `json:"relatedId"` // post id, user id, job id
	ActorID   *string   `json:"actorId"`   // Who triggered the notification
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationCount represents unread notification count
type NotificationCount struct {
	UnreadCount int `json:"unreadCount"`
}

// CreateNotificationRequest represents request to create a notification
type CreateNotificationRequest struct {
	UserID    string
	Type      string
	Title     string
	Message   string
	RelatedID *string
	ActorID   *string
}

// DeviceTokenRequest registers a push token for the current user.
type DeviceTokenRequest struct {
	Token string `json:"token"`
}

// NotificationService handles notification operations
type NotificationService struct {
	DB *sql.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *sql.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// CreateNotification stores a notification and returns it with its id.
func (ns *NotificationService) CreateNotification(req CreateNotificationRequest) (*Notification, error) {
	n := &Notification{
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		RelatedID: req.RelatedID,
		ActorID:   req.ActorID,
		CreatedAt: time.Now().UTC(),
	}
	res, err := ns.DB.Exec(`INSERT INTO notifications (user_id, type, title, message, related_id, actor_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, n.UserID, n.Type, n.Title, n.Message, n.RelatedID, n.ActorID, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.ID, _ = res.LastInsertId()
	return n, nil
}

// GetNotifications retrieves notifications for a user, newest first. Message
// notifications are excluded; conversations carry their own state.
func (ns *NotificationService) GetNotifications(userID string, limit int) ([]Notification, error) {
	rows, err := ns.DB.Query(`SELECT id, user_id, type, title, message, related_id, actor_id, is_read, created_at
		FROM notifications
		WHERE user_id = ? AND type != 'new_message'
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedID, &n.ActorID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// GetUnreadCount returns the count of unread notifications for a user (excluding messages)
func (ns *NotificationService) GetUnreadCount(userID string) (int, error) {
	var count int
	err := ns.DB.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE AND type != 'new_message'`, userID).Scan(&count)
	return count, err
}

// MarkAsRead marks a specific notification as read
func (ns *NotificationService) MarkAsRead(notificationID int64, userID string) error {
	res, err := ns.DB.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, notificationID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead marks all notifications as read for a user (excluding messages)
func (ns *NotificationService) MarkAllAsRead(userID string) error {
	_, err := ns.DB.Exec(`UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE AND type != 'new_message'`, userID)
	return err
}

// DeleteOldNotifications deletes notifications older than specified days
func (ns *NotificationService) DeleteOldNotifications(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res, err := ns.DB.Exec(`DELETE FROM notifications WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RegisterDevice stores an FCM token for userID.
func (ns *NotificationService) RegisterDevice(userID, token string) error {
	if token == "" {
		return invalid("Device token is required")
	}
	_, err := ns.DB.Exec(`INSERT OR IGNORE INTO device_tokens (user_id, token, created_at) VALUES (?, ?, ?)`, userID, token, time.Now().UTC())
	return err
}

// RemoveDevice forgets a token for userID.
func (ns *NotificationService) RemoveDevice(userID, token string) error {
	_, err := ns.DB.Exec(`DELETE FROM device_tokens WHERE user_id = ? AND token = ?`, userID, token)
	return err
}

// PruneTokens drops tokens the push service reported as no longer valid.
func (ns *NotificationService) PruneTokens(tokens []string) error {
	for _, t := range tokens {
		if _, err := ns.DB.Exec(`DELETE FROM device_tokens WHERE token = ?`, t); err != nil {
			return err
		}
	}
	return nil
}

// DeviceTokens lists the push tokens registered for userID.
func (ns *NotificationService) DeviceTokens(userID string) ([]string, error) {
	rows, err := ns.DB.Query(`SELECT token FROM device_tokens WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tokens := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
