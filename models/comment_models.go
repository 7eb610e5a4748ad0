package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest defines the structure for creating a new comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// Comment is an entry in a post's ordered comment list.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// AddComment appends a comment to postID.
func (s *FeedService) AddComment(userID, postID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("Comment cannot be empty")
	}
	if _, err := s.AuthorID(postID); err != nil {
		return nil, err
	}
	c := &Comment{ID: uuid.NewString(), PostID: postID, UserID: userID, Text: text, Timestamp: time.Now().UTC()}
	if err := s.DB.QueryRow("SELECT name FROM users WHERE id = ?", userID).Scan(&c.UserName); err != nil {
		return nil, fmt.Errorf("look up commenter: %w", err)
	}
	_, err := s.DB.Exec("INSERT INTO post_comments (id, post_id, user_id, user_name, text, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.PostID, c.UserID, c.UserName, c.Text, c.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// RemoveComment deletes a comment. The comment author and the post author may remove it.
func (s *FeedService) RemoveComment(actorID, postID, commentID string) error {
	var commenterID, authorID string
	err := s.DB.QueryRow(`SELECT c.user_id, p.author_id FROM post_comments c
		JOIN posts p ON p.id = c.post_id WHERE c.id = ? AND c.post_id = ?`, commentID, postID).Scan(&commenterID, &authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("look up comment %s: %w", commentID, err)
	}
	if actorID != commenterID && actorID != authorID {
		return ErrForbidden
	}
	if _, err := s.DB.Exec("DELETE FROM post_comments WHERE id = ?", commentID); err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	return nil
}
