package models

import (
	"fmt"
	"time"
)

// Reaction kinds a post supports.
const (
	ReactionLike         = "like"
	ReactionCongratulate = "congratulate"
)

// ReactionResponse defines the structure for the like/congratulate toggle response.
type ReactionResponse struct {
	PostID   string `json:"postId"`
	Reaction string `json:"reaction"`
	Active   bool   `json:"active"` // true if the user now holds the reaction
	Count    int    `json:"count"`
}

func reactionTable(reaction string) (string, error) {
	switch reaction {
	case ReactionLike:
		return "post_likes", nil
	case ReactionCongratulate:
		return "post_congratulates", nil
	}
	return "", invalid("unknown reaction " + reaction)
}

// ToggleReaction flips userID's membership in the post's reaction set.
func (s *FeedService) ToggleReaction(userID, postID, reaction string) (*ReactionResponse, error) {
	table, err := reactionTable(reaction)
	if err != nil {
		return nil, err
	}
	if _, err := s.AuthorID(postID); err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM "+table+" WHERE post_id = ? AND user_id = ?", postID, userID)
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", reaction, err)
	}
	resp := &ReactionResponse{PostID: postID, Reaction: reaction}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := tx.Exec("INSERT INTO "+table+" (post_id, user_id, created_at) VALUES (?, ?, ?)", postID, userID, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("add %s: %w", reaction, err)
		}
		resp.Active = true
	}
	if err := tx.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE post_id = ?", postID).Scan(&resp.Count); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return resp, nil
}

// ToggleLike flips userID's like on postID.
func (s *FeedService) ToggleLike(userID, postID string) (*ReactionResponse, error) {
	return s.ToggleReaction(userID, postID, ReactionLike)
}

// ToggleCongratulate flips userID's congratulation on postID.
func (s *FeedService) ToggleCongratulate(userID, postID string) (*ReactionResponse, error) {
	return s.ToggleReaction(userID, postID, ReactionCongratulate)
}
