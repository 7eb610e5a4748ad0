package models

import (
	"database/sql"
	"fmt"
	"time"
)

// ChaseRequest is a pending request to chase a user.
type ChaseRequest struct {
	FromID    string    `json:"fromId"`
	FromName  string    `json:"fromName"`
	Timestamp time.Time `json:"timestamp"`
}

// ChaseRequestAction is the body of PATCH /chase-requests/{fromID}.
type ChaseRequestAction struct {
	Action string `json:"action"` // accept or reject
}

// ChaseStatus reports the relationship after a chase mutation.
type ChaseStatus struct {
	TargetUserID string `json:"targetUserId"`
	Status       string `json:"status"` // chasing or not_chasing
}

const (
	StatusChasing    = "chasing"
	StatusNotChasing = "not_chasing"
)

// ChaseService maintains the follower/following edges. Each relationship is
// stored on both sides and both sides change in a single transaction.
type ChaseService struct {
	DB *sql.DB
}

func NewChaseService(db *sql.DB) *ChaseService {
	return &ChaseService{DB: db}
}

func (s *ChaseService) requireUser(id string) error {
	var exists bool
	if err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id).Scan(&exists); err != nil {
		return fmt.Errorf("check user %s: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (s *ChaseService) checkPair(actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	return s.requireUser(targetID)
}

// addEdge records that followerID chases userID.
func addEdge(tx *sql.Tx, followerID, userID string, now time.Time) error {
	if _, err := tx.Exec("INSERT OR IGNORE INTO user_followers (user_id, follower_id, created_at) VALUES (?, ?, ?)", userID, followerID, now); err != nil {
		return fmt.Errorf("add follower edge: %w", err)
	}
	if _, err := tx.Exec("INSERT OR IGNORE INTO user_following (user_id, following_id, created_at) VALUES (?, ?, ?)", followerID, userID, now); err != nil {
		return fmt.Errorf("add following edge: %w", err)
	}
	// A direct chase supersedes any request still waiting.
	if _, err := tx.Exec("DELETE FROM chase_requests WHERE user_id = ? AND from_id = ?", userID, followerID); err != nil {
		return fmt.Errorf("clear chase request: %w", err)
	}
	return nil
}

// Chase makes actorID a follower of targetID. Chasing twice is a no-op; the
// returned flag is true when a new relationship was created.
func (s *ChaseService) Chase(actorID, targetID string) (bool, error) {
	if err := s.checkPair(actorID, targetID); err != nil {
		return false, err
	}
	already, err := s.IsChasing(actorID, targetID)
	if err != nil {
		return false, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()
	if err := addEdge(tx, actorID, targetID, time.Now().UTC()); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit chase: %w", err)
	}
	return !already, nil
}

// Unchase removes actorID from targetID's followers and targetID from actorID's following.
func (s *ChaseService) Unchase(actorID, targetID string) error {
	if err := s.checkPair(actorID, targetID); err != nil {
		return err
	}
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM user_followers WHERE user_id = ? AND follower_id = ?", targetID, actorID); err != nil {
		return fmt.Errorf("remove follower edge: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM user_following WHERE user_id = ? AND following_id = ?", actorID, targetID); err != nil {
		return fmt.Errorf("remove following edge: %w", err)
	}
	return tx.Commit()
}

// Toggle flips the relationship and returns whether actorID now chases targetID.
func (s *ChaseService) Toggle(actorID, targetID string) (bool, error) {
	if err := s.checkPair(actorID, targetID); err != nil {
		return false, err
	}
	chasing, err := s.IsChasing(actorID, targetID)
	if err != nil {
		return false, err
	}
	if chasing {
		return false, s.Unchase(actorID, targetID)
	}
	if _, err := s.Chase(actorID, targetID); err != nil {
		return false, err
	}
	return true, nil
}

// IsChasing reports whether actorID is in targetID's followers.
func (s *ChaseService) IsChasing(actorID, targetID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM user_followers WHERE user_id = ? AND follower_id = ?)", targetID, actorID).Scan(&exists)
	return exists, err
}

func (s *ChaseService) summaries(query, userID string) ([]UserSummary, error) {
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}
	rows, err := s.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []UserSummary{}
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Avatar); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Followers lists the users chasing userID.
func (s *ChaseService) Followers(userID string) ([]UserSummary, error) {
	return s.summaries(`SELECT u.id, u.name, u.avatar FROM user_followers f
		JOIN users u ON u.id = f.follower_id
		WHERE f.user_id = ? ORDER BY f.created_at, u.id`, userID)
}

// Following lists the users userID chases.
func (s *ChaseService) Following(userID string) ([]UserSummary, error) {
	return s.summaries(`SELECT u.id, u.name, u.avatar FROM user_following f
		JOIN users u ON u.id = f.following_id
		WHERE f.user_id = ? ORDER BY f.created_at, u.id`, userID)
}

// SendRequest queues a chase request from fromID to toID.
func (s *ChaseService) SendRequest(fromID, toID string) (*ChaseRequest, error) {
	if err := s.checkPair(fromID, toID); err != nil {
		return nil, err
	}
	chasing, err := s.IsChasing(fromID, toID)
	if err != nil {
		return nil, err
	}
	if chasing {
		return nil, ErrAlreadyChasing
	}
	pending, err := s.HasPendingRequest(fromID, toID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestPending
	}

	var fromName string
	if err := s.DB.QueryRow("SELECT name FROM users WHERE id = ?", fromID).Scan(&fromName); err != nil {
		return nil, fmt.Errorf("look up requester: %w", err)
	}
	req := &ChaseRequest{FromID: fromID, FromName: fromName, Timestamp: time.Now().UTC()}
	_, err = s.DB.Exec("INSERT INTO chase_requests (user_id, from_id, from_name, created_at) VALUES (?, ?, ?, ?)",
		toID, req.FromID, req.FromName, req.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert chase request: %w", err)
	}
	return req, nil
}

// HasPendingRequest reports whether fromID has a request waiting on toID.
func (s *ChaseService) HasPendingRequest(fromID, toID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM chase_requests WHERE user_id = ? AND from_id = ?)", toID, fromID).Scan(&exists)
	return exists, err
}

// PendingRequests returns userID's queue, oldest first.
func (s *ChaseService) PendingRequests(userID string) ([]ChaseRequest, error) {
	rows, err := s.DB.Query("SELECT from_id, from_name, created_at FROM chase_requests WHERE user_id = ? ORDER BY seq", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ChaseRequest{}
	for rows.Next() {
		var r ChaseRequest
		if err := rows.Scan(&r.FromID, &r.FromName, &r.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func takeRequest(tx *sql.Tx, ownerID, fromID string) error {
	res, err := tx.Exec("DELETE FROM chase_requests WHERE user_id = ? AND from_id = ?", ownerID, fromID)
	if err != nil {
		return fmt.Errorf("remove chase request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Accept removes the request and makes fromID a follower of ownerID.
func (s *ChaseService) Accept(ownerID, fromID string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := takeRequest(tx, ownerID, fromID); err != nil {
		return err
	}
	if err := addEdge(tx, fromID, ownerID, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

// Reject drops the request without touching the graph.
func (s *ChaseService) Reject(ownerID, fromID string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := takeRequest(tx, ownerID, fromID); err != nil {
		return err
	}
	return tx.Commit()
}

// Respond applies an accept or reject action.
func (s *ChaseService) Respond(ownerID, fromID, action string) error {
	switch action {
	case "accept":
		return s.Accept(ownerID, fromID)
	case "reject":
		return s.Reject(ownerID, fromID)
	default:
		return invalid("Action must be accept or reject")
	}
}

