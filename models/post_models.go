package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreatePostRequest defines the structure for creating a new post.
type CreatePostRequest struct {
	Text      string `json:"text"`
	ImagePath string `json:"imagePath,omitempty"`
	VideoPath string `json:"videoPath,omitempty"`
}

// Post is a feed entry with its reactions and comments.
type Post struct {
	ID                string    `json:"id"`
	AuthorID          string    `json:"authorId"`
	AuthorName        string    `json:"authorName"`
	AuthorAvatar      string    `json:"authorAvatar"`
	Text              string    `json:"text"`
	ImagePath         string    `json:"imagePath,omitempty"`
	VideoPath         string    `json:"videoPath,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	Likes             []string  `json:"likes"`
	Congratulates     []string  `json:"congratulates"`
	LikeCount         int       `json:"likeCount"`
	CongratulateCount int       `json:"congratulateCount"`
	Liked             bool      `json:"liked"`
	Congratulated     bool      `json:"congratulated"`
	Comments          []Comment `json:"comments"`
}

// FeedService handles posts, reactions and comments.
type FeedService struct {
	DB *sql.DB
}

func NewFeedService(db *sql.DB) *FeedService {
	return &FeedService{DB: db}
}

const postSelect = `SELECT p.id, p.author_id, p.author_name, COALESCE(u.avatar, ''), p.text,
	p.image_path, p.video_path, p.created_at
	FROM posts p LEFT JOIN users u ON u.id = p.author_id`

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.AuthorAvatar, &p.Text, &p.ImagePath, &p.VideoPath, &p.Timestamp)
	if err != nil {
		return nil, err
	}
	p.Likes = []string{}
	p.Congratulates = []string{}
	p.Comments = []Comment{}
	return &p, nil
}

// Create publishes a post for authorID. Text or media is required.
func (s *FeedService) Create(authorID string, req CreatePostRequest) (*Post, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && req.ImagePath == "" && req.VideoPath == "" {
		return nil, invalid("Post must contain text or media")
	}
	var authorName string
	err := s.DB.QueryRow("SELECT name FROM users WHERE id = ?", authorID).Scan(&authorName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up author: %w", err)
	}

	id := uuid.NewString()
	_, err = s.DB.Exec(`INSERT INTO posts (id, author_id, author_name, text, image_path, video_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, id, authorID, authorName, text, req.ImagePath, req.VideoPath, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return s.Get(authorID, id)
}

// List returns every post, newest first, as seen by viewerID.
func (s *FeedService) List(viewerID string) ([]Post, error) {
	rows, err := s.DB.Query(postSelect + " ORDER BY p.created_at DESC, p.rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}
	if err := s.decorate(viewerID, posts, ""); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get loads one post as seen by viewerID.
func (s *FeedService) Get(viewerID, postID string) (*Post, error) {
	p, err := scanPost(s.DB.QueryRow(postSelect+" WHERE p.id = ?", postID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", postID, err)
	}
	posts := []Post{*p}
	if err := s.decorate(viewerID, posts, postID); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// decorate fills reactions and comments. postID narrows the lookups to a
// single post; empty loads them for the whole feed.
func (s *FeedService) decorate(viewerID string, posts []Post, postID string) error {
	if len(posts) == 0 {
		return nil
	}
	index := make(map[string]int, len(posts))
	for i := range posts {
		index[posts[i].ID] = i
	}

	filter, args := "", []any{}
	if postID != "" {
		filter, args = " WHERE post_id = ?", []any{postID}
	}

	for _, table := range []string{"post_likes", "post_congratulates"} {
		rows, err := s.DB.Query("SELECT post_id, user_id FROM "+table+filter+" ORDER BY created_at, user_id", args...)
		if err != nil {
			return fmt.Errorf("load %s: %w", table, err)
		}
		for rows.Next() {
			var pid, uid string
			if err := rows.Scan(&pid, &uid); err != nil {
				rows.Close()
				return err
			}
			i, ok := index[pid]
			if !ok {
				continue
			}
			if table == "post_likes" {
				posts[i].Likes = append(posts[i].Likes, uid)
			} else {
				posts[i].Congratulates = append(posts[i].Congratulates, uid)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
	}

	rows, err := s.DB.Query("SELECT id, post_id, user_id, user_name, text, created_at FROM post_comments"+filter+" ORDER BY seq", args...)
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserName, &c.Text, &c.Timestamp); err != nil {
			rows.Close()
			return err
		}
		if i, ok := index[c.PostID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return err
	}

	for i := range posts {
		p := &posts[i]
		p.LikeCount = len(p.Likes)
		p.CongratulateCount = len(p.Congratulates)
		p.Liked = containsID(p.Likes, viewerID)
		p.Congratulated = containsID(p.Congratulates, viewerID)
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// AuthorID returns the author of postID.
func (s *FeedService) AuthorID(postID string) (string, error) {
	var authorID string
	err := s.DB.QueryRow("SELECT author_id FROM posts WHERE id = ?", postID).Scan(&authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return authorID, err
}

// Delete removes a post with its reactions and comments. Only the author may delete.
func (s *FeedService) Delete(actorID, postID string) error {
	authorID, err := s.AuthorID(postID)
	if err != nil {
		return err
	}
	if authorID != actorID {
		return ErrForbidden
	}
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, q := range []string{
		"DELETE FROM post_likes WHERE post_id = ?",
		"DELETE FROM post_congratulates WHERE post_id = ?",
		"DELETE FROM post_comments WHERE post_id = ?",
		"DELETE FROM posts WHERE id = ?",
	} {
		if _, err := tx.Exec(q, postID); err != nil {
			return fmt.Errorf("delete post %s: %w", postID, err)
		}
	}
	return tx.Commit()
}
