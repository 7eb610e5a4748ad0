package models

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"athlete-network/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an athlete profile as returned by the API.
type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email,omitempty"`
	Name               string    `json:"name"`
	Gender             string    `json:"gender"`
	State              string    `json:"state"`
	PhoneNumber        string    `json:"phoneNumber,omitempty"`
	Tagline            string    `json:"tagline"`
	Bio                string    `json:"bio"`
	Location           string    `json:"location"`
	FavoriteSports     string    `json:"favoriteSports"`
	FavoriteSportsList []string  `json:"favoriteSportsArray"`
	Skills             []string  `json:"skills"`
	PreferredLocation  string    `json:"preferredLocation"`
	ExperienceLevel    string    `json:"experienceLevel"`
	Avatar             string    `json:"avatar"`
	Followers          []string  `json:"followers"`
	Following          []string  `json:"following"`
	FollowersCount     int       `json:"followersCount"`
	FollowingCount     int       `json:"followingCount"`
	CreatedAt          time.Time `json:"createdAt"`

	// Relative to the viewer; always false on the viewer's own profile.
	IsChasing         bool `json:"isChasing"`
	HasPendingRequest bool `json:"hasPendingRequest"`
}

// UserSummary is the compact form used in follower lists.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UpdateProfileRequest is the body of the profile wizard.
type UpdateProfileRequest struct {
	Name              string   `json:"name"`
	Tagline           string   `json:"tagline"`
	Bio               string   `json:"bio"`
	Location          string   `json:"location"`
	FavoriteSports    string   `json:"favoriteSports"`
	Skills            []string `json:"skills"`
	PreferredLocation string   `json:"preferredLocation"`
	ExperienceLevel   string   `json:"experienceLevel"`
	Avatar            string   `json:"avatar"`
}

// UserService handles accounts and profiles.
type UserService struct {
	DB *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{DB: db}
}

const userColumns = `id, email, name, gender, state, phone_number, tagline, bio, location,
	favorite_sports, skills, preferred_location, experience_level, avatar, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var skills string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Gender, &u.State, &u.PhoneNumber, &u.Tagline, &u.Bio,
		&u.Location, &u.FavoriteSports, &skills, &u.PreferredLocation, &u.ExperienceLevel, &u.Avatar, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.FavoriteSportsList = util.SplitList(u.FavoriteSports)
	u.Skills = util.SplitList(skills)
	u.Followers = []string{}
	u.Following = []string{}
	return &u, nil
}

// Create registers a new account with a bcrypt password hash.
func (s *UserService) Create(req SignUpRequest) (*User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var exists bool
	if err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", req.Email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	_, err = s.DB.Exec(`INSERT INTO users (id, email, password_hash, name, gender, state, phone_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Email, string(hash), req.Name, req.Gender, req.State, req.PhoneNumber, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.Get(id)
}

// Authenticate checks credentials and returns the matching user.
func (s *UserService) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id, hash string
	err := s.DB.QueryRow("SELECT id, password_hash FROM users WHERE email = ?", email).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.Get(id)
}

// Get loads a user with both sides of their chase graph.
func (s *UserService) Get(id string) (*User, error) {
	u, err := scanUser(s.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if err := s.loadEdges(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Profile loads a user as seen by viewerID.
func (s *UserService) Profile(viewerID, id string) (*User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if viewerID == id {
		return u, nil
	}
	for _, f := range u.Followers {
		if f == viewerID {
			u.IsChasing = true
			break
		}
	}
	err = s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM chase_requests WHERE user_id = ? AND from_id = ?)", id, viewerID).
		Scan(&u.HasPendingRequest)
	if err != nil {
		return nil, fmt.Errorf("check pending request: %w", err)
	}
	u.PhoneNumber = ""
	u.Email = ""
	return u, nil
}

func (s *UserService) loadEdges(u *User) error {
	var err error
	if u.Followers, err = s.ids("SELECT follower_id FROM user_followers WHERE user_id = ? ORDER BY created_at, follower_id", u.ID); err != nil {
		return fmt.Errorf("load followers: %w", err)
	}
	if u.Following, err = s.ids("SELECT following_id FROM user_following WHERE user_id = ? ORDER BY created_at, following_id", u.ID); err != nil {
		return fmt.Errorf("load following: %w", err)
	}
	u.FollowersCount = len(u.Followers)
	u.FollowingCount = len(u.Following)
	return nil
}

func (s *UserService) ids(query string, args ...any) ([]string, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update saves the profile wizard fields.
func (s *UserService) Update(id string, req UpdateProfileRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("Name is required")
	}
	// Omitted skills and a blank avatar keep the stored values.
	var skills any
	if req.Skills != nil {
		skills = util.JoinList(req.Skills)
	}
	res, err := s.DB.Exec(`UPDATE users SET name = ?, tagline = ?, bio = ?, location = ?, favorite_sports = ?,
		skills = COALESCE(?, skills), preferred_location = ?, experience_level = ?,
		avatar = COALESCE(NULLIF(?, ''), avatar), updated_at = ? WHERE id = ?`,
		name, strings.TrimSpace(req.Tagline), strings.TrimSpace(req.Bio), strings.TrimSpace(req.Location),
		util.JoinList(util.SplitList(req.FavoriteSports)), skills,
		strings.TrimSpace(req.PreferredLocation), strings.TrimSpace(req.ExperienceLevel),
		strings.TrimSpace(req.Avatar), time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(id)
}

// Directory lists every user except viewerID whose name, favorite sports or
// location contains query. Results are ordered by name.
func (s *UserService) Directory(viewerID, query string) ([]User, error) {
	rows, err := s.DB.Query("SELECT "+userColumns+" FROM users WHERE id != ? ORDER BY name COLLATE NOCASE, id", viewerID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		fields := append([]string{u.Name, u.Location}, u.FavoriteSportsList...)
		if util.MatchesQuery(query, fields...) {
			u.PhoneNumber = ""
			u.Email = ""
			users = append(users, *u)
		}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	following, err := s.ids("SELECT following_id FROM user_following WHERE user_id = ?", viewerID)
	if err != nil {
		return nil, fmt.Errorf("load viewer following: %w", err)
	}
	chasing := make(map[string]bool, len(following))
	for _, id := range following {
		chasing[id] = true
	}
	for i := range users {
		if err := s.loadEdges(&users[i]); err != nil {
			return nil, err
		}
		users[i].IsChasing = chasing[users[i].ID]
	}
	return users, nil
}

// Exists reports whether a user with id exists.
func (s *UserService) Exists(id string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id).Scan(&exists)
	return exists, err
}

// Name returns the display name of a user.
func (s *UserService) Name(id string) (string, error) {
	var name string
	err := s.DB.QueryRow("SELECT name FROM users WHERE id = ?", id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

// Summaries loads id, name and avatar for the given users, keeping their order.
func (s *UserService) Summaries(ids []string) ([]UserSummary, error) {
	out := make([]UserSummary, 0, len(ids))
	for _, id := range ids {
		var sum UserSummary
		err := s.DB.QueryRow("SELECT id, name, avatar FROM users WHERE id = ?", id).Scan(&sum.ID, &sum.Name, &sum.Avatar)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// SportCount is one slice of the sport distribution chart.
type SportCount struct {
	Sport string `json:"sport"`
	Count int    `json:"count"`
}

// SportDistribution counts favorite sports across all users, keeping the top
// entries and folding the rest into "Other".
func (s *UserService) SportDistribution(top int) ([]SportCount, error) {
	rows, err := s.DB.Query("SELECT favorite_sports FROM users ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	display := map[string]string{}
	for rows.Next() {
		var fav string
		if err := rows.Scan(&fav); err != nil {
			return nil, err
		}
		for _, sport := range util.SplitList(fav) {
			key := strings.ToLower(sport)
			if _, ok := display[key]; !ok {
				display[key] = sport
			}
			counts[key]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dist := make([]SportCount, 0, len(counts))
	for key, n := range counts {
		dist = append(dist, SportCount{Sport: display[key], Count: n})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Sport < dist[j].Sport
	})
	if len(dist) <= top {
		return dist, nil
	}
	other := 0
	for _, d := range dist[top:] {
		other += d.Count
	}
	return append(dist[:top:top], SportCount{Sport: "Other", Count: other}), nil
}

// SetAvatar replaces the avatar path of a user.
func (s *UserService) SetAvatar(id, avatar string) (*User, error) {
	res, err := s.DB.Exec("UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?", avatar, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update avatar for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(id)
}
