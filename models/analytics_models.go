package models

import (
	"database/sql"
	"fmt"
)

// Totals are platform-wide counters.
type Totals struct {
	Athletes int `json:"athletes"`
	Posts    int `json:"posts"`
	Jobs     int `json:"jobs"`
	Events   int `json:"events"`
}

// UserStats summarises one athlete's activity.
type UserStats struct {
	Followers               int `json:"followers"`
	Following               int `json:"following"`
	Posts                   int `json:"posts"`
	LikesReceived           int `json:"likesReceived"`
	CongratulationsReceived int `json:"congratulationsReceived"`
	EventsRegistered        int `json:"eventsRegistered"`
	ApplicationsSubmitted   int `json:"applicationsSubmitted"`
}

// AnalyticsSummary is the body of GET /analytics/summary.
type AnalyticsSummary struct {
	Totals            Totals       `json:"totals"`
	SportDistribution []SportCount `json:"sportDistribution"`
	Me                UserStats    `json:"me"`
}

// TopSports is how many sports the distribution names before folding into "Other".
const TopSports = 4

// AnalyticsService computes dashboard figures from the live tables.
type AnalyticsService struct {
	DB *sql.DB
}

func NewAnalyticsService(db *sql.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

func (s *AnalyticsService) count(dst *int, query string, args ...any) error {
	if err := s.DB.QueryRow(query, args...).Scan(dst); err != nil {
		return fmt.Errorf("analytics query %q: %w", query, err)
	}
	return nil
}

// Summary builds the dashboard for userID.
func (s *AnalyticsService) Summary(userID string) (*AnalyticsSummary, error) {
	var sum AnalyticsSummary
	counters := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&sum.Totals.Athletes, "SELECT COUNT(*) FROM users", nil},
		{&sum.Totals.Posts, "SELECT COUNT(*) FROM posts", nil},
		{&sum.Totals.Jobs, "SELECT COUNT(*) FROM jobs", nil},
		{&sum.Totals.Events, "SELECT COUNT(*) FROM events", nil},
		{&sum.Me.Followers, "SELECT COUNT(*) FROM user_followers WHERE user_id = ?", []any{userID}},
		{&sum.Me.Following, "SELECT COUNT(*) FROM user_following WHERE user_id = ?", []any{userID}},
		{&sum.Me.Posts, "SELECT COUNT(*) FROM posts WHERE author_id = ?", []any{userID}},
		{&sum.Me.LikesReceived, "SELECT COUNT(*) FROM post_likes l JOIN posts p ON p.id = l.post_id WHERE p.author_id = ?", []any{userID}},
		{&sum.Me.CongratulationsReceived, "SELECT COUNT(*) FROM post_congratulates c JOIN posts p ON p.id = c.post_id WHERE p.author_id = ?", []any{userID}},
		{&sum.Me.EventsRegistered, "SELECT COUNT(*) FROM registrations WHERE user_id = ?", []any{userID}},
		{&sum.Me.ApplicationsSubmitted, "SELECT COUNT(*) FROM job_applications WHERE user_id = ?", []any{userID}},
	}
	for _, c := range counters {
		if err := s.count(c.dst, c.query, c.args...); err != nil {
			return nil, err
		}
	}

	dist, err := NewUserService(s.DB).SportDistribution(TopSports)
	if err != nil {
		return nil, fmt.Errorf("sport distribution: %w", err)
	}
	sum.SportDistribution = dist
	return &sum, nil
}
