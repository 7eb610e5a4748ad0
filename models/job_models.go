package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"athlete-network/util"

	"github.com/google/uuid"
)

// Job is a career listing.
type Job struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Company          string    `json:"company"`
	Location         string    `json:"location"`
	Type             string    `json:"type"`
	Salary           string    `json:"salary"`
	Description      string    `json:"description"`
	Responsibilities []string  `json:"responsibilities"`
	Requirements     []string  `json:"requirements"`
	Tags             []string  `json:"tags"`
	PostedBy         string    `json:"postedBy,omitempty"`
	PostedAt         time.Time `json:"postedAt"`
	Saved            bool      `json:"saved"`
	Applied          bool      `json:"applied"`
}

// RecommendedJob is a job with its match score against the viewer's profile.
type RecommendedJob struct {
	Job
	Score int `json:"score"`
}

// CreateJobRequest is the body of POST /jobs.
type CreateJobRequest struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	Salary           string   `json:"salary"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Tags             []string `json:"tags"`
}

// ApplyRequest is the body of POST /jobs/{jobID}/apply.
type ApplyRequest struct {
	CoverLetter string `json:"coverLetter"`
}

// Application is a user's application to a job.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	JobTitle    string    `json:"jobTitle"`
	Company     string    `json:"company"`
	UserID      string    `json:"userId"`
	CoverLetter string    `json:"coverLetter"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// JobService handles listings, saved jobs and applications.
type JobService struct {
	DB *sql.DB
}

func NewJobService(db *sql.DB) *JobService {
	return &JobService{DB: db}
}

const jobSelect = `SELECT id, title, company, location, type, salary, description,
	responsibilities, requirements, tags, COALESCE(posted_by, ''), posted_at FROM jobs`

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var resp, reqs, tags string
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Type, &j.Salary, &j.Description,
		&resp, &reqs, &tags, &j.PostedBy, &j.PostedAt)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		raw string
		dst *[]string
	}{{resp, &j.Responsibilities}, {reqs, &j.Requirements}, {tags, &j.Tags}} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", j.ID, err)
		}
		if *f.dst == nil {
			*f.dst = []string{}
		}
	}
	return &j, nil
}

func encodeList(items []string) string {
	clean := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			clean = append(clean, t)
		}
	}
	b, _ := json.Marshal(clean)
	return string(b)
}

// Create posts a job. postedBy may be empty for catalogue entries.
func (s *JobService) Create(postedBy string, req CreateJobRequest) (*Job, error) {
	title, company := strings.TrimSpace(req.Title), strings.TrimSpace(req.Company)
	if title == "" || company == "" {
		return nil, invalid("Title and company are required")
	}
	var poster any
	if postedBy != "" {
		poster = postedBy
	}
	id := uuid.NewString()
	_, err := s.DB.Exec(`INSERT INTO jobs (id, title, company, location, type, salary, description,
		responsibilities, requirements, tags, posted_by, posted_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, title, company, strings.TrimSpace(req.Location), strings.TrimSpace(req.Type), strings.TrimSpace(req.Salary),
		strings.TrimSpace(req.Description), encodeList(req.Responsibilities), encodeList(req.Requirements),
		encodeList(req.Tags), poster, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.Get(postedBy, id)
}

func (s *JobService) all() ([]Job, error) {
	rows, err := s.DB.Query(jobSelect + " ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (s *JobService) idSet(query, userID string) (map[string]bool, error) {
	rows, err := s.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	set := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, rows.Err()
}

func (s *JobService) markViewer(viewerID string, jobs []Job) error {
	if viewerID == "" {
		return nil
	}
	saved, err := s.idSet("SELECT job_id FROM saved_jobs WHERE user_id = ?", viewerID)
	if err != nil {
		return fmt.Errorf("load saved jobs: %w", err)
	}
	applied, err := s.idSet("SELECT job_id FROM job_applications WHERE user_id = ?", viewerID)
	if err != nil {
		return fmt.Errorf("load applications: %w", err)
	}
	for i := range jobs {
		jobs[i].Saved = saved[jobs[i].ID]
		jobs[i].Applied = applied[jobs[i].ID]
	}
	return nil
}

// List returns jobs whose title, company, location or a tag contains query,
// in the order they were posted.
func (s *JobService) List(viewerID, query string) ([]Job, error) {
	jobs, err := s.all()
	if err != nil {
		return nil, err
	}
	out := jobs[:0]
	for _, j := range jobs {
		if util.MatchesQuery(query, append([]string{j.Title, j.Company, j.Location}, j.Tags...)...) {
			out = append(out, j)
		}
	}
	if err := s.markViewer(viewerID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one job.
func (s *JobService) Get(viewerID, jobID string) (*Job, error) {
	j, err := scanJob(s.DB.QueryRow(jobSelect+" WHERE id = ?", jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	jobs := []Job{*j}
	if err := s.markViewer(viewerID, jobs); err != nil {
		return nil, err
	}
	return &jobs[0], nil
}

// Recommended scores every job against userID's profile and returns them
// best match first. Equal scores keep posting order.
func (s *JobService) Recommended(userID string) ([]RecommendedJob, error) {
	var skills, location, level string
	err := s.DB.QueryRow("SELECT skills, preferred_location, experience_level FROM users WHERE id = ?", userID).
		Scan(&skills, &location, &level)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	profile := util.MatchProfile{Skills: util.SplitList(skills), PreferredLocation: location, ExperienceLevel: level}

	jobs, err := s.all()
	if err != nil {
		return nil, err
	}
	if err := s.markViewer(userID, jobs); err != nil {
		return nil, err
	}
	candidates := make([]util.MatchJob, len(jobs))
	for i, j := range jobs {
		candidates[i] = util.MatchJob{Location: j.Location, Requirements: j.Requirements, Tags: j.Tags}
	}
	order, scores := util.RankJobs(candidates, profile)
	out := make([]RecommendedJob, 0, len(jobs))
	for _, i := range order {
		out = append(out, RecommendedJob{Job: jobs[i], Score: scores[i]})
	}
	return out, nil
}

func (s *JobService) requireJob(jobID string) error {
	var exists bool
	if err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM jobs WHERE id = ?)", jobID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// Save bookmarks a job for userID. Saving twice is a no-op.
func (s *JobService) Save(userID, jobID string) error {
	if err := s.requireJob(jobID); err != nil {
		return err
	}
	_, err := s.DB.Exec("INSERT OR IGNORE INTO saved_jobs (user_id, job_id, created_at) VALUES (?, ?, ?)", userID, jobID, time.Now().UTC())
	return err
}

// Unsave removes a bookmark.
func (s *JobService) Unsave(userID, jobID string) error {
	_, err := s.DB.Exec("DELETE FROM saved_jobs WHERE user_id = ? AND job_id = ?", userID, jobID)
	return err
}

// Saved lists userID's bookmarked jobs, most recently saved first.
func (s *JobService) Saved(userID string) ([]Job, error) {
	rows, err := s.DB.Query(`SELECT j.id, j.title, j.company, j.location, j.type, j.salary, j.description,
		j.responsibilities, j.requirements, j.tags, COALESCE(j.posted_by, ''), j.posted_at
		FROM saved_jobs s JOIN jobs j ON j.id = s.job_id
		WHERE s.user_id = ? ORDER BY s.created_at DESC, j.seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}
	if err := s.markViewer(userID, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Apply submits an application. Each user may apply to a job once.
func (s *JobService) Apply(userID, jobID, coverLetter string) (*Application, error) {
	job, err := s.Get("", jobID)
	if err != nil {
		return nil, err
	}
	app := &Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		JobTitle:    job.Title,
		Company:     job.Company,
		UserID:      userID,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      "submitted",
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.DB.Exec(`INSERT INTO job_applications (id, job_id, user_id, cover_letter, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, app.ID, app.JobID, app.UserID, app.CoverLetter, app.Status, app.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return app, nil
}

// Applications lists userID's applications, newest first.
func (s *JobService) Applications(userID string) ([]Application, error) {
	rows, err := s.DB.Query(`SELECT a.id, a.job_id, j.title, j.company, a.user_id, a.cover_letter, a.status, a.created_at
		FROM job_applications a JOIN jobs j ON j.id = a.job_id
		WHERE a.user_id = ? ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	out := []Application{}
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.Company, &a.UserID, &a.CoverLetter, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns the number of listed jobs.
func (s *JobService) Count() (int, error) {
	var n int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&n)
	return n, err
}
