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

// Event is a listed sports event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Organizer   string    `json:"organizer"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Price       string    `json:"price"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Attendees   int       `json:"attendees"`
	Registered  bool      `json:"registered"`
}

// CreateEventRequest is the body of POST /events.
type CreateEventRequest struct {
	Title       string   `json:"title"`
	Organizer   string   `json:"organizer"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Price       string   `json:"price"`
}

// EventService handles events and registrations.
type EventService struct {
	DB *sql.DB
}

func NewEventService(db *sql.DB) *EventService {
	return &EventService{DB: db}
}

const eventSelect = `SELECT e.id, e.title, e.organizer, e.location, e.date, e.time, e.description, e.image,
	e.tags, e.price, COALESCE(e.created_by, ''), e.created_at,
	(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id),
	EXISTS(SELECT 1 FROM registrations r WHERE r.event_id = e.id AND r.user_id = ?)
	FROM events e`

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var tags string
	err := row.Scan(&e.ID, &e.Title, &e.Organizer, &e.Location, &e.Date, &e.Time, &e.Description, &e.Image,
		&tags, &e.Price, &e.CreatedBy, &e.CreatedAt, &e.Attendees, &e.Registered)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("decode event %s tags: %w", e.ID, err)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return &e, nil
}

func (s *EventService) query(q string, args ...any) ([]Event, error) {
	rows, err := s.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Create lists a new event.
func (s *EventService) Create(createdBy string, req CreateEventRequest) (*Event, error) {
	title, organizer := strings.TrimSpace(req.Title), strings.TrimSpace(req.Organizer)
	if title == "" || organizer == "" {
		return nil, invalid("Title and organizer are required")
	}
	var creator any
	if createdBy != "" {
		creator = createdBy
	}
	id := uuid.NewString()
	_, err := s.DB.Exec(`INSERT INTO events (id, title, organizer, location, date, time, description, image, tags, price, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, title, organizer, strings.TrimSpace(req.Location), strings.TrimSpace(req.Date), strings.TrimSpace(req.Time),
		strings.TrimSpace(req.Description), strings.TrimSpace(req.Image), encodeList(req.Tags), strings.TrimSpace(req.Price),
		creator, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return s.Get(createdBy, id)
}

// List returns events whose title, organizer, location or a tag contains query.
func (s *EventService) List(viewerID, query string) ([]Event, error) {
	events, err := s.query(eventSelect+" ORDER BY e.seq", viewerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := events[:0]
	for _, e := range events {
		if util.MatchesQuery(query, append([]string{e.Title, e.Organizer, e.Location}, e.Tags...)...) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get loads one event.
func (s *EventService) Get(viewerID, eventID string) (*Event, error) {
	e, err := scanEvent(s.DB.QueryRow(eventSelect+" WHERE e.id = ?", viewerID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return e, nil
}

// Register signs userID up for an event. Registering twice is a no-op.
func (s *EventService) Register(userID, eventID string) (*Event, error) {
	if _, err := s.Get(userID, eventID); err != nil {
		return nil, err
	}
	_, err := s.DB.Exec("INSERT OR IGNORE INTO registrations (event_id, user_id, created_at) VALUES (?, ?, ?)", eventID, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("register for event %s: %w", eventID, err)
	}
	return s.Get(userID, eventID)
}

// Unregister cancels userID's registration.
func (s *EventService) Unregister(userID, eventID string) (*Event, error) {
	if _, err := s.Get(userID, eventID); err != nil {
		return nil, err
	}
	if _, err := s.DB.Exec("DELETE FROM registrations WHERE event_id = ? AND user_id = ?", eventID, userID); err != nil {
		return nil, fmt.Errorf("unregister from event %s: %w", eventID, err)
	}
	return s.Get(userID, eventID)
}

// Registered lists the events userID is registered for.
func (s *EventService) Registered(userID string) ([]Event, error) {
	return s.query(eventSelect+` JOIN registrations mine ON mine.event_id = e.id AND mine.user_id = ?
		ORDER BY mine.created_at, e.seq`, userID, userID)
}

// Count returns the number of listed events.
func (s *EventService) Count() (int, error) {
	var n int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM events").Scan(&n)
	return n, err
}
