package util

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"athlete-network/config"
	"athlete-network/database"
	"athlete-network/logger"

	"github.com/go-redis/redis"
)

const SessionCookieName = "session_token"

const sessionKeyPrefix = "session:"

// SessionStore maps session tokens to user ids.
type SessionStore interface {
	Set(token, userID string, ttl time.Duration) error
	Get(token string) (string, error) // "" when the token is unknown
	Delete(token string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	userID  string
	expires time.Time
}

// NewMemoryStore returns a process-local store. Sessions are lost on restart.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[string]memorySession)}
}

func (s *memoryStore) Set(token, userID string, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.sessions[token] = memorySession{userID: userID, expires: expires}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Get(token string) (string, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if !sess.expires.IsZero() && time.Now().After(sess.expires) {
		s.Delete(token)
		return "", nil
	}
	return sess.userID, nil
}

func (s *memoryStore) Delete(token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore keeps sessions in Redis so they survive restarts and are
// shared between instances.
func NewRedisStore(client *redis.Client) SessionStore {
	return &redisStore{client: client}
}

func (s *redisStore) Set(token, userID string, ttl time.Duration) error {
	return s.client.Set(sessionKeyPrefix+token, userID, ttl).Err()
}

func (s *redisStore) Get(token string) (string, error) {
	userID, err := s.client.Get(sessionKeyPrefix + token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return userID, nil
}

func (s *redisStore) Delete(token string) error {
	return s.client.Del(sessionKeyPrefix + token).Err()
}

var (
	store      SessionStore = NewMemoryStore()
	sessionTTL              = 24 * time.Hour
)

// InitSessions selects the session backend from the configuration.
func InitSessions(cfg *config.Config) error {
	sessionTTL = cfg.SessionTTL()
	switch cfg.Session.Store {
	case "", "memory":
		store = NewMemoryStore()
		logger.Info.Println("[SESSION] Using in-memory session store")
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Address,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		if _, err := client.Ping().Result(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.Session.Redis.Address, err)
		}
		store = NewRedisStore(client)
		logger.Info.Printf("[SESSION] Using redis session store at %s", cfg.Session.Redis.Address)
	default:
		return fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
	return nil
}

// SetSessionStore replaces the active store.
func SetSessionStore(s SessionStore) {
	store = s
}

// SessionTTL is the lifetime applied to new sessions and their cookies.
func SessionTTL() time.Duration {
	return sessionTTL
}

// GenerateSessionToken creates a cryptographically secure random session token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateSession creates a new session for the user and returns the session token.
func CreateSession(userID string) (string, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}
	if err := store.Set(token, userID, sessionTTL); err != nil {
		return "", err
	}
	return token, nil
}

// GetUserIDFromSession returns the user id for token, or "" if the session is not valid.
func GetUserIDFromSession(token string) string {
	if token == "" {
		return ""
	}
	userID, err := store.Get(token)
	if err != nil {
		logger.Error.Printf("Error reading session store: %v", err)
		return ""
	}
	return userID
}

// DeleteSession removes a session from the store.
func DeleteSession(token string) {
	if err := store.Delete(token); err != nil {
		logger.Error.Printf("Error deleting session: %v", err)
	}
}

// SessionTokenFromRequest reads the session cookie, falling back to the
// token query parameter used by WebSocket clients.
func SessionTokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value, nil
	}
	if !errors.Is(err, http.ErrNoCookie) {
		return "", err
	}
	return r.URL.Query().Get("token"), nil
}

// GetUserIDFromRequest resolves the user behind the request's session.
// It returns "" without error when there is no valid session.
func GetUserIDFromRequest(r *http.Request) (string, error) {
	token, err := SessionTokenFromRequest(r)
	if err != nil {
		return "", err
	}
	userID := GetUserIDFromSession(token)
	if userID == "" {
		return "", nil
	}

	var exists bool
	err = database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists)
	if err != nil || !exists {
		DeleteSession(token)
		return "", nil
	}
	return userID, nil
}

// SetSessionCookie writes the session cookie for token.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
