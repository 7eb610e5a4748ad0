package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"athlete-network/config"
	"athlete-network/database"
	"athlete-network/util"
	"athlete-network/util/push"
)

// fakePusher records pushes and reports the configured tokens as invalid.
type fakePusher struct {
	mu      sync.Mutex
	sent    []push.Message
	tokens  [][]string
	invalid []string
}

func (f *fakePusher) Send(_ context.Context, tokens []string, msg push.Message) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	f.tokens = append(f.tokens, tokens)
	return f.invalid, nil
}

type testEnv struct {
	handler http.Handler
	pusher  *fakePusher
	uploads string
}

// setupAPI wires the full router against a fresh database. Background work
// runs inline so tests observe its effects immediately.
func setupAPI(t *testing.T) *testEnv {
	t.Helper()
	if err := database.InitDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	util.SetSessionStore(util.NewMemoryStore())

	origAsync := runAsync
	runAsync = func(fn func()) { fn() }
	t.Cleanup(func() { runAsync = origAsync })

	pusher := &fakePusher{}
	SetPushNotifier(pusher)
	t.Cleanup(func() { SetPushNotifier(nil) })

	cfg := config.Default()
	cfg.UploadsDir = t.TempDir()
	cfg.RateLimit = config.RateLimitConfig{PerMinute: 1000, Burst: 1000}

	mux := http.NewServeMux()
	RegisterRoutes(mux, &cfg)
	return &testEnv{handler: mux, pusher: pusher, uploads: cfg.UploadsDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// expect fails the test unless rec has the wanted status, then decodes the body into dst.
func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, dst any) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

type athlete struct {
	ID     string
	Name   string
	Email  string
	Cookie *http.Cookie
}

var athleteSeq int

func (e *testEnv) signUp(t *testing.T, name string) athlete {
	t.Helper()
	athleteSeq++
	email := fmt.Sprintf("athlete%d@example.com", athleteSeq)
	rec := e.do(t, http.MethodPost, "/signup", map[string]string{
		"email":       email,
		"password":    "secret123",
		"name":        name,
		"gender":      "Female",
		"state":       "Karnataka",
		"phoneNumber": "9876543210",
	}, nil)
	var body struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	expect(t, rec, http.StatusCreated, &body)
	a := athlete{ID: body.ID, Name: body.Name, Email: body.Email}
	for _, c := range rec.Result().Cookies() {
		if c.Name == util.SessionCookieName {
			a.Cookie = c
		}
	}
	if a.Cookie == nil {
		t.Fatal("signup did not set a session cookie")
	}
	return a
}
