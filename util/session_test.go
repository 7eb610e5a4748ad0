package util

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"athlete-network/config"
	"athlete-network/database"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	SetSessionStore(NewMemoryStore())

	token, err := CreateSession("user-1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if got := GetUserIDFromSession(token); got != "user-1" {
		t.Fatalf("GetUserIDFromSession = %q, want user-1", got)
	}
	DeleteSession(token)
	if got := GetUserIDFromSession(token); got != "" {
		t.Fatalf("session still valid after delete: %q", got)
	}
	if got := GetUserIDFromSession(""); got != "" {
		t.Fatalf("empty token resolved to %q", got)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set("tok", "user-1", time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if got, _ := s.Get("tok"); got != "" {
		t.Fatalf("expired session resolved to %q", got)
	}
}

func TestInitSessionsRejectsUnknownStore(t *testing.T) {
	cfg := config.Default()
	cfg.Session.Store = "etcd"
	if err := InitSessions(&cfg); err == nil {
		t.Fatal("expected error for unknown store")
	}
	cfg.Session.Store = "memory"
	if err := InitSessions(&cfg); err != nil {
		t.Fatalf("InitSessions(memory): %v", err)
	}
}

func TestGetUserIDFromRequest(t *testing.T) {
	if err := database.InitDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	SetSessionStore(NewMemoryStore())

	if _, err := database.DB.Exec(`INSERT INTO users (id, email, password_hash, name) VALUES ('u1', 'a@b.c', 'x', 'Asha')`); err != nil {
		t.Fatal(err)
	}

	token, _ := CreateSession("u1")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	if got, err := GetUserIDFromRequest(req); err != nil || got != "u1" {
		t.Fatalf("cookie lookup = %q, %v", got, err)
	}

	wsReq := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	if got, _ := GetUserIDFromRequest(wsReq); got != "u1" {
		t.Fatalf("query token lookup = %q", got)
	}

	// Sessions of deleted users are dropped.
	ghost, _ := CreateSession("ghost")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: ghost})
	if got, _ := GetUserIDFromRequest(req); got != "" {
		t.Fatalf("unknown user resolved to %q", got)
	}
	if GetUserIDFromSession(ghost) != "" {
		t.Fatal("ghost session not cleaned up")
	}
}
