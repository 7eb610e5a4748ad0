package models

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"athlete-network/pkg/db/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.ConnectAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("ConnectAndMigrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var userSeq int

func createUser(t *testing.T, db *sql.DB, name string) *User {
	t.Helper()
	userSeq++
	u, err := NewUserService(db).Create(SignUpRequest{
		Email:       fmt.Sprintf("user%d@example.com", userSeq),
		Password:    "secret123",
		Name:        name,
		Gender:      "Female",
		State:       "Karnataka",
		PhoneNumber: "9876543210",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}
