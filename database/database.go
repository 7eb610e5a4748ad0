package database

import (
	"context"
	"database/sql"
	"time"

	"athlete-network/logger"
	"athlete-network/pkg/db/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite database at path, applies the embedded migrations
// and stores the handle in DB.
func InitDB(path string) error {
	db, err := sqlite.ConnectAndMigrate(path)
	if err != nil {
		return err
	}
	DB = db
	logger.Info.Printf("[DB] Connected to %s", path)
	return nil
}

// Close releases the global handle.
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

// Ping reports whether the database answers within a second.
func Ping(ctx context.Context) error {
	if DB == nil {
		return sql.ErrConnDone
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return DB.PingContext(ctx)
}
