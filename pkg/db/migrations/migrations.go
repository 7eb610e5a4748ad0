// Package migrations embeds the SQL migration files applied at startup.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS

// SQLiteDir is the directory inside FS holding the SQLite migrations.
const SQLiteDir = "sqlite"
