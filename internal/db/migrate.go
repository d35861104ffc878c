package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent, so the
// whole list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS signup_attempts (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL,
		status      TEXT NOT NULL
		            CHECK(status IN ('success','error')),
		error_code  TEXT NOT NULL DEFAULT '',
		latency_ms  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_signup_attempts_created ON signup_attempts(created_at)`,

	`CREATE INDEX IF NOT EXISTS idx_signup_attempts_email ON signup_attempts(email)`,
}
