package database

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS tickets (
		seq BIGSERIAL,
		id VARCHAR(5) PRIMARY KEY,
		departure_city TEXT NOT NULL DEFAULT '',
		destination_city TEXT NOT NULL DEFAULT '',
		weekday TEXT NOT NULL DEFAULT '',
		departure_time TEXT NOT NULL DEFAULT '',
		aircraft_id TEXT NOT NULL,
		seat TEXT NOT NULL,
		zone TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL,
		username TEXT NOT NULL,
		booked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tickets_username_seq ON tickets(username, seq)`,
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}
