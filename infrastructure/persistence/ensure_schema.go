package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureScheduleSchema creates the tables this service owns when they are
// missing. Safe to call at startup.
func EnsureScheduleSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scheduled_jobs (
			job_id        TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			channel_id    TEXT NOT NULL,
			video_id      TEXT,
			video_title   TEXT NOT NULL,
			status        TEXT NOT NULL,
			publish_at    TIMESTAMPTZ NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			error_message TEXT,
			metadata      JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_jobs_user ON scheduled_jobs (user_id)`,
		`CREATE TABLE IF NOT EXISTS failed_videos (
			id                   BIGSERIAL PRIMARY KEY,
			user_id              TEXT NOT NULL,
			channel_id           TEXT NOT NULL,
			title                TEXT NOT NULL,
			attempted_publish_at TIMESTAMPTZ NOT NULL,
			failed_at            TIMESTAMPTZ NOT NULL,
			reason               TEXT NOT NULL,
			job_id               TEXT NOT NULL,
			video_id             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failed_videos_channel ON failed_videos (user_id, channel_id, failed_at DESC)`,
		`CREATE TABLE IF NOT EXISTS channel_tokens (
			user_id       TEXT NOT NULL,
			channel_id    TEXT NOT NULL,
			channel_name  TEXT NOT NULL DEFAULT '',
			access_token  TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			token_expiry  TIMESTAMPTZ,
			scopes        TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, channel_id)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			user_name  TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schedule schema: %w", err)
		}
	}
	return nil
}
