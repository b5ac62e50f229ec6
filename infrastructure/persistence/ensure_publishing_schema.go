package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsurePublishingSchema creates the publishing tables when missing. Safe to
// call at startup; statements are idempotent.
func EnsurePublishingSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			user_name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS social_accounts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			platform TEXT NOT NULL,
			platform_user_id TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT,
			access_token TEXT NOT NULL,
			refresh_token TEXT,
			token_expires_at TIMESTAMPTZ,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, platform)
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			platforms TEXT[] NOT NULL DEFAULT '{}',
			hashtags TEXT[] NOT NULL DEFAULT '{}',
			media_urls TEXT[] NOT NULL DEFAULT '{}',
			scheduled_at TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'draft',
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS publish_logs (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			platform TEXT NOT NULL,
			status TEXT NOT NULL,
			platform_post_id TEXT,
			error_message TEXT,
			published_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publish_logs_post ON publish_logs (post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user ON posts (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring publishing schema failed: %w", err)
		}
	}
	return nil
}
