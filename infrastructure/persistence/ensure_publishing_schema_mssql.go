package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsurePublishingSchemaMSSQL creates the publishing tables for SQL Server
// if they do not exist. Array-valued columns are stored as JSON in NVARCHAR.
func EnsurePublishingSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := map[string]string{
		"users": `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.users') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[users] (
        id NVARCHAR(64) PRIMARY KEY,
        name NVARCHAR(255) NOT NULL DEFAULT '',
        user_name NVARCHAR(255) NOT NULL,
        password NVARCHAR(255) NOT NULL,
        email NVARCHAR(255) NOT NULL DEFAULT '',
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_users_user_name ON dbo.[users](user_name);
END`,
		"social_accounts": `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.social_accounts') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[social_accounts] (
        id NVARCHAR(64) PRIMARY KEY,
        user_id NVARCHAR(64) NOT NULL,
        platform NVARCHAR(32) NOT NULL,
        platform_user_id NVARCHAR(128) NOT NULL DEFAULT '',
        username NVARCHAR(255) NOT NULL DEFAULT '',
        display_name NVARCHAR(255) NOT NULL DEFAULT '',
        profile_image_url NVARCHAR(MAX) NULL,
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NULL,
        token_expires_at DATETIME2 NULL,
        is_active BIT NOT NULL DEFAULT 1,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_social_accounts_user_platform ON dbo.[social_accounts](user_id, platform);
END`,
		"posts": `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.posts') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[posts] (
        id NVARCHAR(64) PRIMARY KEY,
        user_id NVARCHAR(64) NOT NULL,
        title NVARCHAR(512) NOT NULL DEFAULT '',
        content NVARCHAR(MAX) NOT NULL DEFAULT '',
        platforms NVARCHAR(MAX) NOT NULL DEFAULT '[]',
        hashtags NVARCHAR(MAX) NOT NULL DEFAULT '[]',
        media_urls NVARCHAR(MAX) NOT NULL DEFAULT '[]',
        scheduled_at DATETIME2 NULL,
        status NVARCHAR(32) NOT NULL DEFAULT 'draft',
        published_at DATETIME2 NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE INDEX IX_posts_user ON dbo.[posts](user_id);
END`,
		"publish_logs": `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.publish_logs') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[publish_logs] (
        id NVARCHAR(64) PRIMARY KEY,
        post_id NVARCHAR(64) NOT NULL,
        platform NVARCHAR(32) NOT NULL,
        status NVARCHAR(32) NOT NULL,
        platform_post_id NVARCHAR(255) NULL,
        error_message NVARCHAR(MAX) NULL,
        published_at DATETIME2 NOT NULL
    );
    CREATE INDEX IX_publish_logs_post ON dbo.[publish_logs](post_id);
END`,
	}
	for table, ddl := range stmts {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create %s (mssql): %w", table, err)
		}
	}
	return nil
}
