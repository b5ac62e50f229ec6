package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

// SocialAccountRepositoryMSSQL is the SQL Server implementation of
// ISocialAccount using database/sql.
type SocialAccountRepositoryMSSQL struct{ db *sql.DB }

func NewSocialAccountRepositoryMSSQL(db *sql.DB) repository.ISocialAccount {
	return &SocialAccountRepositoryMSSQL{db: db}
}

const socialAccountColumnsMSSQL = `id, user_id, platform, platform_user_id, username, display_name, profile_image_url, access_token, refresh_token, token_expires_at, is_active, created_at, updated_at`

func (r *SocialAccountRepositoryMSSQL) Upsert(ctx context.Context, acc *model.SocialAccount) (*model.SocialAccount, error) {
	now := time.Now().UTC()
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	acc.IsActive = true
	acc.UpdatedAt = now
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = now
	}

	// MERGE upsert by (user_id, platform)
	q := `MERGE dbo.[social_accounts] AS target
USING (VALUES (@p2, @p3)) AS src(user_id, platform)
ON target.user_id = src.user_id AND target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
    platform_user_id=@p4,
    username=@p5,
    display_name=@p6,
    profile_image_url=@p7,
    access_token=@p8,
    refresh_token=@p9,
    token_expires_at=@p10,
    is_active=1,
    updated_at=@p12
WHEN NOT MATCHED THEN
    INSERT (` + socialAccountColumnsMSSQL + `)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9,@p10,1,@p11,@p12);`
	_, err := r.db.ExecContext(ctx, q,
		acc.ID, acc.UserID, string(acc.Platform),
		acc.PlatformUserID, acc.Username, acc.DisplayName,
		nullString(acc.ProfileImageURL),
		acc.AccessToken, nullString(acc.RefreshToken), nullTime(acc.TokenExpiresAt),
		acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// MERGE has no RETURNING; re-read so callers see the surviving row id.
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM dbo.[social_accounts] WHERE user_id=@p1 AND platform=@p2`,
		acc.UserID, string(acc.Platform))
	if err := row.Scan(&acc.ID, &acc.CreatedAt); err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *SocialAccountRepositoryMSSQL) GetByID(ctx context.Context, id string) (*model.SocialAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+socialAccountColumnsMSSQL+` FROM dbo.[social_accounts] WHERE id=@p1`, id)
	return scanSocialAccount(row)
}

func (r *SocialAccountRepositoryMSSQL) GetActive(ctx context.Context, userID string, platform model.Platform) (*model.SocialAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+socialAccountColumnsMSSQL+` FROM dbo.[social_accounts] WHERE user_id=@p1 AND platform=@p2 AND is_active=1`,
		userID, string(platform))
	return scanSocialAccount(row)
}

func (r *SocialAccountRepositoryMSSQL) ListByUser(ctx context.Context, userID string) ([]model.SocialAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+socialAccountColumnsMSSQL+` FROM dbo.[social_accounts] WHERE user_id=@p1 ORDER BY platform`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.SocialAccount
	for rows.Next() {
		acc, err := scanSocialAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

func (r *SocialAccountRepositoryMSSQL) UpdateTokens(ctx context.Context, id, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[social_accounts] SET access_token=@p1, refresh_token=COALESCE(@p2, refresh_token), token_expires_at=@p3, updated_at=@p4 WHERE id=@p5`,
		accessToken, nullString(refreshToken), nullTime(expiresAt), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *SocialAccountRepositoryMSSQL) Deactivate(ctx context.Context, userID string, platform model.Platform) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[social_accounts] SET is_active=0, updated_at=@p1 WHERE user_id=@p2 AND platform=@p3`,
		time.Now().UTC(), userID, string(platform))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}
