package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

type SocialAccountRepository struct {
	db *sql.DB
}

func NewSocialAccountRepository(db *sql.DB) repository.ISocialAccount {
	return &SocialAccountRepository{db: db}
}

const socialAccountColumns = `id, user_id, platform, platform_user_id, username, display_name, profile_image_url, access_token, refresh_token, token_expires_at, is_active, created_at, updated_at`

// Upsert inserts or replaces the connection for (user_id, platform). A
// reconnect overwrites tokens and profile fields and reactivates the row.
func (r *SocialAccountRepository) Upsert(ctx context.Context, acc *model.SocialAccount) (*model.SocialAccount, error) {
	now := time.Now().UTC()
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	acc.IsActive = true
	acc.UpdatedAt = now

	q := `INSERT INTO social_accounts (` + socialAccountColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE,$11,$11)
ON CONFLICT (user_id, platform) DO UPDATE SET
    platform_user_id=EXCLUDED.platform_user_id,
    username=EXCLUDED.username,
    display_name=EXCLUDED.display_name,
    profile_image_url=EXCLUDED.profile_image_url,
    access_token=EXCLUDED.access_token,
    refresh_token=EXCLUDED.refresh_token,
    token_expires_at=EXCLUDED.token_expires_at,
    is_active=TRUE,
    updated_at=EXCLUDED.updated_at
RETURNING id, created_at`
	row := r.db.QueryRowContext(ctx, q,
		acc.ID, acc.UserID, string(acc.Platform),
		acc.PlatformUserID, acc.Username, acc.DisplayName,
		nullString(acc.ProfileImageURL),
		acc.AccessToken, nullString(acc.RefreshToken), nullTime(acc.TokenExpiresAt),
		now,
	)
	if err := row.Scan(&acc.ID, &acc.CreatedAt); err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *SocialAccountRepository) GetByID(ctx context.Context, id string) (*model.SocialAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+socialAccountColumns+` FROM social_accounts WHERE id=$1`, id)
	return scanSocialAccount(row)
}

func (r *SocialAccountRepository) GetActive(ctx context.Context, userID string, platform model.Platform) (*model.SocialAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+socialAccountColumns+` FROM social_accounts WHERE user_id=$1 AND platform=$2 AND is_active=TRUE`,
		userID, string(platform))
	return scanSocialAccount(row)
}

func (r *SocialAccountRepository) ListByUser(ctx context.Context, userID string) ([]model.SocialAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+socialAccountColumns+` FROM social_accounts WHERE user_id=$1 ORDER BY platform`, userID)
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

// UpdateTokens persists a rotated access token. A nil refreshToken keeps the
// stored one; expiresAt is written as given, including NULL.
func (r *SocialAccountRepository) UpdateTokens(ctx context.Context, id, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE social_accounts SET access_token=$1, refresh_token=COALESCE($2, refresh_token), token_expires_at=$3, updated_at=$4 WHERE id=$5`,
		accessToken, nullString(refreshToken), nullTime(expiresAt), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *SocialAccountRepository) Deactivate(ctx context.Context, userID string, platform model.Platform) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE social_accounts SET is_active=FALSE, updated_at=$1 WHERE user_id=$2 AND platform=$3`,
		time.Now().UTC(), userID, string(platform))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSocialAccount(row rowScanner) (*model.SocialAccount, error) {
	acc := &model.SocialAccount{}
	var platform string
	var profileImage, refreshToken sql.NullString
	var expiresAt sql.NullTime
	err := row.Scan(
		&acc.ID, &acc.UserID, &platform,
		&acc.PlatformUserID, &acc.Username, &acc.DisplayName,
		&profileImage, &acc.AccessToken, &refreshToken, &expiresAt,
		&acc.IsActive, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	acc.Platform = model.Platform(platform)
	if profileImage.Valid {
		v := profileImage.String
		acc.ProfileImageURL = &v
	}
	if refreshToken.Valid {
		v := refreshToken.String
		acc.RefreshToken = &v
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		acc.TokenExpiresAt = &t
	}
	return acc, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
