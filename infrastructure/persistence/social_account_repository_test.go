package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/domain/model"
)

func TestSocialAccountRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSocialAccountRepository(db)

	createdAt := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery(`INSERT INTO social_accounts .+ ON CONFLICT \(user_id, platform\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("acc-1", createdAt))

	acc := &model.SocialAccount{
		UserID:      "user-1",
		Platform:    model.PlatformLinkedIn,
		Username:    "ada",
		AccessToken: "at-1",
	}
	saved, err := repo.Upsert(context.Background(), acc)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", saved.ID)
	assert.Equal(t, createdAt, saved.CreatedAt)
	assert.True(t, saved.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialAccountRepository_GetActive(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSocialAccountRepository(db)

	now := time.Now().UTC()
	expiresAt := now.Add(time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "platform", "platform_user_id", "username", "display_name",
		"profile_image_url", "access_token", "refresh_token", "token_expires_at",
		"is_active", "created_at", "updated_at",
	}).AddRow("acc-1", "user-1", "twitter", "tw-9", "ada", "Ada",
		nil, "at-1", "rt-1", expiresAt, true, now, now)

	mock.ExpectQuery(`SELECT .+ FROM social_accounts WHERE user_id=\$1 AND platform=\$2 AND is_active=TRUE`).
		WithArgs("user-1", "twitter").
		WillReturnRows(rows)

	acc, err := repo.GetActive(context.Background(), "user-1", model.PlatformTwitter)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformTwitter, acc.Platform)
	assert.Nil(t, acc.ProfileImageURL)
	require.NotNil(t, acc.RefreshToken)
	assert.Equal(t, "rt-1", *acc.RefreshToken)
	require.NotNil(t, acc.TokenExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialAccountRepository_GetActive_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSocialAccountRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM social_accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetActive(context.Background(), "user-1", model.PlatformTikTok)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

func TestSocialAccountRepository_UpdateTokens_KeepsRefreshWhenNil(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSocialAccountRepository(db)

	mock.ExpectExec(`UPDATE social_accounts SET access_token=\$1, refresh_token=COALESCE\(\$2, refresh_token\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateTokens(context.Background(), "acc-1", "at-new", nil, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialAccountRepository_Deactivate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSocialAccountRepository(db)

	mock.ExpectExec(`UPDATE social_accounts SET is_active=FALSE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Deactivate(context.Background(), "user-1", model.PlatformInstagram)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}
