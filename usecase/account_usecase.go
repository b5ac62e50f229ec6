package usecase

import (
	"context"
	"fmt"
	"time"

	"contentflow/domain/model"
	"contentflow/domain/repository"
	"contentflow/infrastructure/logger"
)

// refreshWindow is how close to expiry a token may get before a publish
// attempt refreshes it first.
const refreshWindow = 5 * time.Minute

// ITokenRefresher is the slice of the OAuth manager the account usecase
// needs. Satisfied by social.OAuthManager.
type ITokenRefresher interface {
	RefreshToken(ctx context.Context, platform model.Platform, refreshToken string) (*model.TokenSet, error)
}

type IAccountUsecase interface {
	SaveConnection(ctx context.Context, userID string, platform model.Platform, profile *model.SocialProfile, tokens *model.TokenSet) (*model.SocialAccount, error)
	FreshAccessToken(ctx context.Context, account *model.SocialAccount) (string, error)
	ListAccounts(ctx context.Context, userID string) ([]model.SocialAccount, error)
	Disconnect(ctx context.Context, userID string, platform model.Platform) error
}

type accountUsecase struct {
	accounts  repository.ISocialAccount
	refresher ITokenRefresher
}

func NewAccountUsecase(accounts repository.ISocialAccount, refresher ITokenRefresher) IAccountUsecase {
	return &accountUsecase{accounts: accounts, refresher: refresher}
}

// SaveConnection stores or replaces the user's connection for a platform
// after a completed OAuth exchange. Reconnecting overwrites the previous
// tokens and reactivates the account.
func (u *accountUsecase) SaveConnection(ctx context.Context, userID string, platform model.Platform, profile *model.SocialProfile, tokens *model.TokenSet) (*model.SocialAccount, error) {
	acc := &model.SocialAccount{
		UserID:         userID,
		Platform:       platform,
		PlatformUserID: profile.ID,
		Username:       profile.Username,
		DisplayName:    profile.DisplayName,
		AccessToken:    tokens.AccessToken,
		TokenExpiresAt: tokens.Expiry,
	}
	if profile.ProfileImageURL != "" {
		v := profile.ProfileImageURL
		acc.ProfileImageURL = &v
	}
	if tokens.RefreshToken != "" {
		v := tokens.RefreshToken
		acc.RefreshToken = &v
	}
	saved, err := u.accounts.Upsert(ctx, acc)
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"user_id":  userID,
		"platform": platform,
		"username": saved.Username,
	}).Info("social account connected")
	return saved, nil
}

// FreshAccessToken returns an access token valid for at least the refresh
// window. A token with no recorded expiry never refreshes. A rotated token
// is persisted before it is returned; when the provider omits a new refresh
// token the stored one is kept.
func (u *accountUsecase) FreshAccessToken(ctx context.Context, account *model.SocialAccount) (string, error) {
	exp := account.TokenExpiresAt
	if exp == nil || time.Until(*exp) >= refreshWindow {
		return account.AccessToken, nil
	}
	if account.RefreshToken == nil || *account.RefreshToken == "" {
		return "", fmt.Errorf("%s: %w", account.Platform, model.ErrNoRefreshToken)
	}
	ts, err := u.refresher.RefreshToken(ctx, account.Platform, *account.RefreshToken)
	if err != nil {
		return "", err
	}
	var rotated *string
	if ts.RefreshToken != "" {
		rotated = &ts.RefreshToken
	}
	if err := u.accounts.UpdateTokens(ctx, account.ID, ts.AccessToken, rotated, ts.Expiry); err != nil {
		return "", err
	}
	account.AccessToken = ts.AccessToken
	if rotated != nil {
		account.RefreshToken = rotated
	}
	account.TokenExpiresAt = ts.Expiry
	logger.GetLogger().WithFields(map[string]interface{}{
		"account_id": account.ID,
		"platform":   account.Platform,
	}).Info("access token refreshed")
	return ts.AccessToken, nil
}

func (u *accountUsecase) ListAccounts(ctx context.Context, userID string) ([]model.SocialAccount, error) {
	return u.accounts.ListByUser(ctx, userID)
}

func (u *accountUsecase) Disconnect(ctx context.Context, userID string, platform model.Platform) error {
	return u.accounts.Deactivate(ctx, userID, platform)
}
