package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/domain/model"
)

type fakeAccountRepo struct {
	byKey       map[string]*model.SocialAccount // userID|platform
	upserted    []*model.SocialAccount
	tokenWrites []tokenWrite
	updateErr   error
}

type tokenWrite struct {
	id           string
	accessToken  string
	refreshToken *string
	expiresAt    *time.Time
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byKey: map[string]*model.SocialAccount{}}
}

func (f *fakeAccountRepo) put(acc *model.SocialAccount) {
	f.byKey[acc.UserID+"|"+string(acc.Platform)] = acc
}

func (f *fakeAccountRepo) Upsert(ctx context.Context, acc *model.SocialAccount) (*model.SocialAccount, error) {
	if acc.ID == "" {
		acc.ID = "acc-" + string(acc.Platform)
	}
	f.upserted = append(f.upserted, acc)
	f.put(acc)
	return acc, nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*model.SocialAccount, error) {
	for _, acc := range f.byKey {
		if acc.ID == id {
			return acc, nil
		}
	}
	return nil, model.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetActive(ctx context.Context, userID string, platform model.Platform) (*model.SocialAccount, error) {
	acc, ok := f.byKey[userID+"|"+string(platform)]
	if !ok || !acc.IsActive {
		return nil, model.ErrAccountNotFound
	}
	return acc, nil
}

func (f *fakeAccountRepo) ListByUser(ctx context.Context, userID string) ([]model.SocialAccount, error) {
	var out []model.SocialAccount
	for _, acc := range f.byKey {
		if acc.UserID == userID {
			out = append(out, *acc)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) UpdateTokens(ctx context.Context, id, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.tokenWrites = append(f.tokenWrites, tokenWrite{id, accessToken, refreshToken, expiresAt})
	return nil
}

func (f *fakeAccountRepo) Deactivate(ctx context.Context, userID string, platform model.Platform) error {
	acc, ok := f.byKey[userID+"|"+string(platform)]
	if !ok {
		return model.ErrAccountNotFound
	}
	acc.IsActive = false
	return nil
}

type fakeRefresher struct {
	calls  int
	tokens *model.TokenSet
	err    error
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, platform model.Platform, refreshToken string) (*model.TokenSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens, nil
}

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func connectedAccount(platform model.Platform, expiresIn time.Duration) *model.SocialAccount {
	acc := &model.SocialAccount{
		ID:          "acc-" + string(platform),
		UserID:      "user-1",
		Platform:    platform,
		AccessToken: "at-old",
		RefreshToken: strPtr("rt-old"),
		IsActive:    true,
	}
	if expiresIn != 0 {
		acc.TokenExpiresAt = timePtr(time.Now().Add(expiresIn))
	}
	return acc
}

func TestFreshAccessToken_FreshTokenSkipsRefresh(t *testing.T) {
	repo := newFakeAccountRepo()
	refresher := &fakeRefresher{}
	uc := NewAccountUsecase(repo, refresher)

	acc := connectedAccount(model.PlatformLinkedIn, time.Hour)
	token, err := uc.FreshAccessToken(context.Background(), acc)
	require.NoError(t, err)
	assert.Equal(t, "at-old", token)
	assert.Zero(t, refresher.calls)
	assert.Empty(t, repo.tokenWrites)
}

func TestFreshAccessToken_NoExpiryNeverRefreshes(t *testing.T) {
	repo := newFakeAccountRepo()
	refresher := &fakeRefresher{}
	uc := NewAccountUsecase(repo, refresher)

	acc := connectedAccount(model.PlatformLinkedIn, 0)
	token, err := uc.FreshAccessToken(context.Background(), acc)
	require.NoError(t, err)
	assert.Equal(t, "at-old", token)
	assert.Zero(t, refresher.calls)
}

func TestFreshAccessToken_StaleTokenRefreshesOnceAndPersists(t *testing.T) {
	repo := newFakeAccountRepo()
	newExpiry := time.Now().Add(2 * time.Hour)
	refresher := &fakeRefresher{tokens: &model.TokenSet{
		AccessToken:  "at-new",
		RefreshToken: "rt-new",
		Expiry:       &newExpiry,
	}}
	uc := NewAccountUsecase(repo, refresher)

	acc := connectedAccount(model.PlatformTwitter, 2*time.Minute)
	token, err := uc.FreshAccessToken(context.Background(), acc)
	require.NoError(t, err)
	assert.Equal(t, "at-new", token)
	assert.Equal(t, 1, refresher.calls)

	require.Len(t, repo.tokenWrites, 1)
	write := repo.tokenWrites[0]
	assert.Equal(t, "acc-twitter", write.id)
	assert.Equal(t, "at-new", write.accessToken)
	require.NotNil(t, write.refreshToken)
	assert.Equal(t, "rt-new", *write.refreshToken)
	assert.Equal(t, &newExpiry, write.expiresAt)

	// The in-memory account reflects the rotation too.
	assert.Equal(t, "at-new", acc.AccessToken)
	assert.Equal(t, "rt-new", *acc.RefreshToken)
}

func TestFreshAccessToken_KeepsOldRefreshTokenWhenNotRotated(t *testing.T) {
	repo := newFakeAccountRepo()
	refresher := &fakeRefresher{tokens: &model.TokenSet{AccessToken: "at-new"}}
	uc := NewAccountUsecase(repo, refresher)

	acc := connectedAccount(model.PlatformTwitter, time.Minute)
	_, err := uc.FreshAccessToken(context.Background(), acc)
	require.NoError(t, err)

	require.Len(t, repo.tokenWrites, 1)
	assert.Nil(t, repo.tokenWrites[0].refreshToken)
	assert.Equal(t, "rt-old", *acc.RefreshToken)
}

func TestFreshAccessToken_NoRefreshToken(t *testing.T) {
	repo := newFakeAccountRepo()
	refresher := &fakeRefresher{}
	uc := NewAccountUsecase(repo, refresher)

	acc := connectedAccount(model.PlatformInstagram, time.Minute)
	acc.RefreshToken = nil
	_, err := uc.FreshAccessToken(context.Background(), acc)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoRefreshToken)
	assert.Zero(t, refresher.calls)
}

func TestFreshAccessToken_RefreshFailurePropagates(t *testing.T) {
	repo := newFakeAccountRepo()
	refresher := &fakeRefresher{err: &model.RefreshFailedError{
		Platform: model.PlatformTwitter,
		Body:     `{"error":"invalid_token"}`,
		Err:      errors.New("401"),
	}}
	uc := NewAccountUsecase(repo, refresher)

	acc := connectedAccount(model.PlatformTwitter, time.Minute)
	_, err := uc.FreshAccessToken(context.Background(), acc)
	require.Error(t, err)

	var refreshErr *model.RefreshFailedError
	assert.ErrorAs(t, err, &refreshErr)
	assert.Empty(t, repo.tokenWrites)
}

func TestSaveConnection_ReconnectOverwrites(t *testing.T) {
	repo := newFakeAccountRepo()
	uc := NewAccountUsecase(repo, &fakeRefresher{})

	expiry := time.Now().Add(time.Hour)
	profile := &model.SocialProfile{ID: "p-1", Username: "ada", DisplayName: "Ada", ProfileImageURL: "https://cdn.example.com/a.png"}
	tokens := &model.TokenSet{AccessToken: "at-1", RefreshToken: "rt-1", Expiry: &expiry}

	saved, err := uc.SaveConnection(context.Background(), "user-1", model.PlatformLinkedIn, profile, tokens)
	require.NoError(t, err)
	assert.True(t, saved.IsActive)
	assert.Equal(t, "at-1", saved.AccessToken)
	assert.Equal(t, "rt-1", *saved.RefreshToken)

	// Reconnect with fresh tokens replaces the stored connection.
	tokens2 := &model.TokenSet{AccessToken: "at-2"}
	saved2, err := uc.SaveConnection(context.Background(), "user-1", model.PlatformLinkedIn, profile, tokens2)
	require.NoError(t, err)
	assert.Equal(t, "at-2", saved2.AccessToken)
	assert.Nil(t, saved2.RefreshToken)
	assert.Len(t, repo.upserted, 2)
}
