package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/domain/model"
	"contentflow/infrastructure/clients/social"
)

type fakePostRepo struct {
	post          *model.Post
	statusUpdates []statusUpdate
	updateErr     error
}

type statusUpdate struct {
	id          string
	status      string
	publishedAt *time.Time
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) (*model.Post, error) { return post, nil }
func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) (*model.Post, error) { return post, nil }

func (f *fakePostRepo) GetByID(ctx context.Context, id, userID string) (*model.Post, error) {
	if f.post == nil || f.post.ID != id || f.post.UserID != userID {
		return nil, model.ErrPostNotFound
	}
	return f.post, nil
}

func (f *fakePostRepo) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	return nil, nil
}

func (f *fakePostRepo) UpdateStatus(ctx context.Context, id, status string, publishedAt *time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusUpdates = append(f.statusUpdates, statusUpdate{id, status, publishedAt})
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id, userID string) error { return nil }

type fakeLogRepo struct {
	inserted  []*model.PublishLog
	insertErr error
}

func (f *fakeLogRepo) Insert(ctx context.Context, log *model.PublishLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, log)
	return nil
}

func (f *fakeLogRepo) ListByPost(ctx context.Context, postID string) ([]model.PublishLog, error) {
	var out []model.PublishLog
	for _, l := range f.inserted {
		if l.PostID == postID {
			out = append(out, *l)
		}
	}
	return out, nil
}

type stubAdapter struct {
	platform    model.Platform
	id          string
	err         error
	calls       int
	lastContent string
}

func (s *stubAdapter) Platform() model.Platform { return s.platform }

func (s *stubAdapter) FetchProfile(ctx context.Context, accessToken string) (*model.SocialProfile, error) {
	return &model.SocialProfile{ID: "p"}, nil
}

func (s *stubAdapter) Publish(ctx context.Context, content, accessToken string, mediaURLs []string) (string, error) {
	s.calls++
	s.lastContent = content
	if s.err != nil {
		return "", s.err
	}
	return s.id, nil
}

type stubAdapterSet map[model.Platform]*stubAdapter

func (s stubAdapterSet) Adapter(p model.Platform) social.Adapter {
	a, ok := s[p]
	if !ok {
		return nil
	}
	return a
}

func newPublishFixture(t *testing.T) (*fakePostRepo, *fakeAccountRepo, *fakeLogRepo, stubAdapterSet, IPublishUsecase) {
	t.Helper()
	posts := &fakePostRepo{post: &model.Post{
		ID:      "post-1",
		UserID:  "user-1",
		Content: "release day",
		Status:  model.PostStatusDraft,
	}}
	accounts := newFakeAccountRepo()
	logs := &fakeLogRepo{}
	adapters := stubAdapterSet{
		model.PlatformLinkedIn: {platform: model.PlatformLinkedIn, id: "li-1"},
		model.PlatformTwitter:  {platform: model.PlatformTwitter, id: "tw-1"},
		model.PlatformFacebook: {platform: model.PlatformFacebook, id: "fb-1"},
	}
	accountUC := NewAccountUsecase(accounts, &fakeRefresher{})
	uc := NewPublishUsecase(posts, accounts, accountUC, logs, nil, adapters, nil, nil, nil, time.Second)
	return posts, accounts, logs, adapters, uc
}

func TestPublishPost_AllSucceed(t *testing.T) {
	posts, accounts, logs, _, uc := newPublishFixture(t)
	accounts.put(connectedAccount(model.PlatformLinkedIn, time.Hour))
	accounts.put(connectedAccount(model.PlatformTwitter, time.Hour))

	summary, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn, model.PlatformTwitter})
	require.NoError(t, err)

	assert.Equal(t, model.PostStatusPublished, summary.Status)
	require.Len(t, summary.Results, 2)
	for _, r := range summary.Results {
		assert.True(t, r.Success)
		assert.NotEmpty(t, r.PlatformPostID)
	}

	require.Len(t, posts.statusUpdates, 1)
	assert.Equal(t, model.PostStatusPublished, posts.statusUpdates[0].status)
	assert.NotNil(t, posts.statusUpdates[0].publishedAt)
	assert.Len(t, logs.inserted, 2)
}

func TestPublishPost_PartialFailure(t *testing.T) {
	posts, accounts, logs, adapters, uc := newPublishFixture(t)
	accounts.put(connectedAccount(model.PlatformLinkedIn, time.Hour))
	accounts.put(connectedAccount(model.PlatformTwitter, time.Hour))
	accounts.put(connectedAccount(model.PlatformFacebook, time.Hour))
	adapters[model.PlatformTwitter].err = &model.PlatformAPIError{
		Platform: model.PlatformTwitter, Status: 403, Body: `{"detail":"forbidden"}`,
	}

	summary, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn, model.PlatformTwitter, model.PlatformFacebook})
	require.NoError(t, err)

	assert.Equal(t, model.PostStatusPartiallyPublished, summary.Status)
	require.Len(t, summary.Results, 3)

	byPlatform := map[model.Platform]model.PublishResult{}
	for _, r := range summary.Results {
		byPlatform[r.Platform] = r
	}
	assert.True(t, byPlatform[model.PlatformLinkedIn].Success)
	assert.True(t, byPlatform[model.PlatformFacebook].Success)
	assert.False(t, byPlatform[model.PlatformTwitter].Success)
	assert.Contains(t, byPlatform[model.PlatformTwitter].Error, "forbidden")

	// One log row per platform, and the aggregate still gets a publish time.
	assert.Len(t, logs.inserted, 3)
	require.Len(t, posts.statusUpdates, 1)
	assert.NotNil(t, posts.statusUpdates[0].publishedAt)
}

func TestPublishPost_AllFail(t *testing.T) {
	posts, _, logs, _, uc := newPublishFixture(t)
	// No connected accounts at all.

	summary, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn, model.PlatformTwitter})
	require.NoError(t, err)

	assert.Equal(t, model.PostStatusFailed, summary.Status)
	for _, r := range summary.Results {
		assert.False(t, r.Success)
		assert.Contains(t, r.Error, "no connected account")
	}

	require.Len(t, posts.statusUpdates, 1)
	assert.Equal(t, model.PostStatusFailed, posts.statusUpdates[0].status)
	assert.Nil(t, posts.statusUpdates[0].publishedAt)

	// Failures still get their log rows.
	require.Len(t, logs.inserted, 2)
	for _, l := range logs.inserted {
		assert.Equal(t, "failed", l.Status)
		require.NotNil(t, l.ErrorMessage)
	}
}

// One platform exploding must not stop the fan-out to the others.
func TestPublishPost_FailureIsolation(t *testing.T) {
	_, accounts, _, adapters, uc := newPublishFixture(t)
	accounts.put(connectedAccount(model.PlatformTwitter, time.Hour))
	accounts.put(connectedAccount(model.PlatformFacebook, time.Hour))
	adapters[model.PlatformTwitter].err = errors.New("connection reset")

	summary, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformTwitter, model.PlatformFacebook})
	require.NoError(t, err)

	assert.Equal(t, 1, adapters[model.PlatformFacebook].calls)
	assert.Equal(t, model.PostStatusPartiallyPublished, summary.Status)
}

func TestPublishPost_NotFound(t *testing.T) {
	_, _, _, _, uc := newPublishFixture(t)
	_, err := uc.PublishPost(context.Background(), "user-1", "missing",
		[]model.Platform{model.PlatformLinkedIn})
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestPublishPost_AlreadyPublished(t *testing.T) {
	posts, _, _, _, uc := newPublishFixture(t)
	posts.post.Status = model.PostStatusPublished

	_, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn})
	assert.ErrorIs(t, err, model.ErrPostAlreadyPublished)
}

func TestPublishPost_DefaultsToPostPlatforms(t *testing.T) {
	posts, accounts, _, adapters, uc := newPublishFixture(t)
	posts.post.Platforms = []string{"linkedin"}
	accounts.put(connectedAccount(model.PlatformLinkedIn, time.Hour))

	summary, err := uc.PublishPost(context.Background(), "user-1", "post-1", nil)
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, model.PlatformLinkedIn, summary.Results[0].Platform)
	assert.Equal(t, 1, adapters[model.PlatformLinkedIn].calls)
}

// Storage failures are the only errors that surface to the caller.
func TestPublishPost_LogInsertFailurePropagates(t *testing.T) {
	posts, accounts, logs, _, uc := newPublishFixture(t)
	accounts.put(connectedAccount(model.PlatformLinkedIn, time.Hour))
	logs.insertErr = errors.New("disk full")

	_, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording publish log")

	// The status update is still attempted.
	assert.Len(t, posts.statusUpdates, 1)
}

func TestPublishPost_StatusUpdateFailurePropagates(t *testing.T) {
	posts, accounts, logs, _, uc := newPublishFixture(t)
	accounts.put(connectedAccount(model.PlatformLinkedIn, time.Hour))
	posts.updateErr = errors.New("deadlock")

	_, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updating post status")

	// Log rows were written before the status update failed.
	assert.Len(t, logs.inserted, 1)
}

// A platform outside the configured allow-list fails in isolation without
// the adapter ever being called; the others still go out.
func TestPublishPost_AllowListFiltersPlatforms(t *testing.T) {
	posts, accounts, logs, adapters, _ := newPublishFixture(t)
	accounts.put(connectedAccount(model.PlatformLinkedIn, time.Hour))
	accounts.put(connectedAccount(model.PlatformTwitter, time.Hour))
	accountUC := NewAccountUsecase(accounts, &fakeRefresher{})
	uc := NewPublishUsecase(posts, accounts, accountUC, logs, nil, adapters,
		nil, nil, []model.Platform{model.PlatformLinkedIn}, time.Second)

	summary, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn, model.PlatformTwitter})
	require.NoError(t, err)

	assert.Equal(t, model.PostStatusPartiallyPublished, summary.Status)
	byPlatform := map[model.Platform]model.PublishResult{}
	for _, r := range summary.Results {
		byPlatform[r.Platform] = r
	}
	assert.True(t, byPlatform[model.PlatformLinkedIn].Success)
	assert.False(t, byPlatform[model.PlatformTwitter].Success)
	assert.Contains(t, byPlatform[model.PlatformTwitter].Error, "disabled by configuration")
	assert.Equal(t, 0, adapters[model.PlatformTwitter].calls)
	assert.Len(t, logs.inserted, 2)
}

func TestPublishPost_HashtagsAppended(t *testing.T) {
	posts, accounts, _, adapters, uc := newPublishFixture(t)
	posts.post.Hashtags = []string{"golang", "#release"}
	accounts.put(connectedAccount(model.PlatformLinkedIn, time.Hour))

	_, err := uc.PublishPost(context.Background(), "user-1", "post-1",
		[]model.Platform{model.PlatformLinkedIn})
	require.NoError(t, err)
	assert.Equal(t, "release day\n\n#golang #release", adapters[model.PlatformLinkedIn].lastContent)
}

func TestComposeContent_SkipsInlineDuplicates(t *testing.T) {
	post := &model.Post{Content: "ship it #golang", Hashtags: []string{"golang", "release"}}
	assert.Equal(t, "ship it #golang\n\n#release", composeContent(post))
}
