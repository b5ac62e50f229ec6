package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contentflow/domain/model"
	"contentflow/domain/repository"
	"contentflow/infrastructure/cache"
	"contentflow/infrastructure/clients/social"
	"contentflow/infrastructure/logger"
	"contentflow/infrastructure/pubsub"
)

// PublishSummary is the outcome of one publish request: the post's new
// aggregate status and one result per requested platform.
type PublishSummary struct {
	Status  string                `json:"status"`
	Results []model.PublishResult `json:"results"`
}

type IPublishUsecase interface {
	PublishPost(ctx context.Context, userID, postID string, platforms []model.Platform) (*PublishSummary, error)
	PublishHistory(ctx context.Context, userID, postID string) ([]model.PublishLog, error)
}

type publishUsecase struct {
	posts          repository.IPost
	accounts       repository.ISocialAccount
	accountUC      IAccountUsecase
	logs           repository.IPublishLog
	audit          repository.IPublishAudit
	adapters       social.AdapterSet
	limiter        cache.IRateLimiter
	events         pubsub.IPublishEvents
	allowed        map[model.Platform]bool
	adapterTimeout time.Duration
}

// NewPublishUsecase wires the publish orchestrator. audit, limiter and
// events may be nil; the corresponding concern is skipped. An empty
// allowedPlatforms list permits every supported platform.
func NewPublishUsecase(
	posts repository.IPost,
	accounts repository.ISocialAccount,
	accountUC IAccountUsecase,
	logs repository.IPublishLog,
	audit repository.IPublishAudit,
	adapters social.AdapterSet,
	limiter cache.IRateLimiter,
	events pubsub.IPublishEvents,
	allowedPlatforms []model.Platform,
	adapterTimeout time.Duration,
) IPublishUsecase {
	if adapterTimeout <= 0 {
		adapterTimeout = 15 * time.Second
	}
	var allowed map[model.Platform]bool
	if len(allowedPlatforms) > 0 {
		allowed = make(map[model.Platform]bool, len(allowedPlatforms))
		for _, p := range allowedPlatforms {
			allowed[p] = true
		}
	}
	return &publishUsecase{
		posts:          posts,
		accounts:       accounts,
		accountUC:      accountUC,
		logs:           logs,
		audit:          audit,
		adapters:       adapters,
		limiter:        limiter,
		events:         events,
		allowed:        allowed,
		adapterTimeout: adapterTimeout,
	}
}

// PublishPost fans the post out to each requested platform in turn. One
// platform failing never aborts the others; every platform gets exactly one
// result and one log row. Only storage failures surface as the returned
// error.
func (u *publishUsecase) PublishPost(ctx context.Context, userID, postID string, platforms []model.Platform) (*PublishSummary, error) {
	post, err := u.posts.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.Status == model.PostStatusPublished {
		return nil, model.ErrPostAlreadyPublished
	}
	if len(platforms) == 0 {
		for _, raw := range post.Platforms {
			p, err := model.ParsePlatform(raw)
			if err != nil {
				return nil, err
			}
			platforms = append(platforms, p)
		}
	}
	if len(platforms) == 0 {
		return nil, errors.New("no platforms requested")
	}

	content := composeContent(post)
	results := make([]model.PublishResult, 0, len(platforms))
	for _, platform := range platforms {
		results = append(results, u.publishToPlatform(ctx, userID, platform, content, post.MediaURLs))
	}

	now := time.Now().UTC()
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	status := model.PostStatusFailed
	var publishedAt *time.Time
	switch {
	case succeeded == len(results):
		status = model.PostStatusPublished
	case succeeded > 0:
		status = model.PostStatusPartiallyPublished
	}
	if succeeded > 0 {
		publishedAt = &now
	}

	// Log rows and the status update are both always attempted; a failure
	// in one does not skip the other.
	var storeErr error
	for _, r := range results {
		log := buildPublishLog(postID, r)
		if err := u.logs.Insert(ctx, log); err != nil && storeErr == nil {
			storeErr = fmt.Errorf("recording publish log: %w", err)
		}
		if u.audit != nil {
			if err := u.audit.Record(ctx, log); err != nil {
				logger.GetLogger().WithField("error", err).Warning("publish audit mirror failed")
			}
		}
	}
	if err := u.posts.UpdateStatus(ctx, postID, status, publishedAt); err != nil {
		storeErr = fmt.Errorf("updating post status: %w", err)
	}
	if storeErr != nil {
		return nil, storeErr
	}

	if u.events != nil {
		if err := u.events.PostPublished(ctx, postID, userID, status, results); err != nil {
			logger.GetLogger().WithField("error", err).Warning("post.published event failed")
		}
	}
	return &PublishSummary{Status: status, Results: results}, nil
}

// publishToPlatform runs the whole per-platform pipeline inside one failure
// boundary: account lookup, token freshness, rate check, adapter call.
func (u *publishUsecase) publishToPlatform(ctx context.Context, userID string, platform model.Platform, content string, mediaURLs []string) model.PublishResult {
	result := model.PublishResult{Platform: platform, PublishedAt: time.Now().UTC()}
	fail := func(err error) model.PublishResult {
		logger.GetLogger().WithFields(map[string]interface{}{
			"user_id":  userID,
			"platform": platform,
			"error":    err,
		}).Error("platform publish failed")
		result.Error = err.Error()
		return result
	}

	if u.allowed != nil && !u.allowed[platform] {
		return fail(fmt.Errorf("%s: publishing disabled by configuration", platform))
	}

	account, err := u.accounts.GetActive(ctx, userID, platform)
	if errors.Is(err, model.ErrAccountNotFound) {
		return fail(fmt.Errorf("%s: %w", platform, model.ErrNoConnectedAccount))
	}
	if err != nil {
		return fail(err)
	}

	token, err := u.accountUC.FreshAccessToken(ctx, account)
	if err != nil {
		return fail(err)
	}

	if u.limiter != nil {
		allowed, err := u.limiter.Allow(ctx, userID, platform)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warning("rate limiter unavailable")
		} else if !allowed {
			logger.GetLogger().WithFields(map[string]interface{}{
				"user_id":  userID,
				"platform": platform,
			}).Warning("posting ceiling exceeded, publishing anyway")
		}
	}

	adapter := u.adapters.Adapter(platform)
	if adapter == nil {
		return fail(fmt.Errorf("%s: %w", platform, model.ErrNotImplemented))
	}
	callCtx, cancel := context.WithTimeout(ctx, u.adapterTimeout)
	defer cancel()
	platformPostID, err := adapter.Publish(callCtx, content, token, mediaURLs)
	if err != nil {
		return fail(err)
	}

	result.Success = true
	result.PlatformPostID = platformPostID
	result.PublishedAt = time.Now().UTC()
	return result
}

func (u *publishUsecase) PublishHistory(ctx context.Context, userID, postID string) ([]model.PublishLog, error) {
	if _, err := u.posts.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}
	return u.logs.ListByPost(ctx, postID)
}

// composeContent appends the post's hashtags to the body, skipping any the
// author already typed inline.
func composeContent(post *model.Post) string {
	content := post.Content
	var tags []string
	for _, tag := range post.Hashtags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" || strings.Contains(content, "#"+tag) {
			continue
		}
		tags = append(tags, "#"+tag)
	}
	if len(tags) > 0 {
		content = content + "\n\n" + strings.Join(tags, " ")
	}
	return content
}

func buildPublishLog(postID string, r model.PublishResult) *model.PublishLog {
	log := &model.PublishLog{
		PostID:      postID,
		Platform:    r.Platform,
		Status:      "failed",
		PublishedAt: r.PublishedAt,
	}
	if r.Success {
		log.Status = "success"
		if r.PlatformPostID != "" {
			v := r.PlatformPostID
			log.PlatformPostID = &v
		}
	} else if r.Error != "" {
		v := r.Error
		log.ErrorMessage = &v
	}
	return log
}
