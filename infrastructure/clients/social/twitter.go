package social

import (
	"context"
	"encoding/json"
	"net/http"

	"contentflow/domain/model"
	"contentflow/infrastructure/logger"
)

type TwitterAdapter struct {
	cfg    Config
	client *http.Client
}

func NewTwitterAdapter(cfg Config, client *http.Client) *TwitterAdapter {
	return &TwitterAdapter{cfg: cfg, client: client}
}

func (a *TwitterAdapter) Platform() model.Platform { return model.PlatformTwitter }

func (a *TwitterAdapter) FetchProfile(ctx context.Context, accessToken string) (*model.SocialProfile, error) {
	status, body, err := bearerGet(ctx, a.client, a.cfg.ProfileURL, accessToken)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &model.ProfileFetchError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var data struct {
		Data struct {
			ID              string `json:"id"`
			Username        string `json:"username"`
			Name            string `json:"name"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	return &model.SocialProfile{
		ID:              data.Data.ID,
		Username:        data.Data.Username,
		DisplayName:     data.Data.Name,
		ProfileImageURL: data.Data.ProfileImageURL,
	}, nil
}

// Publish creates a tweet. Media upload is a known gap: attachments are
// accepted as input but not uploaded, so posts with media degrade to
// text-only and the degradation is logged.
func (a *TwitterAdapter) Publish(ctx context.Context, content, accessToken string, mediaURLs []string) (string, error) {
	if len(mediaURLs) > 0 {
		logger.GetLogger().WithField("media_count", len(mediaURLs)).
			Warn("twitter media upload not implemented; publishing text only")
	}
	tweet := map[string]interface{}{"text": content}
	status, body, err := bearerPostJSON(ctx, a.client, a.cfg.APIBaseURL+"/tweets", accessToken, tweet, nil)
	if err != nil {
		return "", err
	}
	if !is2xx(status) {
		return "", &model.PlatformAPIError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	return result.Data.ID, nil
}
