package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"contentflow/domain/model"
)

type TikTokAdapter struct {
	cfg    Config
	client *http.Client
}

func NewTikTokAdapter(cfg Config, client *http.Client) *TikTokAdapter {
	return &TikTokAdapter{cfg: cfg, client: client}
}

func (a *TikTokAdapter) Platform() model.Platform { return model.PlatformTikTok }

func (a *TikTokAdapter) FetchProfile(ctx context.Context, accessToken string) (*model.SocialProfile, error) {
	url := a.cfg.ProfileURL + "?fields=open_id,display_name,avatar_url"
	status, body, err := bearerGet(ctx, a.client, url, accessToken)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &model.ProfileFetchError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var data struct {
		Data struct {
			User struct {
				OpenID      string `json:"open_id"`
				DisplayName string `json:"display_name"`
				AvatarURL   string `json:"avatar_url"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	return &model.SocialProfile{
		ID:              data.Data.User.OpenID,
		Username:        data.Data.User.DisplayName,
		DisplayName:     data.Data.User.DisplayName,
		ProfileImageURL: data.Data.User.AvatarURL,
	}, nil
}

// Publish is not implemented: TikTok's direct-post flow requires chunked
// video upload against the content-posting API, which is out of scope.
func (a *TikTokAdapter) Publish(ctx context.Context, content, accessToken string, mediaURLs []string) (string, error) {
	return "", fmt.Errorf("tiktok video publishing %w", model.ErrNotImplemented)
}
