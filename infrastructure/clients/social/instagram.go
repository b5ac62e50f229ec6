package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"contentflow/domain/model"
)

type InstagramAdapter struct {
	cfg    Config
	client *http.Client
}

func NewInstagramAdapter(cfg Config, client *http.Client) *InstagramAdapter {
	return &InstagramAdapter{cfg: cfg, client: client}
}

func (a *InstagramAdapter) Platform() model.Platform { return model.PlatformInstagram }

// FetchProfile maps username twice: Instagram has no distinct display name.
func (a *InstagramAdapter) FetchProfile(ctx context.Context, accessToken string) (*model.SocialProfile, error) {
	status, body, err := bearerGet(ctx, a.client, a.cfg.ProfileURL+"?fields=id,username", accessToken)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &model.ProfileFetchError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var data struct {
		ID                string `json:"id"`
		Username          string `json:"username"`
		ProfilePictureURL string `json:"profile_picture_url"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	return &model.SocialProfile{
		ID:              data.ID,
		Username:        data.Username,
		DisplayName:     data.Username,
		ProfileImageURL: data.ProfilePictureURL,
	}, nil
}

// Publish rejects media-less posts before any network call; Instagram
// requires at least one media attachment. The media container upload flow
// is a separate multi-step API that is not implemented yet, so media posts
// fail as not implemented.
func (a *InstagramAdapter) Publish(ctx context.Context, content, accessToken string, mediaURLs []string) (string, error) {
	if len(mediaURLs) == 0 {
		return "", fmt.Errorf("instagram %w", model.ErrMediaRequired)
	}
	return "", fmt.Errorf("instagram media container upload %w", model.ErrNotImplemented)
}
