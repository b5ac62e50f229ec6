package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"contentflow/domain/model"

	"github.com/google/go-querystring/query"
)

type FacebookAdapter struct {
	cfg    Config
	client *http.Client
}

func NewFacebookAdapter(cfg Config, client *http.Client) *FacebookAdapter {
	return &FacebookAdapter{cfg: cfg, client: client}
}

func (a *FacebookAdapter) Platform() model.Platform { return model.PlatformFacebook }

func (a *FacebookAdapter) FetchProfile(ctx context.Context, accessToken string) (*model.SocialProfile, error) {
	status, body, err := bearerGet(ctx, a.client, a.cfg.ProfileURL, accessToken)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &model.ProfileFetchError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var data struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	return &model.SocialProfile{
		ID:              data.ID,
		Username:        data.Name,
		DisplayName:     data.Name,
		ProfileImageURL: fmt.Sprintf("https://graph.facebook.com/%s/picture?type=large", data.ID),
		Email:           data.Email,
	}, nil
}

type facebookFeedForm struct {
	Message     string `url:"message"`
	AccessToken string `url:"access_token"`
}

// Publish posts to the user's first managed page, falling back to the user
// feed ("me") with the user token when no pages are available.
func (a *FacebookAdapter) Publish(ctx context.Context, content, accessToken string, mediaURLs []string) (string, error) {
	status, body, err := bearerGet(ctx, a.client, a.cfg.APIBaseURL+"/me/accounts", accessToken)
	if err != nil {
		return "", err
	}
	if !is2xx(status) {
		return "", &model.PlatformAPIError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var pages struct {
		Data []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &pages); err != nil {
		return "", err
	}
	pageID := "me"
	pageToken := accessToken
	if len(pages.Data) > 0 {
		pageID = pages.Data[0].ID
		if pages.Data[0].AccessToken != "" {
			pageToken = pages.Data[0].AccessToken
		}
	}

	form, err := query.Values(facebookFeedForm{Message: content, AccessToken: pageToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/feed", a.cfg.APIBaseURL, pageID), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, body, err = do(a.client, req)
	if err != nil {
		return "", err
	}
	if !is2xx(status) {
		return "", &model.PlatformAPIError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}
