package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"contentflow/domain/model"
)

type LinkedInAdapter struct {
	cfg    Config
	client *http.Client
}

func NewLinkedInAdapter(cfg Config, client *http.Client) *LinkedInAdapter {
	return &LinkedInAdapter{cfg: cfg, client: client}
}

func (a *LinkedInAdapter) Platform() model.Platform { return model.PlatformLinkedIn }

func (a *LinkedInAdapter) FetchProfile(ctx context.Context, accessToken string) (*model.SocialProfile, error) {
	status, body, err := bearerGet(ctx, a.client, a.cfg.ProfileURL, accessToken)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &model.ProfileFetchError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var data struct {
		ID                 string `json:"id"`
		LocalizedFirstName string `json:"localizedFirstName"`
		LocalizedLastName  string `json:"localizedLastName"`
		ProfilePicture     struct {
			DisplayImage struct {
				Elements []struct {
					Identifiers []struct {
						Identifier string `json:"identifier"`
					} `json:"identifiers"`
				} `json:"elements"`
			} `json:"displayImage~"`
		} `json:"profilePicture"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(data.LocalizedFirstName + " " + data.LocalizedLastName)
	profile := &model.SocialProfile{
		ID:          data.ID,
		Username:    name,
		DisplayName: name,
	}
	if els := data.ProfilePicture.DisplayImage.Elements; len(els) > 0 && len(els[0].Identifiers) > 0 {
		profile.ProfileImageURL = els[0].Identifiers[0].Identifier
	}
	return profile, nil
}

// Publish creates a UGC post. LinkedIn requires the author URN, so the
// profile is fetched first as a precondition call.
func (a *LinkedInAdapter) Publish(ctx context.Context, content, accessToken string, mediaURLs []string) (string, error) {
	status, body, err := bearerGet(ctx, a.client, a.cfg.APIBaseURL+"/people/~", accessToken)
	if err != nil {
		return "", err
	}
	if !is2xx(status) {
		return "", &model.ProfileFetchError{Platform: a.Platform(), Status: status, Body: string(body)}
	}
	var profile struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", err
	}
	authorURN := fmt.Sprintf("urn:li:person:%s", profile.ID)

	shareMediaCategory := "NONE"
	var media []linkedinMedia
	if len(mediaURLs) > 0 {
		shareMediaCategory = "IMAGE"
		for _, url := range mediaURLs {
			media = append(media, linkedinMedia{
				Status:      "READY",
				Description: linkedinText{Text: "Shared via ContentFlow"},
				Media:       url,
				Title:       linkedinText{Text: "ContentFlow Post"},
			})
		}
	}
	post := map[string]interface{}{
		"author":         authorURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": linkedinShareContent{
				ShareCommentary:    linkedinText{Text: content},
				ShareMediaCategory: shareMediaCategory,
				Media:              media,
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	status, body, err = bearerPostJSON(ctx, a.client, a.cfg.APIBaseURL+"/ugcPosts", accessToken, post,
		map[string]string{"X-Restli-Protocol-Version": "2.0.0"})
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

type linkedinText struct {
	Text string `json:"text"`
}

type linkedinMedia struct {
	Status      string       `json:"status"`
	Description linkedinText `json:"description"`
	Media       string       `json:"media"`
	Title       linkedinText `json:"title"`
}

type linkedinShareContent struct {
	ShareCommentary    linkedinText    `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
	Media              []linkedinMedia `json:"media,omitempty"`
}
