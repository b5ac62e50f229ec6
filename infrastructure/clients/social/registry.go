package social

import (
	"net/http"
	"time"

	"contentflow/domain/model"
	"contentflow/infrastructure/configuration"
)

// Config is one platform's immutable configuration bundle: OAuth client
// credentials, endpoints, and advisory rate ceilings. Endpoints are platform
// contracts; credentials come from configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scope        string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	ProfileURL   string
	PostsPerDay  int
	PostsPerHour int
	UsesPKCE     bool
}

// Registry maps platform identifiers to their configuration and adapter.
// It is built once at startup over the closed platform set; lookups never
// fail for supported platforms.
type Registry struct {
	configs  map[model.Platform]Config
	adapters map[model.Platform]Adapter
}

// NewRegistry builds the registry with production endpoints and the client
// credentials from configuration.
func NewRegistry(creds configuration.OAuth) *Registry {
	return NewRegistryWithConfigs(defaultConfigs(creds))
}

// NewRegistryWithConfigs builds a registry from explicit per-platform configs.
// Tests use this to point adapters at stub servers.
func NewRegistryWithConfigs(configs map[model.Platform]Config) *Registry {
	client := &http.Client{Timeout: 30 * time.Second}
	r := &Registry{
		configs:  configs,
		adapters: make(map[model.Platform]Adapter, len(configs)),
	}
	for platform, cfg := range configs {
		switch platform {
		case model.PlatformLinkedIn:
			r.adapters[platform] = NewLinkedInAdapter(cfg, client)
		case model.PlatformTwitter:
			r.adapters[platform] = NewTwitterAdapter(cfg, client)
		case model.PlatformFacebook:
			r.adapters[platform] = NewFacebookAdapter(cfg, client)
		case model.PlatformInstagram:
			r.adapters[platform] = NewInstagramAdapter(cfg, client)
		case model.PlatformTikTok:
			r.adapters[platform] = NewTikTokAdapter(cfg, client)
		}
	}
	return r
}

func (r *Registry) Config(platform model.Platform) Config {
	return r.configs[platform]
}

func (r *Registry) Adapter(platform model.Platform) Adapter {
	return r.adapters[platform]
}

func (r *Registry) Platforms() []model.Platform {
	out := make([]model.Platform, 0, len(r.configs))
	for _, p := range model.SupportedPlatforms() {
		if _, ok := r.configs[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfigs(creds configuration.OAuth) map[model.Platform]Config {
	return map[model.Platform]Config{
		model.PlatformLinkedIn: {
			ClientID:     creds.Linkedin.ClientID,
			ClientSecret: creds.Linkedin.ClientSecret,
			RedirectURI:  creds.Linkedin.RedirectURI,
			Scope:        "openid profile email w_member_social",
			AuthURL:      "https://www.linkedin.com/oauth/v2/authorization",
			TokenURL:     "https://www.linkedin.com/oauth/v2/accessToken",
			APIBaseURL:   "https://api.linkedin.com/v2",
			ProfileURL:   "https://api.linkedin.com/v2/people/~",
			PostsPerDay:  25,
			PostsPerHour: 5,
		},
		model.PlatformTwitter: {
			ClientID:     creds.Twitter.ClientID,
			ClientSecret: creds.Twitter.ClientSecret,
			RedirectURI:  creds.Twitter.RedirectURI,
			Scope:        "tweet.read tweet.write users.read offline.access",
			AuthURL:      "https://twitter.com/i/oauth2/authorize",
			TokenURL:     "https://api.twitter.com/2/oauth2/token",
			APIBaseURL:   "https://api.twitter.com/2",
			ProfileURL:   "https://api.twitter.com/2/users/me",
			PostsPerDay:  300,
			PostsPerHour: 50,
			UsesPKCE:     true,
		},
		model.PlatformFacebook: {
			ClientID:     creds.Facebook.ClientID,
			ClientSecret: creds.Facebook.ClientSecret,
			RedirectURI:  creds.Facebook.RedirectURI,
			Scope:        "pages_manage_posts,pages_read_engagement,pages_show_list,publish_to_groups",
			AuthURL:      "https://www.facebook.com/v18.0/dialog/oauth",
			TokenURL:     "https://graph.facebook.com/v18.0/oauth/access_token",
			APIBaseURL:   "https://graph.facebook.com/v18.0",
			ProfileURL:   "https://graph.facebook.com/v18.0/me",
			PostsPerDay:  200,
			PostsPerHour: 25,
		},
		model.PlatformInstagram: {
			ClientID:     creds.Instagram.ClientID,
			ClientSecret: creds.Instagram.ClientSecret,
			RedirectURI:  creds.Instagram.RedirectURI,
			Scope:        "user_profile,user_media",
			AuthURL:      "https://api.instagram.com/oauth/authorize",
			TokenURL:     "https://api.instagram.com/oauth/access_token",
			APIBaseURL:   "https://graph.instagram.com",
			ProfileURL:   "https://graph.instagram.com/me",
			PostsPerDay:  25,
			PostsPerHour: 5,
		},
		model.PlatformTikTok: {
			ClientID:     creds.Tiktok.ClientID,
			ClientSecret: creds.Tiktok.ClientSecret,
			RedirectURI:  creds.Tiktok.RedirectURI,
			Scope:        "user.info.basic,video.publish",
			AuthURL:      "https://www.tiktok.com/v2/auth/authorize/",
			TokenURL:     "https://open.tiktokapis.com/v2/oauth/token/",
			APIBaseURL:   "https://open.tiktokapis.com/v2",
			ProfileURL:   "https://open.tiktokapis.com/v2/user/info/",
			PostsPerDay:  15,
			PostsPerHour: 5,
		},
	}
}
