package model

import "time"

// SocialAccount stores one user's connection to one platform. At most one row
// exists per (user_id, platform); reconnecting upserts in place.
type SocialAccount struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Platform        Platform   `json:"platform"`
	PlatformUserID  string     `json:"platform_user_id"`
	Username        string     `json:"username"`
	DisplayName     string     `json:"display_name"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	AccessToken     string     `json:"-"`
	RefreshToken    *string    `json:"-"`
	TokenExpiresAt  *time.Time `json:"token_expires_at,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SocialProfile is the normalized view of a platform profile response.
type SocialProfile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Email           string `json:"email,omitempty"`
}

// TokenSet carries the outcome of an authorization-code or refresh grant.
// Expiry is nil when the platform returned no expires_in.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       *time.Time
}

// OAuthState is the opaque token round-tripped through the authorization
// redirect. It is never persisted; the callback decodes it exactly once.
// CodeVerifier is only set for platforms using PKCE so the callback can
// complete the exchange with the verifier that produced the challenge.
type OAuthState struct {
	Platform     Platform `json:"platform"`
	UserID       string   `json:"userId"`
	ReturnURL    string   `json:"returnUrl,omitempty"`
	CSRFToken    string   `json:"csrfToken"`
	CodeVerifier string   `json:"codeVerifier,omitempty"`
}
