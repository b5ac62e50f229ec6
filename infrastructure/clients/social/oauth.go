package social

import (
	"context"
	"errors"
	"net/http"
	"time"

	"contentflow/domain/model"

	"golang.org/x/oauth2"
)

// OAuthManager drives the authorization-code flow per platform: building
// authorization URLs, exchanging codes, refreshing tokens and fetching
// normalized profiles. Token grants go through golang.org/x/oauth2 with the
// registry's endpoints.
type OAuthManager struct {
	registry *Registry
	client   *http.Client
}

func NewOAuthManager(registry *Registry) *OAuthManager {
	return &OAuthManager{
		registry: registry,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateAuthURL builds the platform authorization URL carrying an opaque
// state token {platform, userId, returnUrl, csrfToken}. Platforms using PKCE
// get a S256 code challenge; the verifier rides inside the state so the
// callback can complete the exchange.
func (m *OAuthManager) GenerateAuthURL(platform model.Platform, userID, returnURL string) (string, error) {
	cfg := m.registry.Config(platform)
	st := &model.OAuthState{
		Platform:  platform,
		UserID:    userID,
		ReturnURL: returnURL,
		CSRFToken: newCSRFToken(),
	}
	var opts []oauth2.AuthCodeOption
	if cfg.UsesPKCE {
		verifier := oauth2.GenerateVerifier()
		st.CodeVerifier = verifier
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}
	encoded, err := EncodeState(st)
	if err != nil {
		return "", err
	}
	return m.oauth2Config(cfg).AuthCodeURL(encoded, opts...), nil
}

// ExchangeCode performs the authorization_code grant. Non-2xx responses fail
// with TokenExchangeError carrying the platform's raw error body.
func (m *OAuthManager) ExchangeCode(ctx context.Context, st *model.OAuthState, code string) (*model.TokenSet, error) {
	cfg := m.registry.Config(st.Platform)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.client)
	var opts []oauth2.AuthCodeOption
	if st.CodeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(st.CodeVerifier))
	}
	tok, err := m.oauth2Config(cfg).Exchange(ctx, code, opts...)
	if err != nil {
		return nil, &model.TokenExchangeError{Platform: st.Platform, Body: retrieveBody(err), Err: err}
	}
	return newTokenSet(tok), nil
}

// RefreshToken performs the refresh_token grant. Platforms that rotate the
// refresh token return the new one in the result; otherwise RefreshToken is
// empty and the caller retains the old value.
func (m *OAuthManager) RefreshToken(ctx context.Context, platform model.Platform, refreshToken string) (*model.TokenSet, error) {
	cfg := m.registry.Config(platform)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.client)
	src := m.oauth2Config(cfg).TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, &model.RefreshFailedError{Platform: platform, Body: retrieveBody(err), Err: err}
	}
	ts := newTokenSet(tok)
	if tok.RefreshToken == refreshToken {
		ts.RefreshToken = ""
	}
	return ts, nil
}

// FetchProfile dispatches to the platform adapter's profile mapping.
func (m *OAuthManager) FetchProfile(ctx context.Context, platform model.Platform, accessToken string) (*model.SocialProfile, error) {
	return m.registry.Adapter(platform).FetchProfile(ctx, accessToken)
}

func (m *OAuthManager) oauth2Config(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{cfg.Scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
	}
}

// newTokenSet maps an oauth2 token. A zero expiry means the platform never
// reported one and the token is treated as non-expiring.
func newTokenSet(tok *oauth2.Token) *model.TokenSet {
	ts := &model.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		ts.Expiry = &expiry
	}
	return ts
}

func retrieveBody(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return string(re.Body)
	}
	return err.Error()
}
