package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/domain/model"
)

func testRegistry(t *testing.T, tokenURL string) *Registry {
	t.Helper()
	return NewRegistryWithConfigs(map[model.Platform]Config{
		model.PlatformLinkedIn: {
			ClientID:     "li-client",
			ClientSecret: "li-secret",
			RedirectURI:  "http://localhost:10001/auth/linkedin/callback",
			Scope:        "openid profile email w_member_social",
			AuthURL:      "https://www.linkedin.com/oauth/v2/authorization",
			TokenURL:     tokenURL,
		},
		model.PlatformTwitter: {
			ClientID:    "tw-client",
			RedirectURI: "http://localhost:10001/auth/twitter/callback",
			Scope:       "tweet.read tweet.write users.read offline.access",
			AuthURL:     "https://twitter.com/i/oauth2/authorize",
			TokenURL:    tokenURL,
			UsesPKCE:    true,
		},
	})
}

func TestGenerateAuthURL(t *testing.T) {
	m := NewOAuthManager(testRegistry(t, "https://unused.example.com/token"))

	raw, err := m.GenerateAuthURL(model.PlatformLinkedIn, "user-1", "https://app.example.com/accounts")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "li-client", q.Get("client_id"))
	assert.Equal(t, "http://localhost:10001/auth/linkedin/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Contains(t, q.Get("scope"), "w_member_social")
	assert.Empty(t, q.Get("code_challenge"))

	st, err := ValidateState(q.Get("state"))
	require.NoError(t, err)
	assert.Equal(t, model.PlatformLinkedIn, st.Platform)
	assert.Equal(t, "user-1", st.UserID)
	assert.Equal(t, "https://app.example.com/accounts", st.ReturnURL)
	assert.NotEmpty(t, st.CSRFToken)
	assert.Empty(t, st.CodeVerifier)
}

func TestGenerateAuthURL_PKCE(t *testing.T) {
	m := NewOAuthManager(testRegistry(t, "https://unused.example.com/token"))

	raw, err := m.GenerateAuthURL(model.PlatformTwitter, "user-1", "")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))

	// The verifier must survive the redirect inside the state blob so the
	// callback can complete the exchange.
	st, err := ValidateState(q.Get("state"))
	require.NoError(t, err)
	assert.NotEmpty(t, st.CodeVerifier)
}

func TestExchangeCode(t *testing.T) {
	var gotVerifier string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "the-code", r.Form.Get("code"))
		gotVerifier = r.Form.Get("code_verifier")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","token_type":"bearer","expires_in":7200}`))
	}))
	defer srv.Close()

	m := NewOAuthManager(testRegistry(t, srv.URL))
	st := &model.OAuthState{
		Platform:     model.PlatformTwitter,
		UserID:       "user-1",
		CSRFToken:    "csrf",
		CodeVerifier: "the-verifier",
	}
	ts, err := m.ExchangeCode(context.Background(), st, "the-code")
	require.NoError(t, err)

	assert.Equal(t, "the-verifier", gotVerifier)
	assert.Equal(t, "at-1", ts.AccessToken)
	assert.Equal(t, "rt-1", ts.RefreshToken)
	require.NotNil(t, ts.Expiry)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), *ts.Expiry, time.Minute)
}

func TestExchangeCode_NoExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"bearer"}`))
	}))
	defer srv.Close()

	m := NewOAuthManager(testRegistry(t, srv.URL))
	st := &model.OAuthState{Platform: model.PlatformLinkedIn, UserID: "user-1", CSRFToken: "csrf"}
	ts, err := m.ExchangeCode(context.Background(), st, "the-code")
	require.NoError(t, err)

	// No expires_in means the token never triggers proactive refresh.
	assert.Nil(t, ts.Expiry)
	assert.Empty(t, ts.RefreshToken)
}

func TestExchangeCode_ErrorCarriesRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer srv.Close()

	m := NewOAuthManager(testRegistry(t, srv.URL))
	st := &model.OAuthState{Platform: model.PlatformLinkedIn, UserID: "user-1", CSRFToken: "csrf"}
	_, err := m.ExchangeCode(context.Background(), st, "stale-code")
	require.Error(t, err)

	var exchangeErr *model.TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, model.PlatformLinkedIn, exchangeErr.Platform)
	assert.Contains(t, exchangeErr.Body, "invalid_grant")
	assert.Contains(t, exchangeErr.Body, "code expired")
}

func TestRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "rt-old", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-2","refresh_token":"rt-new","token_type":"bearer","expires_in":7200}`))
	}))
	defer srv.Close()

	m := NewOAuthManager(testRegistry(t, srv.URL))
	ts, err := m.RefreshToken(context.Background(), model.PlatformTwitter, "rt-old")
	require.NoError(t, err)
	assert.Equal(t, "at-2", ts.AccessToken)
	assert.Equal(t, "rt-new", ts.RefreshToken)
}

func TestRefreshToken_NotRotated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-2","refresh_token":"rt-old","token_type":"bearer","expires_in":7200}`))
	}))
	defer srv.Close()

	m := NewOAuthManager(testRegistry(t, srv.URL))
	ts, err := m.RefreshToken(context.Background(), model.PlatformTwitter, "rt-old")
	require.NoError(t, err)

	// Unchanged refresh token comes back empty so the caller keeps the old one.
	assert.Empty(t, ts.RefreshToken)
}

func TestRefreshToken_ErrorCarriesRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_token","error_description":"refresh token revoked"}`))
	}))
	defer srv.Close()

	m := NewOAuthManager(testRegistry(t, srv.URL))
	_, err := m.RefreshToken(context.Background(), model.PlatformTwitter, "rt-revoked")
	require.Error(t, err)

	var refreshErr *model.RefreshFailedError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, model.PlatformTwitter, refreshErr.Platform)
	assert.Contains(t, refreshErr.Body, "refresh token revoked")
}
