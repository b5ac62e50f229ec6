package http

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"contentflow/domain/model"
	"contentflow/infrastructure/clients/social"
	"contentflow/infrastructure/configuration"
	"contentflow/infrastructure/logger"
	"contentflow/usecase"
)

type IOAuthHandler interface {
	Initiate(c *gin.Context)
	Callback(c *gin.Context)
}

type oauthHandler struct {
	oauth     *social.OAuthManager
	accountUC usecase.IAccountUsecase
}

func NewOAuthHandler(oauth *social.OAuthManager, accountUC usecase.IAccountUsecase) IOAuthHandler {
	return &oauthHandler{oauth: oauth, accountUC: accountUC}
}

// Initiate sends the browser to the platform's consent screen. The caller
// is already authenticated; their id travels inside the opaque state blob
// and comes back on the callback.
func (h *oauthHandler) Initiate(c *gin.Context) {
	platform, err := model.ParsePlatform(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString("user_id")
	returnURL := c.Query("returnUrl")
	if returnURL == "" {
		returnURL = configuration.C.App.FrontendURL + "/accounts"
	}

	authURL, err := h.oauth.GenerateAuthURL(platform, userID, returnURL)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"platform": platform,
			"error":    err,
		}).Error("building auth url failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "oauth not configured for platform"})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback handles the provider redirect. Every failure path lands the
// browser back on the frontend with an error query parameter rather than a
// bare JSON response.
func (h *oauthHandler) Callback(c *gin.Context) {
	lg := logger.GetLogger()
	fallback := configuration.C.App.FrontendURL + "/accounts"

	pathPlatform, err := model.ParsePlatform(c.Param("platform"))
	if err != nil {
		redirectWith(c, fallback, "error", "unsupported_platform")
		return
	}
	if denied := c.Query("error"); denied != "" {
		lg.WithFields(map[string]interface{}{
			"platform": pathPlatform,
			"reason":   denied,
		}).Warning("oauth consent denied")
		redirectWith(c, fallback, "error", denied)
		return
	}
	code := c.Query("code")
	stateParam := c.Query("state")
	if code == "" || stateParam == "" {
		redirectWith(c, fallback, "error", "missing_parameters")
		return
	}

	st, err := social.ValidateState(stateParam)
	if err != nil {
		lg.WithField("error", err).Warning("oauth state rejected")
		redirectWith(c, fallback, "error", "connection_failed")
		return
	}
	returnURL := st.ReturnURL
	if returnURL == "" {
		returnURL = fallback
	}
	if st.Platform != pathPlatform {
		lg.WithField("error", fmt.Errorf("state %s, path %s: %w",
			st.Platform, pathPlatform, model.ErrPlatformMismatch)).Warning("oauth state rejected")
		redirectWith(c, returnURL, "error", "connection_failed")
		return
	}

	ctx := c.Request.Context()
	tokens, err := h.oauth.ExchangeCode(ctx, st, code)
	if err != nil {
		lg.WithField("error", err).Error("token exchange failed")
		redirectWith(c, returnURL, "error", string(st.Platform)+"_connection_failed")
		return
	}
	profile, err := h.oauth.FetchProfile(ctx, st.Platform, tokens.AccessToken)
	if err != nil {
		lg.WithField("error", err).Error("profile fetch failed")
		redirectWith(c, returnURL, "error", string(st.Platform)+"_connection_failed")
		return
	}
	if _, err := h.accountUC.SaveConnection(ctx, st.UserID, st.Platform, profile, tokens); err != nil {
		lg.WithField("error", err).Error("saving social account failed")
		redirectWith(c, returnURL, "error", "connection_failed")
		return
	}

	redirectWith(c, returnURL, "success", string(st.Platform)+"_connected")
}

// redirectWith appends key=value to the target URL's query string and
// issues a 302.
func redirectWith(c *gin.Context, target, key, value string) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, u.String())
}
