package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contentflow/domain/model"
	"contentflow/usecase"
)

type IAccountHandler interface {
	List(c *gin.Context)
	Disconnect(c *gin.Context)
}

type accountHandler struct {
	accountUC usecase.IAccountUsecase
}

func NewAccountHandler(accountUC usecase.IAccountUsecase) IAccountHandler {
	return &accountHandler{accountUC: accountUC}
}

// connectedAccount is the redacted view returned to clients. Tokens never
// leave the server.
type connectedAccount struct {
	ID              string         `json:"id"`
	Platform        model.Platform `json:"platform"`
	Username        string         `json:"username"`
	DisplayName     string         `json:"displayName"`
	ProfileImageURL *string        `json:"profileImageUrl,omitempty"`
	IsActive        bool           `json:"isActive"`
	TokenExpiresAt  *time.Time     `json:"tokenExpiresAt,omitempty"`
	ConnectedAt     time.Time      `json:"connectedAt"`
}

func (h *accountHandler) List(c *gin.Context) {
	accounts, err := h.accountUC.ListAccounts(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing accounts failed"})
		return
	}
	out := make([]connectedAccount, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, connectedAccount{
			ID:              acc.ID,
			Platform:        acc.Platform,
			Username:        acc.Username,
			DisplayName:     acc.DisplayName,
			ProfileImageURL: acc.ProfileImageURL,
			IsActive:        acc.IsActive,
			TokenExpiresAt:  acc.TokenExpiresAt,
			ConnectedAt:     acc.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func (h *accountHandler) Disconnect(c *gin.Context) {
	platform, err := model.ParsePlatform(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err = h.accountUC.Disconnect(c.Request.Context(), c.GetString("user_id"), platform)
	if errors.Is(err, model.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no connected account for platform"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disconnecting account failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}
