package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contentflow/domain/model"
	"contentflow/infrastructure/logger"
	"contentflow/usecase"
)

type IPublishHandler interface {
	Publish(c *gin.Context)
	History(c *gin.Context)
}

type publishHandler struct {
	publishUC usecase.IPublishUsecase
}

func NewPublishHandler(publishUC usecase.IPublishUsecase) IPublishHandler {
	return &publishHandler{publishUC: publishUC}
}

type reqPublish struct {
	Platforms []string `json:"platforms"`
}

// Publish triggers the fan-out for a post. Platforms may be omitted, in
// which case the post's own platform list is used.
func (h *publishHandler) Publish(c *gin.Context) {
	postID := c.Param("postId")
	userID := c.GetString("user_id")

	var req reqPublish
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	platforms := make([]model.Platform, 0, len(req.Platforms))
	for _, raw := range req.Platforms {
		p, err := model.ParsePlatform(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		platforms = append(platforms, p)
	}

	summary, err := h.publishUC.PublishPost(c.Request.Context(), userID, postID, platforms)
	switch {
	case errors.Is(err, model.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	case errors.Is(err, model.ErrPostAlreadyPublished):
		c.JSON(http.StatusBadRequest, gin.H{"error": "post already published"})
		return
	case err != nil:
		logger.GetLogger().WithFields(map[string]interface{}{
			"post_id": postID,
			"error":   err,
		}).Error("publish failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "publish failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": summary.Status != model.PostStatusFailed,
		"status":  summary.Status,
		"results": summary.Results,
	})
}

func (h *publishHandler) History(c *gin.Context) {
	postID := c.Param("postId")
	userID := c.GetString("user_id")

	logs, err := h.publishUC.PublishHistory(c.Request.Context(), userID, postID)
	if errors.Is(err, model.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetching publish history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
