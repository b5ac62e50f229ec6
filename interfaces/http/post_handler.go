package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contentflow/domain/model"
	"contentflow/infrastructure/logger"
	"contentflow/usecase"
)

type IPostHandler interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Delete(c *gin.Context)
}

type postHandler struct {
	postUC usecase.IPostUsecase
}

func NewPostHandler(postUC usecase.IPostUsecase) IPostHandler {
	return &postHandler{postUC: postUC}
}

func (h *postHandler) Create(c *gin.Context) {
	var post model.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post.UserID = c.GetString("user_id")

	created, err := h.postUC.Create(c.Request.Context(), &post)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *postHandler) Update(c *gin.Context) {
	var post model.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post.ID = c.Param("postId")
	post.UserID = c.GetString("user_id")

	updated, err := h.postUC.Update(c.Request.Context(), &post)
	switch {
	case errors.Is(err, model.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, model.ErrPostAlreadyPublished):
		c.JSON(http.StatusBadRequest, gin.H{"error": "published posts cannot be edited"})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, updated)
	}
}

func (h *postHandler) Get(c *gin.Context) {
	post, err := h.postUC.Get(c.Request.Context(), c.Param("postId"), c.GetString("user_id"))
	if errors.Is(err, model.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetching post failed"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) List(c *gin.Context) {
	posts, err := h.postUC.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing posts failed"})
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *postHandler) Delete(c *gin.Context) {
	err := h.postUC.Delete(c.Request.Context(), c.Param("postId"), c.GetString("user_id"))
	if errors.Is(err, model.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "deleting post failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
