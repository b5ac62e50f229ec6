package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

type IPostUsecase interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) (*model.Post, error)
	Get(ctx context.Context, id, userID string) (*model.Post, error)
	List(ctx context.Context, userID string) ([]model.Post, error)
	Delete(ctx context.Context, id, userID string) error
}

type postUsecase struct {
	posts repository.IPost
}

func NewPostUsecase(posts repository.IPost) IPostUsecase {
	return &postUsecase{posts: posts}
}

func (u *postUsecase) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	if err := validatePost(post); err != nil {
		return nil, err
	}
	post.Status = deriveStatus(post)
	return u.posts.Create(ctx, post)
}

func (u *postUsecase) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	if err := validatePost(post); err != nil {
		return nil, err
	}
	existing, err := u.posts.GetByID(ctx, post.ID, post.UserID)
	if err != nil {
		return nil, err
	}
	if existing.Status == model.PostStatusPublished || existing.Status == model.PostStatusPartiallyPublished {
		return nil, model.ErrPostAlreadyPublished
	}
	post.Status = deriveStatus(post)
	return u.posts.Update(ctx, post)
}

func (u *postUsecase) Get(ctx context.Context, id, userID string) (*model.Post, error) {
	return u.posts.GetByID(ctx, id, userID)
}

func (u *postUsecase) List(ctx context.Context, userID string) ([]model.Post, error) {
	return u.posts.ListByUser(ctx, userID)
}

func (u *postUsecase) Delete(ctx context.Context, id, userID string) error {
	return u.posts.Delete(ctx, id, userID)
}

func validatePost(post *model.Post) error {
	if strings.TrimSpace(post.Content) == "" {
		return errors.New("content required")
	}
	for _, raw := range post.Platforms {
		if _, err := model.ParsePlatform(raw); err != nil {
			return err
		}
	}
	return nil
}

func deriveStatus(post *model.Post) string {
	if post.ScheduledAt != nil && post.ScheduledAt.After(time.Now()) {
		return model.PostStatusScheduled
	}
	return model.PostStatusDraft
}
