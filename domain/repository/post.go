package repository

import (
	"context"
	"time"

	"contentflow/domain/model"
)

type IPost interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id, userID string) (*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]model.Post, error)
	UpdateStatus(ctx context.Context, id, status string, publishedAt *time.Time) error
	Delete(ctx context.Context, id, userID string) error
}
