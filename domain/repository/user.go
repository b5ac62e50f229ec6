package repository

import (
	"context"

	"contentflow/domain/model"
)

type IUser interface {
	GetById(ctx context.Context, id string) (model.User, error)
	GetByUserName(ctx context.Context, userName string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) error
}
