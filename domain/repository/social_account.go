package repository

import (
	"context"
	"time"

	"contentflow/domain/model"
)

// ISocialAccount persists per-user platform connections. The publishing
// subsystem only reads and rotates tokens; it never changes ownership.
type ISocialAccount interface {
	Upsert(ctx context.Context, account *model.SocialAccount) (*model.SocialAccount, error)
	GetByID(ctx context.Context, id string) (*model.SocialAccount, error)
	GetActive(ctx context.Context, userID string, platform model.Platform) (*model.SocialAccount, error)
	ListByUser(ctx context.Context, userID string) ([]model.SocialAccount, error)
	UpdateTokens(ctx context.Context, id, accessToken string, refreshToken *string, expiresAt *time.Time) error
	Deactivate(ctx context.Context, userID string, platform model.Platform) error
}
