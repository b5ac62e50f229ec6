package repository

import (
	"context"

	"contentflow/domain/model"
)

// IPublishLog is the append-only audit trail; rows are inserted once and
// never updated.
type IPublishLog interface {
	Insert(ctx context.Context, entry *model.PublishLog) error
	ListByPost(ctx context.Context, postID string) ([]model.PublishLog, error)
}

// IPublishAudit mirrors publish log entries to a secondary sink. Failures
// are non-fatal; the primary log remains authoritative.
type IPublishAudit interface {
	Record(ctx context.Context, entry *model.PublishLog) error
}
