package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

type PublishLogRepository struct {
	db *sql.DB
}

func NewPublishLogRepository(db *sql.DB) repository.IPublishLog {
	return &PublishLogRepository{db: db}
}

// Insert appends one attempt row. Rows are never updated or deleted.
func (r *PublishLogRepository) Insert(ctx context.Context, log *model.PublishLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO publish_logs (id, post_id, platform, status, platform_post_id, error_message, published_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		log.ID, log.PostID, string(log.Platform), log.Status,
		nullString(log.PlatformPostID), nullString(log.ErrorMessage), log.PublishedAt)
	return err
}

func (r *PublishLogRepository) ListByPost(ctx context.Context, postID string) ([]model.PublishLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, platform, status, platform_post_id, error_message, published_at FROM publish_logs WHERE post_id=$1 ORDER BY published_at`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.PublishLog
	for rows.Next() {
		var l model.PublishLog
		var platform string
		var platformPostID, errorMessage sql.NullString
		if err := rows.Scan(&l.ID, &l.PostID, &platform, &l.Status, &platformPostID, &errorMessage, &l.PublishedAt); err != nil {
			return nil, err
		}
		l.Platform = model.Platform(platform)
		if platformPostID.Valid {
			v := platformPostID.String
			l.PlatformPostID = &v
		}
		if errorMessage.Valid {
			v := errorMessage.String
			l.ErrorMessage = &v
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
