package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

// PublishLogRepositoryMSSQL is the SQL Server implementation of IPublishLog.
type PublishLogRepositoryMSSQL struct{ db *sql.DB }

func NewPublishLogRepositoryMSSQL(db *sql.DB) repository.IPublishLog {
	return &PublishLogRepositoryMSSQL{db: db}
}

func (r *PublishLogRepositoryMSSQL) Insert(ctx context.Context, log *model.PublishLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dbo.[publish_logs] (id, post_id, platform, status, platform_post_id, error_message, published_at) VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7)`,
		log.ID, log.PostID, string(log.Platform), log.Status,
		nullString(log.PlatformPostID), nullString(log.ErrorMessage), log.PublishedAt)
	return err
}

func (r *PublishLogRepositoryMSSQL) ListByPost(ctx context.Context, postID string) ([]model.PublishLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, platform, status, platform_post_id, error_message, published_at FROM dbo.[publish_logs] WHERE post_id=@p1 ORDER BY published_at`, postID)
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
