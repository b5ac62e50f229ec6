package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

// PostRepositoryMSSQL is the SQL Server implementation of IPost. Array-valued
// fields are stored as JSON text since SQL Server has no native array type.
type PostRepositoryMSSQL struct{ db *sql.DB }

func NewPostRepositoryMSSQL(db *sql.DB) repository.IPost {
	return &PostRepositoryMSSQL{db: db}
}

const postColumnsMSSQL = `id, user_id, title, content, platforms, hashtags, media_urls, scheduled_at, status, published_at, created_at, updated_at`

func (r *PostRepositoryMSSQL) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	now := time.Now().UTC()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dbo.[posts] (`+postColumnsMSSQL+`) VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9,@p10,@p11,@p12)`,
		post.ID, post.UserID, post.Title, post.Content,
		jsonArray(post.Platforms), jsonArray(post.Hashtags), jsonArray(post.MediaURLs),
		nullTime(post.ScheduledAt), post.Status, nullTime(post.PublishedAt),
		post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepositoryMSSQL) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	post.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[posts] SET title=@p1, content=@p2, platforms=@p3, hashtags=@p4, media_urls=@p5, scheduled_at=@p6, status=@p7, updated_at=@p8 WHERE id=@p9 AND user_id=@p10`,
		post.Title, post.Content,
		jsonArray(post.Platforms), jsonArray(post.Hashtags), jsonArray(post.MediaURLs),
		nullTime(post.ScheduledAt), post.Status, post.UpdatedAt,
		post.ID, post.UserID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, model.ErrPostNotFound
	}
	return post, nil
}

func (r *PostRepositoryMSSQL) GetByID(ctx context.Context, id, userID string) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumnsMSSQL+` FROM dbo.[posts] WHERE id=@p1 AND user_id=@p2`, id, userID)
	return scanPostMSSQL(row)
}

func (r *PostRepositoryMSSQL) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumnsMSSQL+` FROM dbo.[posts] WHERE user_id=@p1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPostMSSQL(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *PostRepositoryMSSQL) UpdateStatus(ctx context.Context, id, status string, publishedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[posts] SET status=@p1, published_at=@p2, updated_at=@p3 WHERE id=@p4`,
		status, nullTime(publishedAt), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *PostRepositoryMSSQL) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[posts] WHERE id=@p1 AND user_id=@p2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func scanPostMSSQL(row rowScanner) (*model.Post, error) {
	p := &model.Post{}
	var platforms, hashtags, mediaURLs string
	var scheduledAt, publishedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Content,
		&platforms, &hashtags, &mediaURLs,
		&scheduledAt, &p.Status, &publishedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(platforms), &p.Platforms); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(hashtags), &p.Hashtags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(mediaURLs), &p.MediaURLs); err != nil {
		return nil, err
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		p.ScheduledAt = &t
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	return p, nil
}

func jsonArray(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}
