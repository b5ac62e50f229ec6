package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.IPost {
	return &PostRepository{db: db}
}

const postColumns = `id, user_id, title, content, platforms, hashtags, media_urls, scheduled_at, status, published_at, created_at, updated_at`

func (r *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	now := time.Now().UTC()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		post.ID, post.UserID, post.Title, post.Content,
		pq.Array(post.Platforms), pq.Array(post.Hashtags), pq.Array(post.MediaURLs),
		nullTime(post.ScheduledAt), post.Status, nullTime(post.PublishedAt),
		post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	post.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title=$1, content=$2, platforms=$3, hashtags=$4, media_urls=$5, scheduled_at=$6, status=$7, updated_at=$8 WHERE id=$9 AND user_id=$10`,
		post.Title, post.Content,
		pq.Array(post.Platforms), pq.Array(post.Hashtags), pq.Array(post.MediaURLs),
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

func (r *PostRepository) GetByID(ctx context.Context, id, userID string) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id=$1 AND user_id=$2`, id, userID)
	return scanPost(row)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) UpdateStatus(ctx context.Context, id, status string, publishedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET status=$1, published_at=$2, updated_at=$3 WHERE id=$4`,
		status, nullTime(publishedAt), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func scanPost(row rowScanner) (*model.Post, error) {
	p := &model.Post{}
	var scheduledAt, publishedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Content,
		pq.Array(&p.Platforms), pq.Array(&p.Hashtags), pq.Array(&p.MediaURLs),
		&scheduledAt, &p.Status, &publishedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
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
