package model

import "time"

// PublishResult is the isolated outcome for one platform in one run.
type PublishResult struct {
	Platform       Platform  `json:"platform"`
	Success        bool      `json:"success"`
	PlatformPostID string    `json:"platformPostId,omitempty"`
	Error          string    `json:"error,omitempty"`
	PublishedAt    time.Time `json:"publishedAt"`
}

// PublishLog is the append-only audit row, one per (post, platform, attempt).
// Rows are never updated after insert.
type PublishLog struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	Platform       Platform  `json:"platform"`
	Status         string    `json:"status"` // success | failed
	PlatformPostID *string   `json:"platform_post_id,omitempty"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
}
