package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"

	"contentflow/domain/model"
	"contentflow/infrastructure/logger"
)

// IPublishEvents emits post lifecycle events for downstream consumers
// (analytics, notification fan-out). Emission is best-effort.
type IPublishEvents interface {
	PostPublished(ctx context.Context, postID, userID, status string, results []model.PublishResult) error
}

type PublishEvents struct {
	client *pubsub.Client
	topic  string
}

func NewPublishEvents(client *pubsub.Client, topic string) IPublishEvents {
	return &PublishEvents{client: client, topic: topic}
}

type postPublishedEvent struct {
	PostID      string                `json:"postId"`
	UserID      string                `json:"userId"`
	Status      string                `json:"status"`
	Results     []model.PublishResult `json:"results"`
	PublishedAt time.Time             `json:"publishedAt"`
}

func (p *PublishEvents) PostPublished(ctx context.Context, postID, userID, status string, results []model.PublishResult) error {
	payload, err := json.Marshal(postPublishedEvent{
		PostID:      postID,
		UserID:      userID,
		Status:      status,
		Results:     results,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	topic := p.client.Topic(p.topic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if topic, err = p.client.CreateTopic(ctx, p.topic); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server ID", serverID).Info("post.published event emitted")
	return nil
}
