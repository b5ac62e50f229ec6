package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"contentflow/domain/model"
	"contentflow/domain/repository"
)

// PublishAuditMongo mirrors publish attempts into a Mongo collection for
// ad-hoc querying. It is strictly best-effort; callers ignore its errors.
type PublishAuditMongo struct {
	collection *mongo.Collection
}

func NewPublishAuditMongo(client *mongo.Client, database string) repository.IPublishAudit {
	return &PublishAuditMongo{collection: client.Database(database).Collection("publish_audit")}
}

func (r *PublishAuditMongo) Record(ctx context.Context, log *model.PublishLog) error {
	doc := bson.M{
		"logId":       log.ID,
		"postId":      log.PostID,
		"platform":    string(log.Platform),
		"status":      log.Status,
		"publishedAt": log.PublishedAt,
		"recordedAt":  time.Now().UTC(),
	}
	if log.PlatformPostID != nil {
		doc["platformPostId"] = *log.PlatformPostID
	}
	if log.ErrorMessage != nil {
		doc["errorMessage"] = *log.ErrorMessage
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
