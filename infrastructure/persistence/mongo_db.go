package persistence

import (
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoDb connects to the optional Mongo instance used as a secondary
// audit sink. Callers treat a connection failure as a degraded mode, not a
// startup error.
func NewMongoDb(host, port, user, password, name string) (*mongo.Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%s", host, port)
	if user != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%s", url.QueryEscape(user), url.QueryEscape(password), host, port)
	}
	if name != "" {
		uri = fmt.Sprintf("%s/%s?authSource=admin", uri, name)
	}
	return mongo.Connect(options.Client().ApplyURI(uri))
}
