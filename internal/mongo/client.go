// Package mongo bootstraps the MongoDB client used by the Mongo store.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrSnakeDoc/geomarket/internal/bootstrap"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// ConnectOptions defines the Mongo client and its start-up retry behavior.
type ConnectOptions struct {
	URI      string // ex: "mongodb://localhost:27017"
	Database string // ex: "geomarket"

	Retry bootstrap.RetryPolicy
}

// New connects to MongoDB and blocks until the primary answers a ping or the
// retry policy gives up. The returned database handle is ready for use.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*mongo.Client, *mongo.Database, error) {
	if opts.Database == "" {
		return nil, nil, fmt.Errorf("mongo database name is required")
	}
	if err := opts.Retry.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect error: %w", err)
	}

	target := bootstrap.Target{Backend: "mongo", Addr: redactURI(opts.URI)}
	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}

	if err := bootstrap.WaitReady(ctx, target, opts.Retry, ping, log); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(opts.Database), nil
}

// redactURI drops credentials from a connection string before logging it.
func redactURI(uri string) string {
	opts := options.Client().ApplyURI(uri)
	if len(opts.Hosts) == 0 {
		return "mongodb"
	}
	return fmt.Sprintf("%v", opts.Hosts)
}
