package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName        = "s2cr"
	defaultTimeout = 10 * time.Second
	maxPoolSize    = 50
)

// Config selects the deployment and database holding the account collections.
type Config struct {
	URI      string
	Database string
	// Timeout bounds server selection and the startup ping.
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(cfg.timeout()).
		SetConnectTimeout(cfg.timeout()).
		SetMaxPoolSize(maxPoolSize)
}

// Connect opens a client and checks the primary answers before returning the
// configured database. The client is disconnected again on any failure.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Database == "" {
		return nil, nil, errors.New("mongo: database name is required")
	}
	opts := clientOptions(cfg)
	if err := opts.Validate(); err != nil {
		return nil, nil, fmt.Errorf("mongo options: %w", err)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}

// Ping checks the primary behind db; it backs the readiness probe.
func Ping(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}
