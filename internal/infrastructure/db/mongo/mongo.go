// Package mongo implements the persistence ports on MongoDB. Users, session
// tokens, products, carts, and orders each get a repository over one
// collection; throttle and reset-link writes rely on server-side update
// operators, so every repository shares a single client.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const defaultTimeout = 10 * time.Second

// Config carries the connection settings for the document store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// clientOptions builds the driver options. Login-retry counters and session
// revocation must not be lost on failover, so writes wait for a majority.
func (c Config) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetAppName("ecommerce-api").
		SetWriteConcern(writeconcern.Majority())
}

// Connect opens the client, confirms the deployment answers a ping, and
// returns the client together with the service database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, cfg.clientOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Database, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("ping %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}
