// Package redis holds the Redis-backed pieces of the auth flow. The only
// state this service keeps in Redis is short-lived throttle keys (the OTP
// request cooldown), so the client is tuned for small, TTL-bound values.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 3 * time.Second

// Config carries the connection settings for the cooldown store.
type Config struct {
	Addr        string
	DB          int
	PingTimeout time.Duration
}

// options maps Config onto the driver's option struct. Cooldown keys are
// tiny and expendable, so one retry is enough before a request falls back to
// the limiter's fail-open path.
func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:       c.Addr,
		DB:         c.DB,
		MaxRetries: 1,
	}
}

// Connect opens a client for the cooldown store and verifies it answers a
// ping before the server starts taking traffic.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cooldown store at %s unreachable: %w", cfg.Addr, err)
	}

	return client, nil
}
