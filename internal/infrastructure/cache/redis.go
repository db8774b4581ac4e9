package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// OpenRedis connects and pings; the client is closed again when the ping fails.
func OpenRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis: empty address")
	}
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db, DialTimeout: dialTimeout})
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return r, nil
}

// Status reports "up", "down" or "disabled" for the health endpoint.
func Status(ctx context.Context, r *redis.Client) string {
	if r == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return "down"
	}
	return "up"
}
