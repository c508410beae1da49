// Package cache tracks which indicator keys have been observed in
// earlier runs so the orchestrator can tag first-time indicators.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "threatmesh:seen:"

// SeenCache is a Redis-backed first-seen tracker for indicator keys.
type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a seen cache on the given Redis client. Entries expire
// after ttl; zero means no expiry.
func New(client *redis.Client, ttl time.Duration) *SeenCache {
	return &SeenCache{client: client, ttl: ttl}
}

// CheckAndMark marks every key as seen and reports which keys were new
// before this call. All keys are written in one pipeline round trip.
func (c *SeenCache) CheckAndMark(ctx context.Context, keys []string) (map[string]bool, error) {
	if len(keys) == 0 {
		return map[string]bool{}, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.BoolCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.SetNX(ctx, keyPrefix+key, time.Now().Unix(), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update seen cache: %w", err)
	}

	isNew := make(map[string]bool, len(keys))
	for i, cmd := range cmds {
		// SetNX succeeds only when the key did not exist yet.
		isNew[keys[i]] = cmd.Val()
	}
	return isNew, nil
}

// Ping verifies the Redis connection.
func (c *SeenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
