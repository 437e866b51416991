package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisChecker checks connectivity of the Redis generator store.
type RedisChecker struct {
	client redis.UniversalClient
	name   string
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{
		client: client,
		name:   "redis",
	}
}

// Name returns the name of the checker.
func (r *RedisChecker) Name() string {
	return r.name
}

// Check pings Redis and confirms Lua scripting is available, since every
// generator mutation runs as a script.
func (r *RedisChecker) Check(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client not configured")
	}

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	res, err := r.client.Eval(ctx, "return ARGV[1]", nil, "ok").Text()
	if err != nil {
		return fmt.Errorf("redis scripting unavailable: %w", err)
	}
	if !strings.EqualFold(res, "ok") {
		return fmt.Errorf("unexpected redis script reply %q", res)
	}

	return nil
}
