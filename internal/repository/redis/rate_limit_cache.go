package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"submission-service/internal/models"
	"submission-service/internal/util"
)

const rateLimitPrefix = "rate_limit:"

// fixedWindowScript increments the counter and starts its expiry on the first
// hit of a window. Returns {count, remaining ttl in ms}.
var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if count == 1 or ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimitCache is a fixed-window counter shared by every server instance
type RateLimitCache struct {
	client redis.Scripter
}

func NewRateLimitCache(client redis.Scripter) *RateLimitCache {
	return &RateLimitCache{client: client}
}

// Hit counts one request for key. The window start is derived from the key's
// remaining TTL so callers get a consistent reset time.
func (c *RateLimitCache) Hit(ctx context.Context, key string, window time.Duration, now time.Time) (models.RateLimitBucket, error) {
	result, err := fixedWindowScript.Run(ctx, c.client, []string{rateLimitPrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		util.Debug("Rate limit script failed", zap.String("key", key), zap.Error(err))
		return models.RateLimitBucket{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if len(result) != 2 {
		return models.RateLimitBucket{}, fmt.Errorf("unexpected result format from rate limit script")
	}

	ttl := time.Duration(result[1]) * time.Millisecond
	return models.RateLimitBucket{
		Count:       int(result[0]),
		WindowStart: now.Add(ttl - window),
	}, nil
}
