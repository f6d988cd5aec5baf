package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitConfig is a sliding window: at most Limit calls per Window
type RateLimitConfig struct {
	Key    string
	Limit  int
	Window time.Duration
}

// YahooRateLimit is shared by every process hitting Yahoo Finance
var YahooRateLimit = RateLimitConfig{
	Key:    "yahoo",
	Limit:  5,
	Window: time.Second,
}

// slidingWindow trims the sorted set to the window and admits one call if
// there is room. Returns {admitted, remaining}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	return {0, 0}
end

redis.call('ZADD', key, now, now .. '-' .. count)
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1}
`)

// RateLimiter paces outbound calls across processes sharing one Redis
// ⭐ SSOT: 프로세스 간 호출 제한은 여기서만
type RateLimiter struct {
	client *Client
	prefix string
}

// NewRateLimiter creates a limiter with keys under <prefix>:ratelimit
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix}
}

// Allow records one call if the window has room.
// Returns (allowed, remaining); a disabled client always allows.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	res, err := slidingWindow.Run(ctx, r.client.rdb,
		[]string{key(r.prefix, "ratelimit", cfg.Key)},
		time.Now().UnixMilli(), cfg.Window.Milliseconds(), cfg.Limit,
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", cfg.Key, err)
	}
	return res[0] == 1, int(res[1]), nil
}

// Wait blocks until Allow admits the call or ctx ends
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	backoff := cfg.Window / time.Duration(max(cfg.Limit, 1))
	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
