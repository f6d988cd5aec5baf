package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/b3dash/pkg/config"
)

const pingTimeout = 3 * time.Second

// Client is the optional shared Redis connection. A disabled client turns
// the cache into a pass-through and the rate limiter into allow-all.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb *redis.Client
}

// New connects when REDIS_ENABLED is set, otherwise returns a disabled client
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	addr := net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &Client{rdb: rdb}, nil
}

// Enabled reports whether commands reach a server
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Close releases the connection; a disabled client is a no-op
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// key joins a namespaced key, e.g. b3dash:cache:snapshot:VALE3.SA
func key(parts ...string) string {
	return strings.Join(parts, ":")
}
