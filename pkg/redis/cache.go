package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs per payload
const (
	TTLSnapshot = 10 * time.Minute // 현재가/기본 지표
	TTLHistory  = 1 * time.Hour    // 일봉 이력
)

// Cache stores quote payloads as JSON under <prefix>:cache:<key>
// ⭐ SSOT: 시세 캐시는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a cache namespaced by prefix
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// Get decodes the cached value into dest. A missing key is (false, nil).
func (c *Cache) Get(ctx context.Context, k string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.rdb.Get(ctx, key(c.prefix, "cache", k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", k, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", k, err)
	}
	return true, nil
}

// Set encodes value and stores it with ttl
func (c *Cache) Set(ctx context.Context, k string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", k, err)
	}
	return c.setRaw(ctx, k, data, ttl)
}

func (c *Cache) setRaw(ctx context.Context, k string, data []byte, ttl time.Duration) error {
	return c.client.rdb.Set(ctx, key(c.prefix, "cache", k), data, ttl).Err()
}

// GetOrSet fills dest from the cache, or from load on a miss. Redis errors
// only cost the cache; the loaded value is still returned.
func (c *Cache) GetOrSet(ctx context.Context, k string, dest interface{}, ttl time.Duration, load func() (interface{}, error)) error {
	if found, err := c.Get(ctx, k, dest); err == nil && found {
		return nil
	}

	value, err := load()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", k, err)
	}
	if c.client.Enabled() {
		_ = c.setRaw(ctx, k, data, ttl)
	}
	return json.Unmarshal(data, dest)
}

// SnapshotKey is the cache key for a symbol's quote snapshot
func SnapshotKey(symbol string) string {
	return key("snapshot", symbol)
}

// HistoryKey is the cache key for a daily series between two dates
func HistoryKey(symbol string, from, to time.Time) string {
	return key("history", symbol, from.Format("20060102"), to.Format("20060102"))
}
