package yahoo

import (
	"context"
	"time"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/redis"
)

// CachedProvider serves snapshots and history through the Redis cache.
// With Redis disabled every call goes straight to the client.
type CachedProvider struct {
	client *Client
	cache  *redis.Cache
}

// NewCachedProvider wraps client with cache
func NewCachedProvider(client *Client, cache *redis.Cache) *CachedProvider {
	return &CachedProvider{client: client, cache: cache}
}

// FetchSnapshot returns a cached snapshot or fetches a fresh one
func (p *CachedProvider) FetchSnapshot(ctx context.Context, symbol string) (*contracts.Snapshot, error) {
	var snap contracts.Snapshot
	err := p.cache.GetOrSet(ctx, redis.SnapshotKey(symbol), &snap, redis.TTLSnapshot, func() (interface{}, error) {
		return p.client.FetchSnapshot(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// FetchHistory returns cached bars or fetches them. Dates are truncated to
// the day so repeated dashboard requests share a key.
func (p *CachedProvider) FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	from = from.Truncate(24 * time.Hour)
	to = to.Truncate(24 * time.Hour).Add(24*time.Hour - time.Second)

	var bars []contracts.Bar
	err := p.cache.GetOrSet(ctx, redis.HistoryKey(symbol, from, to), &bars, redis.TTLHistory, func() (interface{}, error) {
		return p.client.FetchHistory(ctx, symbol, from, to)
	})
	if err != nil {
		return nil, err
	}
	return bars, nil
}
