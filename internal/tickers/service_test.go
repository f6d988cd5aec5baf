package tickers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
)

func newTestService(t *testing.T, source CandidateSource, market MarketData, opts ...ServiceOption) (*Service, *Cache) {
	t.Helper()
	log := logger.NewNop()
	clock := SystemClock{}

	validator := NewValidator(market, testSelectorConfig(), log, nil)
	selector := NewSelector(source, validator, DefaultLists(), 15, clock, log, nil)
	cache := NewCache(filepath.Join(t.TempDir(), "top_15_tickers_validados.csv"), 7*24*time.Hour, clock, log, nil)

	return NewService(selector, cache, log, opts...), cache
}

func TestService_NetworkErrorFallsBackAndCaches(t *testing.T) {
	source := &fakeSource{err: errNetwork}
	svc, cache := newTestService(t, source, newFakeMarket())

	res := svc.Resolve(context.Background())

	require.Equal(t, 15, res.Set.Len())
	assert.False(t, res.FromCache)
	assert.False(t, res.Degraded)
	assert.Equal(t, DefaultLists().Fallback, res.Set.Symbols())

	// The file now holds 15 rows labelled fallback
	stored, ok := cache.Load()
	require.True(t, ok)
	require.Equal(t, 15, stored.Len())
	for _, tk := range stored.Tickers {
		assert.Equal(t, contracts.SourceFallback, tk.Source)
	}
}

func TestService_CacheHitSkipsSelection(t *testing.T) {
	source := &fakeSource{symbols: symbols("PRI", 20)}
	market := newFakeMarket()
	svc, _ := newTestService(t, source, market)

	first := svc.Resolve(context.Background())
	require.False(t, first.FromCache)
	calls := market.totalSnapshotCalls()

	second := svc.Resolve(context.Background())
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Set.Symbols(), second.Set.Symbols())
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, calls, market.totalSnapshotCalls())
	assert.Same(t, second, svc.Current())
}

func TestService_RefreshBypassesCache(t *testing.T) {
	source := &fakeSource{symbols: symbols("PRI", 20)}
	svc, _ := newTestService(t, source, newFakeMarket())

	svc.Resolve(context.Background())
	res := svc.Refresh(context.Background())

	assert.False(t, res.FromCache)
	assert.Equal(t, 2, source.calls)
}

func TestService_EmptySelectionIsDegraded(t *testing.T) {
	market := newFakeMarket()
	market.failAll = true
	svc, cache := newTestService(t, &fakeSource{err: errNetwork}, market)

	res := svc.Resolve(context.Background())

	assert.True(t, res.Degraded)
	assert.Equal(t, DegradedWarning, res.Warning)
	require.Equal(t, 15, res.Set.Len())
	for _, tk := range res.Set.Tickers {
		assert.Equal(t, contracts.SourceDefault, tk.Source)
	}

	_, err := os.Stat(cache.Path())
	assert.True(t, os.IsNotExist(err), "empty selection is not stored")
}

func TestService_CacheEmptyOption(t *testing.T) {
	market := newFakeMarket()
	market.failAll = true
	svc, cache := newTestService(t, &fakeSource{err: errNetwork}, market, WithCacheEmpty(true))

	svc.Resolve(context.Background())

	data, err := os.ReadFile(cache.Path())
	require.NoError(t, err)
	assert.Equal(t, "Ticker,Data_Validacao,Fonte\n", string(data))
}

func TestService_ShortSelectionIsStored(t *testing.T) {
	market := newFakeMarket()
	lists := DefaultLists()
	for _, s := range lists.Fallback[3:] {
		market.snapshots[s] = &contracts.Snapshot{Price: ptr(1), Currency: "USD"}
	}
	for _, s := range lists.Alternates {
		market.snapshots[s] = &contracts.Snapshot{Price: ptr(1), Currency: "USD"}
	}
	svc, cache := newTestService(t, &fakeSource{err: errNetwork}, market)

	res := svc.Resolve(context.Background())
	assert.False(t, res.Degraded)
	assert.Equal(t, 3, res.Set.Len())

	stored, ok := cache.Load()
	require.True(t, ok)
	assert.Equal(t, lists.Fallback[:3], stored.Symbols())
}

func TestService_WithDefaults(t *testing.T) {
	market := newFakeMarket()
	market.failAll = true
	svc, _ := newTestService(t, &fakeSource{err: errNetwork}, market, WithDefaults([]string{"vale3", "PETR4.SA"}))

	res := svc.Resolve(context.Background())
	assert.Equal(t, []string{"VALE3.SA", "PETR4.SA"}, res.Set.Symbols())
}

func TestService_InterruptedSelectionIsNotStored(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	market := newFakeMarket()
	market.onSnapshot = func(call int) {
		if call == 4 {
			cancel()
		}
	}
	svc, cache := newTestService(t, &fakeSource{symbols: symbols("PRI", 20)}, market)

	res := svc.Resolve(ctx)
	assert.Equal(t, 4, res.Set.Len())
	assert.False(t, res.FromCache)

	_, err := os.Stat(cache.Path())
	assert.True(t, os.IsNotExist(err), "interrupted selection must not be written")

	_, ok := cache.Load()
	assert.False(t, ok)

	// The next resolve selects again instead of serving the partial list
	next := svc.Resolve(context.Background())
	assert.False(t, next.FromCache)
	assert.Equal(t, 15, next.Set.Len())
}
