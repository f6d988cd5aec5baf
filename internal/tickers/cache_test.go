package tickers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
	"github.com/wonny/b3dash/pkg/metrics"
)

func sampleSet() *contracts.SelectedTickerSet {
	set := &contracts.SelectedTickerSet{}
	set.Add("VALE3.SA", contracts.SourceFallback)
	set.Add("PETR4.SA", contracts.SourceFallback)
	set.Add("KLBN11.SA", contracts.SourceAlternates)
	return set
}

func TestCache_StoreLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tickers.csv")
	now := time.Now()
	cache := NewCache(path, 7*24*time.Hour, FixedClock(now), logger.NewNop(), nil)

	require.NoError(t, cache.Store(sampleSet()))

	got, ok := cache.Load()
	require.True(t, ok)
	assert.Equal(t, []string{"VALE3.SA", "PETR4.SA", "KLBN11.SA"}, got.Symbols())
	assert.Equal(t, contracts.SourceAlternates, got.Tickers[2].Source)
	assert.Equal(t, now.Format(ValidatedAtLayout), got.ValidatedAt.Format(ValidatedAtLayout))
}

func TestCache_RoundTripKeepsInstantForUTCClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.csv")
	now := time.Now().UTC().Truncate(time.Second)
	cache := NewCache(path, 7*24*time.Hour, FixedClock(now), logger.NewNop(), nil)

	require.NoError(t, cache.Store(sampleSet()))

	got, ok := cache.Load()
	require.True(t, ok)
	assert.True(t, now.Equal(got.ValidatedAt), "stored %s, loaded %s", now, got.ValidatedAt)
}

func TestCache_FileIsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.csv")
	cache := NewCache(path, time.Hour, FixedClock(time.Now()), logger.NewNop(), nil)

	require.NoError(t, cache.Store(sampleSet()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCache_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.csv")
	stamp := time.Date(2024, 3, 4, 9, 30, 15, 0, time.Local)
	cache := NewCache(path, time.Hour, FixedClock(stamp), logger.NewNop(), nil)

	require.NoError(t, cache.Store(sampleSet()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Ticker,Data_Validacao,Fonte\n"+
			"VALE3.SA,2024-03-04 09:30:15,fallback\n"+
			"PETR4.SA,2024-03-04 09:30:15,fallback\n"+
			"KLBN11.SA,2024-03-04 09:30:15,alternates\n",
		string(data))

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCache_Freshness(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		age     time.Duration
		wantHit bool
	}{
		{name: "2 days old", age: 2 * 24 * time.Hour, wantHit: true},
		{name: "4 days old", age: 4 * 24 * time.Hour, wantHit: false},
		{name: "exactly window", age: 3 * 24 * time.Hour, wantHit: false},
		{name: "just written", age: 0, wantHit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tickers.csv")
			cache := NewCache(path, 3*24*time.Hour, FixedClock(now), logger.NewNop(), nil)
			require.NoError(t, cache.Store(sampleSet()))

			mtime := now.Add(-tt.age)
			require.NoError(t, os.Chtimes(path, mtime, mtime))

			_, ok := cache.Load()
			assert.Equal(t, tt.wantHit, ok)
		})
	}
}

func TestCache_Misses(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "header only", content: strPtr("Ticker,Data_Validacao,Fonte\n")},
		{name: "empty file", content: strPtr("")},
		{name: "wrong column count", content: strPtr("Ticker,Data_Validacao,Fonte\nVALE3.SA\n")},
		{name: "wrong header", content: strPtr("Symbol,Date,Source\nVALE3.SA,2024-01-01 00:00:00,yahoo\n")},
		{name: "blank ticker", content: strPtr("Ticker,Data_Validacao,Fonte\n,2024-01-01 00:00:00,yahoo\n")},
		{name: "unterminated quote", content: strPtr("Ticker,Data_Validacao,Fonte\n\"VALE3.SA,x,y\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tickers.csv")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			cache := NewCache(path, 7*24*time.Hour, SystemClock{}, logger.NewNop(), nil)
			got, ok := cache.Load()
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestCache_RecordsLookups(t *testing.T) {
	rec := metrics.New()
	path := filepath.Join(t.TempDir(), "tickers.csv")
	cache := NewCache(path, time.Hour, SystemClock{}, logger.NewNop(), rec)

	_, ok := cache.Load()
	assert.False(t, ok)

	require.NoError(t, cache.Store(sampleSet()))
	_, ok = cache.Load()
	assert.True(t, ok)
}

func strPtr(s string) *string {
	return &s
}
