package tickers

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/config"
	"github.com/wonny/b3dash/pkg/logger"
)

var errNetwork = errors.New("dial tcp: network is unreachable")

type fakeSource struct {
	symbols []string
	err     error
	calls   int
}

func (f *fakeSource) FetchCandidates(ctx context.Context) ([]string, error) {
	f.calls++
	return f.symbols, f.err
}

// fakeMarket answers every symbol with a healthy BRL quote unless overridden
type fakeMarket struct {
	snapshots     map[string]*contracts.Snapshot
	bars          map[string][]contracts.Bar
	failAll       bool
	snapshotCalls map[string]int
	onSnapshot    func(call int)
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		snapshots:     make(map[string]*contracts.Snapshot),
		bars:          make(map[string][]contracts.Bar),
		snapshotCalls: make(map[string]int),
	}
}

func (f *fakeMarket) FetchSnapshot(ctx context.Context, symbol string) (*contracts.Snapshot, error) {
	f.snapshotCalls[symbol]++
	if f.onSnapshot != nil {
		f.onSnapshot(f.totalSnapshotCalls())
	}
	if f.failAll {
		return nil, errNetwork
	}
	if snap, ok := f.snapshots[symbol]; ok {
		return snap, nil
	}
	return healthySnapshot(symbol), nil
}

func (f *fakeMarket) FetchRecentHistory(ctx context.Context, symbol string, days int) ([]contracts.Bar, error) {
	if f.failAll {
		return nil, errNetwork
	}
	if bars, ok := f.bars[symbol]; ok {
		return bars, nil
	}
	return nBars(5), nil
}

func (f *fakeMarket) totalSnapshotCalls() int {
	total := 0
	for _, n := range f.snapshotCalls {
		total += n
	}
	return total
}

func healthySnapshot(symbol string) *contracts.Snapshot {
	return &contracts.Snapshot{
		Symbol:        symbol,
		Price:         ptr(25.0),
		Currency:      "BRL",
		AverageVolume: ptr(5_000_000.0),
	}
}

func nBars(n int) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{Date: start.AddDate(0, 0, i), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000}
	}
	return bars
}

func ptr(v float64) *float64 {
	return &v
}

func testSelectorConfig() config.SelectorConfig {
	return config.SelectorConfig{
		MaxTickers:      15,
		FreshnessWindow: 7 * 24 * time.Hour,
		LiquidityFloor:  100000,
		Currency:        "BRL",
		HistoryDays:     5,
	}
}

func newTestSelector(source CandidateSource, market MarketData) *Selector {
	log := logger.NewNop()
	validator := NewValidator(market, testSelectorConfig(), log, nil)
	return NewSelector(source, validator, DefaultLists(), 15, FixedClock(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)), log, nil)
}

func symbols(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + string(rune('A'+i)) + "3.SA"
	}
	return out
}
