package tickers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/config"
	"github.com/wonny/b3dash/pkg/logger"
)

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   *contracts.Snapshot
		bars       []contracts.Bar
		failAll    bool
		wantValid  bool
		wantReason string
	}{
		{
			name:      "healthy ticker",
			snapshot:  healthySnapshot("VALE3.SA"),
			bars:      nBars(5),
			wantValid: true,
		},
		{
			name:       "missing price",
			snapshot:   &contracts.Snapshot{Currency: "BRL", AverageVolume: ptr(1e6)},
			bars:       nBars(5),
			wantReason: ReasonNoPrice,
		},
		{
			name:       "zero price",
			snapshot:   &contracts.Snapshot{Price: ptr(0), Currency: "BRL", AverageVolume: ptr(1e6)},
			bars:       nBars(5),
			wantReason: ReasonNoPrice,
		},
		{
			name:       "USD currency",
			snapshot:   &contracts.Snapshot{Price: ptr(10), Currency: "USD", AverageVolume: ptr(1e6)},
			bars:       nBars(5),
			wantReason: ReasonCurrency,
		},
		{
			name:      "lower-case currency accepted",
			snapshot:  &contracts.Snapshot{Price: ptr(10), Currency: "brl", AverageVolume: ptr(1e6)},
			bars:      nBars(5),
			wantValid: true,
		},
		{
			name:       "two bars only",
			snapshot:   healthySnapshot("X"),
			bars:       nBars(2),
			wantReason: ReasonShortHistory,
		},
		{
			name:      "exactly three bars",
			snapshot:  healthySnapshot("X"),
			bars:      nBars(3),
			wantValid: true,
		},
		{
			name:       "below liquidity floor",
			snapshot:   &contracts.Snapshot{Price: ptr(10), Currency: "BRL", AverageVolume: ptr(99_999)},
			bars:       nBars(5),
			wantReason: ReasonIlliquid,
		},
		{
			name:      "at liquidity floor",
			snapshot:  &contracts.Snapshot{Price: ptr(10), Currency: "BRL", AverageVolume: ptr(100_000)},
			bars:      nBars(5),
			wantValid: true,
		},
		{
			name:       "missing average volume",
			snapshot:   &contracts.Snapshot{Price: ptr(10), Currency: "BRL"},
			bars:       nBars(5),
			wantReason: ReasonIlliquid,
		},
		{
			name:       "network error",
			failAll:    true,
			wantReason: ReasonFetchError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market := newFakeMarket()
			market.failAll = tt.failAll
			if tt.snapshot != nil {
				market.snapshots["TEST3.SA"] = tt.snapshot
			}
			if tt.bars != nil {
				market.bars["TEST3.SA"] = tt.bars
			}

			v := NewValidator(market, testSelectorConfig(), logger.NewNop(), nil)
			got := v.Validate(context.Background(), "TEST3.SA")

			assert.Equal(t, "TEST3.SA", got.Symbol)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestNewValidator_ClampsHistoryDays(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 3},
		{in: 5, want: 5},
		{in: 90, want: 30},
	}

	for _, tt := range tests {
		v := NewValidator(newFakeMarket(), config.SelectorConfig{HistoryDays: tt.in}, logger.NewNop(), nil)
		assert.Equal(t, tt.want, v.historyDays)
		assert.Equal(t, "BRL", v.currency)
	}
}
