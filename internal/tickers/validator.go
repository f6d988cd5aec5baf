package tickers

import (
	"context"
	"strings"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/config"
	"github.com/wonny/b3dash/pkg/logger"
	"github.com/wonny/b3dash/pkg/metrics"
)

// Rejection reasons
const (
	ReasonNoPrice      = "no_price"
	ReasonCurrency     = "currency"
	ReasonShortHistory = "short_history"
	ReasonIlliquid     = "illiquid"
	ReasonFetchError   = "fetch_error"
)

const (
	minHistoryBars = 3
	minHistoryDays = 3
	maxHistoryDays = 30
)

// MarketData is the remote surface the validator needs
type MarketData interface {
	FetchSnapshot(ctx context.Context, symbol string) (*contracts.Snapshot, error)
	FetchRecentHistory(ctx context.Context, symbol string, days int) ([]contracts.Bar, error)
}

// Validator decides whether a symbol is live and tradable
type Validator struct {
	data           MarketData
	currency       string
	historyDays    int
	liquidityFloor float64
	logger         *logger.Logger
	metrics        *metrics.Recorder
}

// NewValidator creates a validator from selector settings
func NewValidator(data MarketData, cfg config.SelectorConfig, log *logger.Logger, rec *metrics.Recorder) *Validator {
	days := cfg.HistoryDays
	if days < minHistoryDays {
		days = minHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	currency := cfg.Currency
	if currency == "" {
		currency = "BRL"
	}

	return &Validator{
		data:           data,
		currency:       currency,
		historyDays:    days,
		liquidityFloor: cfg.LiquidityFloor,
		logger:         log,
		metrics:        rec,
	}
}

// Validate runs the liveness checks in order and stops at the first failure.
// Remote errors never escape; they become a fetch_error verdict.
// ⭐ SSOT: 종목 유효성 판정은 여기서만
func (v *Validator) Validate(ctx context.Context, symbol string) contracts.ValidationResult {
	reason := v.check(ctx, symbol)
	result := contracts.ValidationResult{
		Symbol: symbol,
		Valid:  reason == "",
		Reason: reason,
	}

	v.metrics.RecordValidation(result.Valid, reason)
	if !result.Valid {
		v.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"reason": reason,
		}).Debug("Ticker rejected")
	}

	return result
}

func (v *Validator) check(ctx context.Context, symbol string) string {
	snap, err := v.data.FetchSnapshot(ctx, symbol)
	if err != nil {
		v.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot fetch failed")
		return ReasonFetchError
	}

	// 1. 현재가
	if snap.Price == nil || *snap.Price <= 0 {
		return ReasonNoPrice
	}

	// 2. 통화
	if !strings.EqualFold(snap.Currency, v.currency) {
		return ReasonCurrency
	}

	// 3. 최근 거래 이력
	bars, err := v.data.FetchRecentHistory(ctx, symbol, v.historyDays)
	if err != nil {
		v.logger.WithError(err).WithField("symbol", symbol).Warn("History fetch failed")
		return ReasonFetchError
	}
	if len(bars) < minHistoryBars {
		return ReasonShortHistory
	}

	// 4. 평균 거래량 (없으면 0으로 간주)
	var avgVolume float64
	if snap.AverageVolume != nil {
		avgVolume = *snap.AverageVolume
	}
	if avgVolume < v.liquidityFloor {
		return ReasonIlliquid
	}

	return ""
}
