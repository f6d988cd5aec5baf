package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/b3dash/internal/analysis"
	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/internal/external/yahoo"
	"github.com/wonny/b3dash/pkg/logger"
)

// MarketData is the quote source used by the stock endpoints
type MarketData interface {
	FetchSnapshot(ctx context.Context, symbol string) (*contracts.Snapshot, error)
	FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error)
}

// StockHandler handles per-ticker dashboard endpoints
// ⭐ SSOT: 종목 데이터 API 핸들러는 이 구조체에서만
type StockHandler struct {
	data   MarketData
	now    func() time.Time
	logger *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(data MarketData, log *logger.Logger) *StockHandler {
	return &StockHandler{
		data:   data,
		now:    time.Now,
		logger: log,
	}
}

// HistoryRow is one bar with derived indicators for the API response
type HistoryRow struct {
	Date        string   `json:"date"`
	Open        float64  `json:"open"`
	High        float64  `json:"high"`
	Low         float64  `json:"low"`
	Close       float64  `json:"close"`
	Volume      int64    `json:"volume"`
	MA20        *float64 `json:"ma20"`
	MA50        *float64 `json:"ma50"`
	MA200       *float64 `json:"ma200"`
	DailyReturn *float64 `json:"daily_return"`
	Volatility  *float64 `json:"volatility"`
}

// GetHistory returns daily bars with moving averages and volatility
// GET /api/stocks/{symbol}/history?period=6m
func (h *StockHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol, period := h.params(r)

	bars, ok := h.fetchBars(w, r, symbol, period)
	if !ok {
		return
	}

	rows := analysis.Indicators(bars)
	result := make([]HistoryRow, len(rows))
	for i, row := range rows {
		result[i] = HistoryRow{
			Date:        row.Date.Format("2006-01-02"),
			Open:        row.Open,
			High:        row.High,
			Low:         row.Low,
			Close:       row.Close,
			Volume:      row.Volume,
			MA20:        row.MA20,
			MA50:        row.MA50,
			MA200:       row.MA200,
			DailyReturn: row.DailyReturn,
			Volatility:  row.Volatility,
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"period": period,
		"data":   result,
	})
}

// GetSummary returns price, period variation, average volume and volatility
// GET /api/stocks/{symbol}/summary?period=6m
func (h *StockHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	symbol, period := h.params(r)

	bars, ok := h.fetchBars(w, r, symbol, period)
	if !ok {
		return
	}

	snap, err := h.data.FetchSnapshot(r.Context(), symbol)
	if err != nil {
		// 스냅샷 없이도 이력으로 요약 가능
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot unavailable for summary")
		snap = nil
	}

	summary := analysis.BuildSummary(symbol, snap, bars)

	resp := map[string]interface{}{
		"summary": summary,
		"period":  period,
	}
	if summary.Variation != nil {
		resp["variation_formatted"] = analysis.FormatPercent(*summary.Variation)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetFundamentals returns the scaled fundamental metrics
// GET /api/stocks/{symbol}/fundamentals
func (h *StockHandler) GetFundamentals(w http.ResponseWriter, r *http.Request) {
	symbol, _ := h.params(r)

	snap, err := h.data.FetchSnapshot(r.Context(), symbol)
	if err != nil {
		h.respondFetchError(w, symbol, err)
		return
	}

	metrics := analysis.FundamentalMetrics(snap)
	if metrics == nil {
		metrics = []analysis.Metric{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"data":   metrics,
	})
}

// GetChart renders the price chart as PNG
// GET /api/stocks/{symbol}/chart.png?period=6m
func (h *StockHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	symbol, period := h.params(r)

	bars, ok := h.fetchBars(w, r, symbol, period)
	if !ok {
		return
	}

	png, err := analysis.RenderPriceChart(symbol, bars)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Chart render failed")
		respondError(w, http.StatusUnprocessableEntity, "not enough data to draw a chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *StockHandler) params(r *http.Request) (string, string) {
	symbol := contracts.NormalizeSymbol(mux.Vars(r)["symbol"])

	return symbol, analysis.NormalizePeriod(r.URL.Query().Get("period"))
}

func (h *StockHandler) fetchBars(w http.ResponseWriter, r *http.Request, symbol, period string) ([]contracts.Bar, bool) {
	from, to := analysis.PeriodRange(period, h.now())

	bars, err := h.data.FetchHistory(r.Context(), symbol, from, to)
	if err != nil {
		h.respondFetchError(w, symbol, err)
		return nil, false
	}
	if len(bars) == 0 {
		respondError(w, http.StatusNotFound, "no data for "+symbol)
		return nil, false
	}
	return bars, true
}

func (h *StockHandler) respondFetchError(w http.ResponseWriter, symbol string, err error) {
	if errors.Is(err, yahoo.ErrNotFound) || errors.Is(err, yahoo.ErrNoData) {
		respondError(w, http.StatusNotFound, "no data for "+symbol)
		return
	}

	h.logger.WithError(err).WithField("symbol", symbol).Error("Market data fetch failed")
	respondError(w, http.StatusBadGateway, "market data unavailable")
}
