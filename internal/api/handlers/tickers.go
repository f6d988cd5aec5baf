package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/internal/tickers"
	"github.com/wonny/b3dash/pkg/logger"
)

// TickerService is the ticker set source used by the dashboard
type TickerService interface {
	Resolve(ctx context.Context) *tickers.Resolution
	Refresh(ctx context.Context) *tickers.Resolution
	Current() *tickers.Resolution
}

// TickerHandler serves the active ticker list
// ⭐ SSOT: 종목 목록 API 핸들러는 이 구조체에서만
type TickerHandler struct {
	service TickerService
	logger  *logger.Logger
}

// NewTickerHandler creates a new ticker handler
func NewTickerHandler(service TickerService, log *logger.Logger) *TickerHandler {
	return &TickerHandler{
		service: service,
		logger:  log,
	}
}

// TickerListResponse is the body of the ticker endpoints
type TickerListResponse struct {
	Tickers     []contracts.SelectedTicker `json:"tickers"`
	ValidatedAt string                     `json:"validated_at"`
	FromCache   bool                       `json:"from_cache"`
	Degraded    bool                       `json:"degraded"`
	Warning     string                     `json:"warning,omitempty"`
}

// GetTickers returns the current ticker set, resolving it on first use
// GET /api/tickers
func (h *TickerHandler) GetTickers(w http.ResponseWriter, r *http.Request) {
	res := h.service.Current()
	if res == nil {
		// 클라이언트 연결이 끊겨도 선택은 끝까지 진행
		res = h.service.Resolve(context.WithoutCancel(r.Context()))
	}
	respondJSON(w, http.StatusOK, toTickerList(res))
}

// RefreshTickers forces a new selection
// POST /api/tickers/refresh
func (h *TickerHandler) RefreshTickers(w http.ResponseWriter, r *http.Request) {
	res := h.service.Refresh(context.WithoutCancel(r.Context()))

	h.logger.WithFields(map[string]interface{}{
		"tickers":  res.Set.Len(),
		"degraded": res.Degraded,
	}).Info("Ticker list refreshed from dashboard")

	respondJSON(w, http.StatusOK, toTickerList(res))
}

func toTickerList(res *tickers.Resolution) TickerListResponse {
	out := TickerListResponse{
		Tickers:   res.Set.Tickers,
		FromCache: res.FromCache,
		Degraded:  res.Degraded,
		Warning:   res.Warning,
	}
	if out.Tickers == nil {
		out.Tickers = []contracts.SelectedTicker{}
	}
	if !res.Set.ValidatedAt.IsZero() {
		out.ValidatedAt = res.Set.ValidatedAt.Format(time.RFC3339)
	}
	return out
}
