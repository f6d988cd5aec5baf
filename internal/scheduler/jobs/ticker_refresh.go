package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/b3dash/internal/tickers"
	"github.com/wonny/b3dash/pkg/logger"
)

// TickerResolver resolves the active ticker set
type TickerResolver interface {
	Resolve(ctx context.Context) *tickers.Resolution
}

// TickerRefreshJob re-resolves the ticker set every morning. A fresh cache
// file short-circuits the run.
// ⭐ SSOT: 종목 목록 갱신 스케줄은 이 Job에서만
type TickerRefreshJob struct {
	service TickerResolver
	logger  *logger.Logger
}

// NewTickerRefreshJob creates a ticker refresh job
func NewTickerRefreshJob(service TickerResolver, log *logger.Logger) *TickerRefreshJob {
	return &TickerRefreshJob{
		service: service,
		logger:  log,
	}
}

// Name returns the job name
func (j *TickerRefreshJob) Name() string {
	return "ticker_refresh"
}

// Schedule returns 06:00 daily (with seconds)
func (j *TickerRefreshJob) Schedule() string {
	return "0 0 6 * * *"
}

// Run resolves the set; an all-default result counts as a failure so the
// scheduler records it
func (j *TickerRefreshJob) Run(ctx context.Context) error {
	res := j.service.Resolve(ctx)

	j.logger.WithFields(map[string]interface{}{
		"tickers":    res.Set.Len(),
		"from_cache": res.FromCache,
		"degraded":   res.Degraded,
	}).Info("Ticker refresh finished")

	if res.Degraded {
		return fmt.Errorf("ticker refresh degraded: %s", res.Warning)
	}
	return nil
}
