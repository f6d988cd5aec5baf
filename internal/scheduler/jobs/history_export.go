package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/b3dash/internal/export"
	"github.com/wonny/b3dash/pkg/logger"
)

// HistoryExporter writes the history file for a list of symbols
type HistoryExporter interface {
	Export(ctx context.Context, symbols []string) (*export.Result, error)
}

// HistoryExportJob exports the history of the active tickers after the close
type HistoryExportJob struct {
	service  TickerResolver
	exporter HistoryExporter
	logger   *logger.Logger
}

// NewHistoryExportJob creates a history export job
func NewHistoryExportJob(service TickerResolver, exporter HistoryExporter, log *logger.Logger) *HistoryExportJob {
	return &HistoryExportJob{
		service:  service,
		exporter: exporter,
		logger:   log,
	}
}

// Name returns the job name
func (j *HistoryExportJob) Name() string {
	return "history_export"
}

// Schedule returns 19:00 on weekdays (with seconds)
func (j *HistoryExportJob) Schedule() string {
	return "0 0 19 * * 1-5"
}

// Run resolves the tickers and exports their history
func (j *HistoryExportJob) Run(ctx context.Context) error {
	res := j.service.Resolve(ctx)

	result, err := j.exporter.Export(ctx, res.Set.Symbols())
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"path":   result.Path,
		"rows":   result.Rows,
		"failed": len(result.Failed),
	}).Info("History export finished")

	return nil
}
