package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/b3dash/internal/analysis"
	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
)

// FileName is the export file written under the data directory
const FileName = "dados_historicos.csv"

// DefaultYears of daily history per ticker
const DefaultYears = 3

// ErrNoData is returned when no ticker produced a row
var ErrNoData = errors.New("export: no rows collected")

// Header is the column order of the export file
var Header = append([]string{"Date", "Ticker", "Open", "High", "Low", "Close", "Volume"}, analysis.FundamentalNames...)

// MarketData is what the exporter reads from the remote source
type MarketData interface {
	FetchSnapshot(ctx context.Context, symbol string) (*contracts.Snapshot, error)
	FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error)
}

// BarSaver persists bars; optional
type BarSaver interface {
	SaveBars(ctx context.Context, symbol string, bars []contracts.Bar) error
}

// Result summarizes an export run
type Result struct {
	Path    string   `json:"path"`
	Rows    int      `json:"rows"`
	Tickers []string `json:"tickers"`
	Failed  []string `json:"failed,omitempty"`
}

// Exporter writes the pipe-delimited history file
// ⭐ SSOT: 이력 내보내기 파일 포맷은 여기서만
type Exporter struct {
	data    MarketData
	saver   BarSaver
	dataDir string
	years   int
	now     func() time.Time
	logger  *logger.Logger
}

// Option configures an Exporter
type Option func(*Exporter)

// WithSaver also upserts fetched bars through saver
func WithSaver(saver BarSaver) Option {
	return func(e *Exporter) {
		e.saver = saver
	}
}

// WithYears sets how many years of history are fetched
func WithYears(years int) Option {
	return func(e *Exporter) {
		if years > 0 {
			e.years = years
		}
	}
}

// WithNow overrides the clock
func WithNow(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter creates an exporter writing into dataDir
func NewExporter(data MarketData, dataDir string, log *logger.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		data:    data,
		dataDir: dataDir,
		years:   DefaultYears,
		now:     time.Now,
		logger:  log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export fetches history and fundamentals for each symbol and writes the
// file. Failing symbols are logged and skipped.
func (e *Exporter) Export(ctx context.Context, symbols []string) (*Result, error) {
	to := e.now()
	from := to.AddDate(-e.years, 0, 0)

	result := &Result{Path: filepath.Join(e.dataDir, FileName)}
	var rows [][]string

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		symbolRows, err := e.collect(ctx, symbol, from, to)
		if err != nil {
			e.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping ticker in export")
			result.Failed = append(result.Failed, symbol)
			continue
		}

		rows = append(rows, symbolRows...)
		result.Tickers = append(result.Tickers, symbol)
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}

	if err := writeFile(result.Path, rows); err != nil {
		return nil, err
	}
	result.Rows = len(rows)

	e.logger.WithFields(map[string]interface{}{
		"path":    result.Path,
		"rows":    result.Rows,
		"tickers": len(result.Tickers),
		"failed":  len(result.Failed),
	}).Info("History export written")

	return result, nil
}

func (e *Exporter) collect(ctx context.Context, symbol string, from, to time.Time) ([][]string, error) {
	bars, err := e.data.FetchHistory(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s", symbol)
	}

	// 펀더멘털 누락은 빈 칸으로 기록
	var fundamentals map[string]float64
	if snap, err := e.data.FetchSnapshot(ctx, symbol); err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Debug("Fundamentals unavailable")
	} else {
		fundamentals = analysis.FundamentalValues(snap.Fundamentals)
	}

	if e.saver != nil {
		if err := e.saver.SaveBars(ctx, symbol, bars); err != nil {
			e.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to store bars")
		}
	}

	rows := make([][]string, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, formatRow(symbol, b, fundamentals))
	}
	return rows, nil
}

func formatRow(symbol string, b contracts.Bar, fundamentals map[string]float64) []string {
	row := []string{
		b.Date.Format("2006-01-02"),
		symbol,
		FormatNumber(b.Open),
		FormatNumber(b.High),
		FormatNumber(b.Low),
		FormatNumber(b.Close),
		strconv.FormatInt(b.Volume, 10),
	}
	for _, name := range analysis.FundamentalNames {
		if v, ok := fundamentals[name]; ok {
			row = append(row, FormatNumber(v))
		} else {
			row = append(row, "")
		}
	}
	return row
}

// FormatNumber rounds to 2 decimals and uses a comma decimal separator
func FormatNumber(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).Round(2).String(), ".", ",", 1)
}

func writeFile(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write renders the header and rows pipe-delimited to w
func Write(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '|'

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
