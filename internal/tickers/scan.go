package tickers

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
)

// Scan output files under the data directory
const (
	AllTickersFile    = "tickers_b3.csv"
	ActiveTickersFile = "tickers_ativos_yahoo.csv"
)

// SnapshotSource fetches a quote snapshot
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, symbol string) (*contracts.Snapshot, error)
}

// ScanResult lists every scanned symbol and the ones with a live price
type ScanResult struct {
	All    []string
	Active []string
}

// Scanner collects the known B3 symbols and checks which still quote
type Scanner struct {
	source  CandidateSource
	quotes  SnapshotSource
	lists   Lists
	dataDir string
	logger  *logger.Logger
}

// NewScanner creates a scanner writing into dataDir
func NewScanner(source CandidateSource, quotes SnapshotSource, lists Lists, dataDir string, log *logger.Logger) *Scanner {
	return &Scanner{
		source:  source,
		quotes:  quotes,
		lists:   lists,
		dataDir: dataDir,
		logger:  log,
	}
}

// Scan gathers candidates plus both static lists, writes them all, then
// writes the subset whose snapshot carries a price
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	candidates, err := s.source.FetchCandidates(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Candidate fetch failed, scanning static lists only")
	}

	all := normalizeAll(append(append(candidates, s.lists.Fallback...), s.lists.Alternates...))
	result := &ScanResult{All: all}

	if err := writeTickerColumn(filepath.Join(s.dataDir, AllTickersFile), all); err != nil {
		return nil, err
	}

	for _, symbol := range all {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		snap, err := s.quotes.FetchSnapshot(ctx, symbol)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Debug("Snapshot unavailable")
			continue
		}
		if snap.Price != nil {
			result.Active = append(result.Active, symbol)
		}
	}

	if err := writeTickerColumn(filepath.Join(s.dataDir, ActiveTickersFile), result.Active); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"total":  len(result.All),
		"active": len(result.Active),
	}).Info("Ticker scan complete")

	return result, nil
}

func writeTickerColumn(path string, symbols []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Ticker"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, s := range symbols {
		if err := w.Write([]string{s}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
