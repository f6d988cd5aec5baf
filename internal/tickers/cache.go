package tickers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
	"github.com/wonny/b3dash/pkg/metrics"
)

// ValidatedAtLayout is the timestamp layout of the Data_Validacao column
const ValidatedAtLayout = "2006-01-02 15:04:05"

var cacheHeader = []string{"Ticker", "Data_Validacao", "Fonte"}

// Cache persists the last selection to a CSV file. Freshness is judged only
// by the file's modification time.
type Cache struct {
	path    string
	window  time.Duration
	clock   Clock
	logger  *logger.Logger
	metrics *metrics.Recorder
}

// NewCache creates a file cache at path with the given freshness window
func NewCache(path string, window time.Duration, clock Clock, log *logger.Logger, rec *metrics.Recorder) *Cache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Cache{
		path:    path,
		window:  window,
		clock:   clock,
		logger:  log,
		metrics: rec,
	}
}

// Path returns the cache file location
func (c *Cache) Path() string {
	return c.path
}

// Load returns the cached selection when the file exists, parses, holds at
// least one row and is younger than the freshness window. Anything else is a
// miss; errors are logged, never returned.
func (c *Cache) Load() (*contracts.SelectedTickerSet, bool) {
	set, err := c.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, errStale) {
			c.logger.WithError(err).WithField("path", c.path).Warn("Ticker cache unreadable, treating as miss")
		}
		c.metrics.RecordCacheLookup(false)
		return nil, false
	}

	c.metrics.RecordCacheLookup(true)
	return set, true
}

var errStale = errors.New("ticker cache is stale")

func (c *Cache) load() (*contracts.SelectedTickerSet, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, err
	}
	if c.clock.Now().Sub(info.ModTime()) >= c.window {
		return nil, errStale
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readCacheCSV(f)
}

func readCacheCSV(r io.Reader) (*contracts.SelectedTickerSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(cacheHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ticker cache: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("ticker cache has no rows")
	}
	if records[0][0] != cacheHeader[0] {
		return nil, fmt.Errorf("unexpected ticker cache header %v", records[0])
	}

	set := &contracts.SelectedTickerSet{}
	for i, rec := range records[1:] {
		symbol := strings.TrimSpace(rec[0])
		if symbol == "" {
			return nil, fmt.Errorf("empty ticker on row %d", i+2)
		}

		if set.ValidatedAt.IsZero() {
			if ts, err := time.ParseInLocation(ValidatedAtLayout, rec[1], time.Local); err == nil {
				set.ValidatedAt = ts
			}
		}

		set.Add(symbol, contracts.TickerSource(strings.TrimSpace(rec[2])))
	}

	return set, nil
}

// Store overwrites the cache file with set, stamping every row with the
// current time. The write goes through a temp file and rename.
// ⭐ SSOT: 검증 결과 파일 쓰기는 여기서만
func (c *Cache) Store(set *contracts.SelectedTickerSet) error {
	now := c.clock.Now()
	set.ValidatedAt = now

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tickers-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	rows := [][]string{cacheHeader}
	// 파일 시각은 로컬 기준 (Load 와 동일)
	stamp := now.Local().Format(ValidatedAtLayout)
	for _, t := range set.Tickers {
		rows = append(rows, []string{t.Symbol, stamp, string(t.Source)})
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write ticker cache: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replace ticker cache: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"path":    c.path,
		"tickers": set.Len(),
	}).Info("Ticker cache written")

	return nil
}
