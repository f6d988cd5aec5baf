package tickers

import (
	"context"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
	"github.com/wonny/b3dash/pkg/metrics"
)

// CandidateSource yields tier 1 candidate symbols in priority order
type CandidateSource interface {
	FetchCandidates(ctx context.Context) ([]string, error)
}

// Selector runs the three-tier selection chain
type Selector struct {
	source     CandidateSource
	validator  *Validator
	lists      Lists
	maxTickers int
	clock      Clock
	logger     *logger.Logger
	metrics    *metrics.Recorder
}

// NewSelector creates a selector
func NewSelector(source CandidateSource, validator *Validator, lists Lists, maxTickers int, clock Clock, log *logger.Logger, rec *metrics.Recorder) *Selector {
	if maxTickers <= 0 {
		maxTickers = 15
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Selector{
		source:     source,
		validator:  validator,
		lists:      lists,
		maxTickers: maxTickers,
		clock:      clock,
		logger:     log,
		metrics:    rec,
	}
}

// Select returns up to maxTickers validated symbols without duplicates.
// Tier 1 is the remote candidate list; if it cannot fill the set, selection
// restarts from the fallback list and tops up from the alternates.
// The result may be short or empty; it never fails.
// ⭐ SSOT: 종목 선택 3단계 체인
func (s *Selector) Select(ctx context.Context) *contracts.SelectedTickerSet {
	set := s.selectPrimary(ctx)
	if set.Len() >= s.maxTickers || ctx.Err() != nil {
		return s.finish(set)
	}

	// Tier 2 starts over; tier 1 partial results are discarded
	set = &contracts.SelectedTickerSet{}
	s.accept(ctx, set, s.lists.Fallback, contracts.SourceFallback)
	if set.Len() >= s.maxTickers {
		return s.finish(set)
	}

	s.accept(ctx, set, s.lists.Alternates, contracts.SourceAlternates)
	if set.Len() < s.maxTickers {
		s.logger.WithFields(map[string]interface{}{
			"selected": set.Len(),
			"wanted":   s.maxTickers,
		}).Warn("Ticker lists exhausted before filling selection")
	}

	return s.finish(set)
}

func (s *Selector) selectPrimary(ctx context.Context) *contracts.SelectedTickerSet {
	set := &contracts.SelectedTickerSet{}

	candidates, err := s.source.FetchCandidates(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Candidate fetch failed, using fallback list")
		return set
	}
	if len(candidates) == 0 {
		s.logger.Warn("No candidates returned, using fallback list")
		return set
	}

	s.accept(ctx, set, candidates, contracts.SourcePrimary)
	s.logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"accepted":   set.Len(),
	}).Info("Primary candidates validated")

	return set
}

// accept validates symbols in order until the set is full. Symbols already
// present are skipped without a remote call.
func (s *Selector) accept(ctx context.Context, set *contracts.SelectedTickerSet, symbols []string, source contracts.TickerSource) {
	for _, raw := range symbols {
		if set.Len() >= s.maxTickers {
			return
		}
		if ctx.Err() != nil {
			s.logger.WithError(ctx.Err()).Warn("Selection interrupted")
			return
		}

		symbol := contracts.NormalizeSymbol(raw)
		if symbol == "" || set.Contains(symbol) {
			continue
		}

		if result := s.validator.Validate(ctx, symbol); result.Valid {
			set.Add(symbol, source)
			s.metrics.RecordAccepted(string(source))
		}
	}
}

func (s *Selector) finish(set *contracts.SelectedTickerSet) *contracts.SelectedTickerSet {
	set.Truncate(s.maxTickers)
	set.ValidatedAt = s.clock.Now()
	return set
}
