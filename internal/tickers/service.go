package tickers

import (
	"context"
	"sync"

	"github.com/wonny/b3dash/internal/contracts"
	"github.com/wonny/b3dash/pkg/logger"
)

// DegradedWarning is shown when no ticker could be validated
const DegradedWarning = "no ticker could be validated; showing the default list"

// Resolution is the outcome of resolving the active ticker set
type Resolution struct {
	Set       *contracts.SelectedTickerSet `json:"set"`
	FromCache bool                         `json:"from_cache"`
	Degraded  bool                         `json:"degraded"`
	Warning   string                       `json:"warning,omitempty"`
}

// Service ties the cache and the selector together and keeps the last result
// ⭐ SSOT: 활성 종목 목록은 이 서비스에서만 결정
type Service struct {
	selector   *Selector
	cache      *Cache
	defaults   []string
	maxTickers int
	cacheEmpty bool
	logger     *logger.Logger

	mu      sync.Mutex
	current *Resolution
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithCacheEmpty makes the service persist empty selections too
func WithCacheEmpty(enabled bool) ServiceOption {
	return func(s *Service) {
		s.cacheEmpty = enabled
	}
}

// WithDefaults sets the list substituted when selection comes back empty
func WithDefaults(symbols []string) ServiceOption {
	return func(s *Service) {
		s.defaults = normalizeAll(symbols)
	}
}

// NewService creates a ticker service
func NewService(selector *Selector, cache *Cache, log *logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		selector:   selector,
		cache:      cache,
		defaults:   append([]string(nil), defaultFallback...),
		maxTickers: selector.maxTickers,
		logger:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the cached selection when fresh, otherwise selects and
// stores a new one
func (s *Service) Resolve(ctx context.Context) *Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.cache.Load(); ok {
		s.logger.WithField("tickers", set.Len()).Debug("Ticker cache hit")
		return s.setCurrent(&Resolution{Set: set, FromCache: true})
	}

	return s.setCurrent(s.selectAndStore(ctx))
}

// Refresh ignores the cache and forces a new selection
func (s *Service) Refresh(ctx context.Context) *Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setCurrent(s.selectAndStore(ctx))
}

// Current returns the last resolution, or nil before the first Resolve
func (s *Service) Current() *Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) selectAndStore(ctx context.Context) *Resolution {
	set := s.selector.Select(ctx)

	// 중단된 선택은 결과가 아님: 캐시에 쓰지 않음
	if err := ctx.Err(); err != nil {
		s.logger.WithError(err).WithField("tickers", set.Len()).Warn("Selection interrupted, cache not written")
	} else if set.Len() > 0 || s.cacheEmpty {
		if err := s.cache.Store(set); err != nil {
			s.logger.WithError(err).Warn("Failed to store ticker cache")
		}
	}

	if set.Len() == 0 {
		s.logger.Warn("Selection is empty, substituting default tickers")
		return &Resolution{
			Set:      s.defaultSet(set),
			Degraded: true,
			Warning:  DegradedWarning,
		}
	}

	s.logger.WithField("tickers", set.Len()).Info("Ticker selection complete")
	return &Resolution{Set: set}
}

func (s *Service) defaultSet(empty *contracts.SelectedTickerSet) *contracts.SelectedTickerSet {
	set := &contracts.SelectedTickerSet{ValidatedAt: empty.ValidatedAt}
	for _, symbol := range s.defaults {
		set.Add(symbol, contracts.SourceDefault)
	}
	set.Truncate(s.maxTickers)
	return set
}

func (s *Service) setCurrent(r *Resolution) *Resolution {
	s.current = r
	return r
}
