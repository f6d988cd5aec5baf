package contracts

import (
	"strings"
	"time"
)

// MarketSuffix is appended to every B3 symbol on Yahoo Finance
const MarketSuffix = ".SA"

// TickerSource labels which selection tier produced a ticker
type TickerSource string

const (
	SourcePrimary    TickerSource = "yahoo"      // 지수 구성종목 스크래핑
	SourceFallback   TickerSource = "fallback"   // 고정 fallback 목록
	SourceAlternates TickerSource = "alternates" // 보조 목록
	SourceDefault    TickerSource = "default"    // 호출자 최후 기본값 (저장 안 함)
)

// NormalizeSymbol trims, upper-cases and appends the market suffix when missing
func NormalizeSymbol(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, MarketSuffix) {
		s += MarketSuffix
	}
	return s
}

// ValidationResult is the liveness verdict for one symbol
type ValidationResult struct {
	Symbol string `json:"symbol"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// SelectedTicker is a member of a selection with its provenance
type SelectedTicker struct {
	Symbol string       `json:"symbol"`
	Source TickerSource `json:"source"`
}

// SelectedTickerSet is the ordered output of ticker selection
// ⭐ SSOT: 선택 결과는 중복 없이 순서를 유지
type SelectedTickerSet struct {
	Tickers     []SelectedTicker `json:"tickers"`
	ValidatedAt time.Time        `json:"validated_at"`
}

// Symbols returns the symbols in selection order
func (s *SelectedTickerSet) Symbols() []string {
	out := make([]string, len(s.Tickers))
	for i, t := range s.Tickers {
		out[i] = t.Symbol
	}
	return out
}

// Contains checks if a symbol is already selected
func (s *SelectedTickerSet) Contains(symbol string) bool {
	for _, t := range s.Tickers {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}

// Add appends a symbol unless it is already present
func (s *SelectedTickerSet) Add(symbol string, source TickerSource) bool {
	if s.Contains(symbol) {
		return false
	}
	s.Tickers = append(s.Tickers, SelectedTicker{Symbol: symbol, Source: source})
	return true
}

// Len returns the number of selected tickers
func (s *SelectedTickerSet) Len() int {
	return len(s.Tickers)
}

// Truncate keeps at most n tickers
func (s *SelectedTickerSet) Truncate(n int) {
	if len(s.Tickers) > n {
		s.Tickers = s.Tickers[:n]
	}
}
