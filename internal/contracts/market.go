package contracts

import "time"

// Bar is one daily OHLCV row
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Fundamentals holds the indicators shown on the fundamentals tab.
// Ratios are as reported by the provider (ROE 0.18 means 18%).
type Fundamentals struct {
	ROE           *float64 `json:"roe,omitempty"`
	NetMargin     *float64 `json:"net_margin,omitempty"`
	PE            *float64 `json:"pe,omitempty"`
	PB            *float64 `json:"pb,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	EVToEBITDA    *float64 `json:"ev_ebitda,omitempty"`
	CurrentRatio  *float64 `json:"current_ratio,omitempty"`
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`
}

// Snapshot is the current quote info for a symbol; any field may be missing
type Snapshot struct {
	Symbol        string       `json:"symbol"`
	Price         *float64     `json:"price,omitempty"`
	Currency      string       `json:"currency,omitempty"`
	AverageVolume *float64     `json:"average_volume,omitempty"`
	Fundamentals  Fundamentals `json:"fundamentals"`
}
