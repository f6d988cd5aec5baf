package analysis

import (
	"github.com/wonny/b3dash/internal/contracts"
)

// Summary is the headline block shown for a ticker
type Summary struct {
	Symbol         string   `json:"symbol"`
	Price          *float64 `json:"price"`
	PriceFormatted string   `json:"price_formatted,omitempty"`
	Variation      *float64 `json:"variation"` // 기간 변동률 %
	AverageVolume  float64  `json:"average_volume"`
	Volatility     *float64 `json:"volatility"` // 최근 20일 변동성
	Bars           int      `json:"bars"`
}

// BuildSummary combines the snapshot with the period series. The last close
// stands in for a missing quote price and the series mean for a missing
// average volume.
func BuildSummary(symbol string, snap *contracts.Snapshot, bars []contracts.Bar) Summary {
	s := Summary{Symbol: symbol, Bars: len(bars)}

	if snap != nil && snap.Price != nil {
		p := *snap.Price
		s.Price = &p
	} else if len(bars) > 0 {
		p := bars[len(bars)-1].Close
		s.Price = &p
	}
	if s.Price != nil {
		s.PriceFormatted = FormatBRL(*s.Price)
	}

	if v, ok := Variation(bars); ok {
		s.Variation = &v
	}

	if snap != nil && snap.AverageVolume != nil {
		s.AverageVolume = *snap.AverageVolume
	} else {
		s.AverageVolume = AverageVolume(bars)
	}

	vol := RollingStd(DailyReturns(Closes(bars)), VolatilityWindow)
	if v, ok := LastValue(vol); ok {
		s.Volatility = &v
	}

	return s
}
