package analysis

import (
	"math"

	"github.com/wonny/b3dash/internal/contracts"
)

// Moving average and volatility windows
const (
	MAShort          = 20
	MAMedium         = 50
	MALong           = 200
	VolatilityWindow = 20
)

// IndicatorRow is one daily bar with its derived series values.
// A nil field means the window is not yet filled.
type IndicatorRow struct {
	contracts.Bar
	MA20        *float64 `json:"ma20"`
	MA50        *float64 `json:"ma50"`
	MA200       *float64 `json:"ma200"`
	DailyReturn *float64 `json:"daily_return"` // %
	Volatility  *float64 `json:"volatility"`   // 일간 수익률 20일 표준편차
}

// Indicators derives moving averages, daily returns and rolling volatility
// ⭐ SSOT: 기술적 지표 계산은 여기서만
func Indicators(bars []contracts.Bar) []IndicatorRow {
	closes := Closes(bars)
	ma20 := SMA(closes, MAShort)
	ma50 := SMA(closes, MAMedium)
	ma200 := SMA(closes, MALong)
	returns := DailyReturns(closes)
	vol := RollingStd(returns, VolatilityWindow)

	rows := make([]IndicatorRow, len(bars))
	for i, bar := range bars {
		rows[i] = IndicatorRow{
			Bar:         bar,
			MA20:        ma20[i],
			MA50:        ma50[i],
			MA200:       ma200[i],
			DailyReturn: returns[i],
			Volatility:  vol[i],
		}
	}
	return rows
}

// Closes extracts closing prices
func Closes(bars []contracts.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// SMA returns the simple moving average over window; the first window-1
// entries are nil
func SMA(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			avg := sum / float64(window)
			out[i] = &avg
		}
	}
	return out
}

// DailyReturns returns the day-over-day change in percent; the first entry
// and any change from a zero close are nil
func DailyReturns(closes []float64) []*float64 {
	out := make([]*float64, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		r := (closes[i]/closes[i-1] - 1) * 100
		out[i] = &r
	}
	return out
}

// RollingStd returns the sample standard deviation over window. A window
// containing a nil value yields nil.
func RollingStd(values []*float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window < 2 {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		if std, ok := sampleStd(values[i-window+1 : i+1]); ok {
			out[i] = &std
		}
	}
	return out
}

func sampleStd(values []*float64) (float64, bool) {
	var sum float64
	for _, v := range values {
		if v == nil {
			return 0, false
		}
		sum += *v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := *v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1)), true
}

// Variation returns the percent change from the first to the last close
func Variation(bars []contracts.Bar) (float64, bool) {
	if len(bars) < 2 || bars[0].Close == 0 {
		return 0, false
	}
	return (bars[len(bars)-1].Close/bars[0].Close - 1) * 100, true
}

// AverageVolume returns the mean daily volume
func AverageVolume(bars []contracts.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	var sum float64
	for _, b := range bars {
		sum += float64(b.Volume)
	}
	return sum / float64(len(bars))
}

// LastValue returns the last non-nil entry of a series
func LastValue(series []*float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] != nil {
			return *series[i], true
		}
	}
	return 0, false
}
