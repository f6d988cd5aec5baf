package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/b3dash/internal/contracts"
)

func barsFromCloses(closes ...float64) []contracts.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.Bar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: int64(100 * (i + 1))}
	}
	return bars
}

func ptr(v float64) *float64 {
	return &v
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)

	require.Len(t, got, 5)
	assert.Nil(t, got[0])
	assert.Nil(t, got[1])
	assert.InDelta(t, 2.0, *got[2], 1e-12)
	assert.InDelta(t, 3.0, *got[3], 1e-12)
	assert.InDelta(t, 4.0, *got[4], 1e-12)

	// Window larger than series
	for _, v := range SMA([]float64{1, 2}, 20) {
		assert.Nil(t, v)
	}
}

func TestDailyReturns(t *testing.T) {
	got := DailyReturns([]float64{10, 11, 0, 5})

	assert.Nil(t, got[0])
	assert.InDelta(t, 10.0, *got[1], 1e-9)
	assert.InDelta(t, -100.0, *got[2], 1e-9)
	assert.Nil(t, got[3], "change from zero is undefined")
}

func TestRollingStd(t *testing.T) {
	values := []*float64{nil, ptr(2), ptr(4), ptr(4), ptr(4), ptr(5), ptr(5), ptr(7), ptr(9)}
	got := RollingStd(values, 8)

	for i := 0; i < 8; i++ {
		assert.Nil(t, got[i])
	}
	// Sample std of 2,4,4,4,5,5,7,9 = sqrt(32/7)
	require.NotNil(t, got[8])
	assert.InDelta(t, math.Sqrt(32.0/7.0), *got[8], 1e-12)
}

func TestIndicators_VolatilityStartsAfterFullReturnWindow(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 + float64(i%3)
	}
	rows := Indicators(barsFromCloses(closes...))

	require.Len(t, rows, 25)
	assert.Nil(t, rows[19].Volatility)
	assert.NotNil(t, rows[20].Volatility)
	assert.NotNil(t, rows[19].MA20)
	assert.Nil(t, rows[18].MA20)
	assert.Nil(t, rows[24].MA50)
	assert.Nil(t, rows[24].MA200)
	assert.Equal(t, closes[5], rows[5].Close)
}

func TestVariation(t *testing.T) {
	v, ok := Variation(barsFromCloses(20, 22, 25))
	require.True(t, ok)
	assert.InDelta(t, 25.0, v, 1e-9)

	_, ok = Variation(barsFromCloses(20))
	assert.False(t, ok)

	_, ok = Variation(barsFromCloses(0, 10))
	assert.False(t, ok)
}

func TestAverageVolume(t *testing.T) {
	assert.Equal(t, 200.0, AverageVolume(barsFromCloses(1, 1, 1)))
	assert.Equal(t, 0.0, AverageVolume(nil))
}

func TestNormalizePeriod(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"", "6m"},
		{"  ", "6m"},
		{"3M", "3m"},
		{"5y", "5y"},
		{"99y", "1y"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePeriod(tt.code), tt.code)
	}
}

func TestPeriodDays(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"1m", 30}, {"3m", 90}, {"6m", 180}, {"1y", 365},
		{"2y", 730}, {"3y", 1095}, {"5y", 1825},
		{"6M", 180}, {"", 365}, {"10y", 365},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PeriodDays(tt.code), tt.code)
	}

	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	from, to := PeriodRange("1m", now)
	assert.Equal(t, now, to)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), from)
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.56, "R$ 1.234,56"},
		{0, "R$ 0,00"},
		{12.3, "R$ 12,30"},
		{1234567.891, "R$ 1.234.567,89"},
		{999.999, "R$ 1.000,00"},
		{-1234.5, "R$ -1.234,50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBRL(tt.in))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.34%", FormatPercent(12.3432))
	assert.Equal(t, "-3.10%", FormatPercent(-3.1))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFundamentalValues(t *testing.T) {
	f := contracts.Fundamentals{
		ROE:           ptr(0.1532),
		NetMargin:     ptr(0.2),
		PE:            ptr(8.5),
		DividendYield: ptr(0.07),
	}

	got := FundamentalValues(f)

	assert.Len(t, got, 4)
	assert.InDelta(t, 15.32, got[MetricROE], 1e-9)
	assert.InDelta(t, 20.0, got[MetricNetMargin], 1e-9)
	assert.InDelta(t, 8.5, got[MetricPE], 1e-9)
	assert.InDelta(t, 7.0, got[MetricDividendYield], 1e-9)
	_, ok := got[MetricPB]
	assert.False(t, ok)
}

func TestFundamentalMetrics(t *testing.T) {
	snap := &contracts.Snapshot{
		AverageVolume: ptr(1234567),
		Fundamentals: contracts.Fundamentals{
			ROE:          ptr(0.25),
			DebtToEquity: ptr(1234.5),
		},
	}

	got := FundamentalMetrics(snap)
	require.Len(t, got, 3)
	assert.Equal(t, Metric{Name: MetricROE, Value: 25, Display: "25.00%"}, got[0])
	assert.Equal(t, MetricDebtToEquity, got[1].Name)
	assert.Equal(t, "1.234,50", got[1].Display)
	assert.Equal(t, MetricAvgVolume3M, got[2].Name)
	assert.Equal(t, "1.234.567", got[2].Display)

	assert.Nil(t, FundamentalMetrics(nil))
}

func TestBuildSummary(t *testing.T) {
	bars := barsFromCloses(10, 11, 12, 13)

	t.Run("snapshot values win", func(t *testing.T) {
		snap := &contracts.Snapshot{Price: ptr(1500.5), AverageVolume: ptr(5e6)}
		s := BuildSummary("VALE3.SA", snap, bars)

		assert.Equal(t, "R$ 1.500,50", s.PriceFormatted)
		assert.Equal(t, 5e6, s.AverageVolume)
		require.NotNil(t, s.Variation)
		assert.InDelta(t, 30.0, *s.Variation, 1e-9)
		assert.Nil(t, s.Volatility, "4 bars cannot fill the window")
		assert.Equal(t, 4, s.Bars)
	})

	t.Run("series fills gaps", func(t *testing.T) {
		s := BuildSummary("VALE3.SA", &contracts.Snapshot{}, bars)

		require.NotNil(t, s.Price)
		assert.Equal(t, 13.0, *s.Price)
		assert.Equal(t, 250.0, s.AverageVolume)
	})

	t.Run("nothing known", func(t *testing.T) {
		s := BuildSummary("VALE3.SA", nil, nil)
		assert.Nil(t, s.Price)
		assert.Empty(t, s.PriceFormatted)
		assert.Nil(t, s.Variation)
	})
}
