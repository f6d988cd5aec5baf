package analysis

import (
	"strings"
	"time"
)

const (
	// DefaultPeriod is used when the requested period is unknown
	DefaultPeriod = "1y"

	// DashboardPeriod is the dashboard's initial selection when none is given
	DashboardPeriod = "6m"
)

var periodDays = map[string]int{
	"1m": 30,
	"3m": 90,
	"6m": 180,
	"1y": 365,
	"2y": 730,
	"3y": 1095,
	"5y": 1825,
}

// Periods lists the accepted period codes in display order
var Periods = []string{"1m", "3m", "6m", "1y", "2y", "3y", "5y"}

// PeriodDays maps a period code to calendar days; unknown codes give 365
func PeriodDays(code string) int {
	if days, ok := periodDays[strings.ToLower(strings.TrimSpace(code))]; ok {
		return days
	}
	return periodDays[DefaultPeriod]
}

// NormalizePeriod resolves a requested code: empty gives DashboardPeriod,
// unknown gives DefaultPeriod
func NormalizePeriod(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return DashboardPeriod
	}
	if _, ok := periodDays[code]; !ok {
		return DefaultPeriod
	}
	return code
}

// PeriodRange returns the [from, to] window ending at now
func PeriodRange(code string, now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -PeriodDays(code)), now
}
