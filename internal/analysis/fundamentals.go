package analysis

import (
	"github.com/wonny/b3dash/internal/contracts"
)

// Metric is one named fundamental value ready for display
type Metric struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Metric names, shared with the export header
const (
	MetricROE           = "ROE"
	MetricNetMargin     = "Margem_Liquida"
	MetricPE            = "P/L"
	MetricPB            = "P/VP"
	MetricDividendYield = "Dividend_Yield"
	MetricEVToEBITDA    = "EV/EBITDA"
	MetricCurrentRatio  = "Liquidez_Corrente"
	MetricDebtToEquity  = "Divida/Patrimonio"
	MetricAvgVolume3M   = "Volume_Medio_3M"
)

// FundamentalNames lists the fundamentals in export order
var FundamentalNames = []string{
	MetricROE, MetricNetMargin, MetricPE, MetricPB, MetricDividendYield,
	MetricEVToEBITDA, MetricCurrentRatio, MetricDebtToEquity,
}

// FundamentalValues returns the fundamentals keyed by name. Ratios reported
// as fractions (ROE, net margin, dividend yield) are scaled to percent;
// absent values are omitted.
func FundamentalValues(f contracts.Fundamentals) map[string]float64 {
	out := make(map[string]float64)
	put := func(name string, v *float64, scale float64) {
		if v != nil {
			out[name] = *v * scale
		}
	}

	put(MetricROE, f.ROE, 100)
	put(MetricNetMargin, f.NetMargin, 100)
	put(MetricPE, f.PE, 1)
	put(MetricPB, f.PB, 1)
	put(MetricDividendYield, f.DividendYield, 100)
	put(MetricEVToEBITDA, f.EVToEBITDA, 1)
	put(MetricCurrentRatio, f.CurrentRatio, 1)
	put(MetricDebtToEquity, f.DebtToEquity, 1)

	return out
}

// FundamentalMetrics returns the snapshot fundamentals in display order,
// followed by the 3-month average volume when known
func FundamentalMetrics(snap *contracts.Snapshot) []Metric {
	if snap == nil {
		return nil
	}

	values := FundamentalValues(snap.Fundamentals)
	metrics := make([]Metric, 0, len(values)+1)
	for _, name := range FundamentalNames {
		v, ok := values[name]
		if !ok {
			continue
		}
		metrics = append(metrics, Metric{Name: name, Value: v, Display: displayMetric(name, v)})
	}

	if snap.AverageVolume != nil {
		metrics = append(metrics, Metric{
			Name:    MetricAvgVolume3M,
			Value:   *snap.AverageVolume,
			Display: FormatNumberBR(*snap.AverageVolume, 0),
		})
	}

	return metrics
}

func displayMetric(name string, v float64) string {
	switch name {
	case MetricROE, MetricNetMargin, MetricDividendYield:
		return FormatPercent(v)
	default:
		return FormatNumberBR(v, 2)
	}
}
