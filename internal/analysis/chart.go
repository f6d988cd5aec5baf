package analysis

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/wonny/b3dash/internal/contracts"
)

// RenderPriceChart renders closes with MA20/MA50/MA200 overlays as PNG.
// Averages that never fill their window are left out.
func RenderPriceChart(symbol string, bars []contracts.Bar) ([]byte, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("need at least 2 bars, got %d", len(bars))
	}

	dates := make([]time.Time, len(bars))
	for i, b := range bars {
		dates[i] = b.Date
	}
	closes := Closes(bars)

	series := []chart.Series{
		chart.TimeSeries{
			Name: "Fechamento",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"),
				StrokeWidth: 2,
			},
			XValues: dates,
			YValues: closes,
		},
	}

	overlays := []struct {
		name   string
		window int
		color  string
	}{
		{"MM20", MAShort, "f59e0b"},
		{"MM50", MAMedium, "10b981"},
		{"MM200", MALong, "ef4444"},
	}
	for _, o := range overlays {
		if s, ok := maSeries(o.name, dates, SMA(closes, o.window), o.color); ok {
			series = append(series, s)
		}
	}

	graph := chart.Chart{
		Title:  symbol,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("01/06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return FormatBRL(f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// maSeries keeps only the defined part of a moving average
func maSeries(name string, dates []time.Time, ma []*float64, color string) (chart.TimeSeries, bool) {
	var xs []time.Time
	var ys []float64
	for i, v := range ma {
		if v == nil {
			continue
		}
		xs = append(xs, dates[i])
		ys = append(ys, *v)
	}
	if len(xs) < 2 {
		return chart.TimeSeries{}, false
	}

	return chart.TimeSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex(color),
			StrokeWidth:     1.2,
			StrokeDashArray: []float64{4.0, 2.0},
		},
		XValues: xs,
		YValues: ys,
	}, true
}
