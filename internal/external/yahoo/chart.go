package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wonny/b3dash/internal/contracts"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Currency  string `json:"currency"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// FetchHistory fetches daily bars for a symbol in [from, to]
// ⭐ SSOT: 일봉 이력 호출은 이 함수에서만
func (c *Client) FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Bar, error) {
	query := fmt.Sprintf("period1=%d&period2=%d&interval=1d&events=history", from.Unix(), to.Unix())
	return c.fetchChart(ctx, symbol, query)
}

// FetchRecentHistory fetches the last `days` trading sessions.
// Weekends and holidays do not shrink the window.
func (c *Client) FetchRecentHistory(ctx context.Context, symbol string, days int) ([]contracts.Bar, error) {
	query := fmt.Sprintf("range=%dd&interval=1d", days)
	return c.fetchChart(ctx, symbol, query)
}

func (c *Client) fetchChart(ctx context.Context, symbol, query string) ([]contracts.Bar, error) {
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.queryURL, url.PathEscape(symbol), query)

	var resp chartResponse
	if err := c.fetchJSON(ctx, fullURL, &resp); err != nil {
		return nil, err
	}
	if err := resp.Chart.Error.asError(); err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 {
		return nil, ErrNoData
	}

	bars := parseBars(resp.Chart.Result[0])

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched history")

	return bars, nil
}

// parseBars zips the parallel arrays, skipping rows with any null price
func parseBars(r chartResult) []contracts.Bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]
	zone := time.FixedZone("exchange", r.Meta.GMTOffset)

	bars := make([]contracts.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		open, high, low, closePrice := at(q.Open, i), at(q.High, i), at(q.Low, i), at(q.Close, i)
		if open == nil || high == nil || low == nil || closePrice == nil {
			continue
		}

		var volume int64
		if v := at(q.Volume, i); v != nil {
			volume = int64(*v)
		}

		local := time.Unix(ts, 0).In(zone)
		bars = append(bars, contracts.Bar{
			Date:   time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Open:   *open,
			High:   *high,
			Low:    *low,
			Close:  *closePrice,
			Volume: volume,
		})
	}
	return bars
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
