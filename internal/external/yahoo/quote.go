package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/b3dash/internal/contracts"
)

const quoteSummaryModules = "price,summaryDetail,financialData,defaultKeyStatistics"

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price *struct {
		RegularMarketPrice *rawValue `json:"regularMarketPrice"`
		Currency           string    `json:"currency"`
	} `json:"price"`
	SummaryDetail *struct {
		AverageVolume *rawValue `json:"averageVolume"`
		TrailingPE    *rawValue `json:"trailingPE"`
		DividendYield *rawValue `json:"dividendYield"`
		Currency      string    `json:"currency"`
	} `json:"summaryDetail"`
	FinancialData *struct {
		ReturnOnEquity *rawValue `json:"returnOnEquity"`
		ProfitMargins  *rawValue `json:"profitMargins"`
		CurrentRatio   *rawValue `json:"currentRatio"`
		DebtToEquity   *rawValue `json:"debtToEquity"`
	} `json:"financialData"`
	DefaultKeyStatistics *struct {
		EnterpriseToEbitda *rawValue `json:"enterpriseToEbitda"`
		PriceToBook        *rawValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
}

// FetchSnapshot fetches the current price, currency, average volume and
// fundamentals for a symbol
// ⭐ SSOT: 종목 스냅샷 호출은 이 함수에서만
func (c *Client) FetchSnapshot(ctx context.Context, symbol string) (*contracts.Snapshot, error) {
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.queryURL, url.PathEscape(symbol), url.QueryEscape(quoteSummaryModules))

	var resp quoteSummaryResponse
	if err := c.fetchJSON(ctx, fullURL, &resp); err != nil {
		return nil, err
	}
	if err := resp.QuoteSummary.Error.asError(); err != nil {
		return nil, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, ErrNoData
	}

	return toSnapshot(symbol, resp.QuoteSummary.Result[0]), nil
}

// toSnapshot flattens the quoteSummary modules; absent modules leave nil fields
func toSnapshot(symbol string, r quoteSummaryResult) *contracts.Snapshot {
	snap := &contracts.Snapshot{Symbol: symbol}

	if r.Price != nil {
		snap.Price = r.Price.RegularMarketPrice.value()
		snap.Currency = r.Price.Currency
	}

	if r.SummaryDetail != nil {
		snap.AverageVolume = r.SummaryDetail.AverageVolume.value()
		snap.Fundamentals.PE = r.SummaryDetail.TrailingPE.value()
		snap.Fundamentals.DividendYield = r.SummaryDetail.DividendYield.value()
		if snap.Currency == "" {
			snap.Currency = r.SummaryDetail.Currency
		}
	}

	if r.FinancialData != nil {
		snap.Fundamentals.ROE = r.FinancialData.ReturnOnEquity.value()
		snap.Fundamentals.NetMargin = r.FinancialData.ProfitMargins.value()
		snap.Fundamentals.CurrentRatio = r.FinancialData.CurrentRatio.value()
		snap.Fundamentals.DebtToEquity = r.FinancialData.DebtToEquity.value()
	}

	if r.DefaultKeyStatistics != nil {
		snap.Fundamentals.EVToEBITDA = r.DefaultKeyStatistics.EnterpriseToEbitda.value()
		snap.Fundamentals.PB = r.DefaultKeyStatistics.PriceToBook.value()
	}

	return snap
}
