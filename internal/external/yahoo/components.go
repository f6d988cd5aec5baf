package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/b3dash/internal/contracts"
)

// maxComponentRows caps how many index components are read from the page
const maxComponentRows = 20

// FetchCandidates scrapes the index components page and returns symbols in
// page order, suffixed for B3
func (c *Client) FetchCandidates(ctx context.Context) ([]string, error) {
	pageURL := fmt.Sprintf("%s/quote/%s/components/", c.webURL, url.PathEscape(c.indexSymbol))

	body, err := c.httpClient.GetBody(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch components page: %w", err)
	}

	symbols, err := parseComponents(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"index": c.indexSymbol,
		"count": len(symbols),
	}).Debug("Fetched index components")

	if len(symbols) == 0 {
		return nil, ErrNoData
	}
	return symbols, nil
}

// parseComponents reads the first column of the first components table
func parseComponents(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse components page: %w", err)
	}

	var symbols []string
	seen := make(map[string]bool)

	doc.Find("table").First().Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true // header or malformed row
		}

		symbol := contracts.NormalizeSymbol(cells.Eq(0).Text())
		if symbol == "" || seen[symbol] {
			return true
		}

		seen[symbol] = true
		symbols = append(symbols, symbol)
		return len(symbols) < maxComponentRows
	})

	return symbols, nil
}
