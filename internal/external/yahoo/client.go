package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wonny/b3dash/pkg/config"
	"github.com/wonny/b3dash/pkg/httputil"
	"github.com/wonny/b3dash/pkg/logger"
)

var (
	// ErrNotFound is returned when Yahoo does not know the symbol
	ErrNotFound = errors.New("yahoo: symbol not found")
	// ErrNoData is returned when a response carries no usable rows
	ErrNoData = errors.New("yahoo: no data")
)

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	queryURL    string
	webURL      string
	indexSymbol string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	indexSymbol := cfg.IndexSymbol
	if indexSymbol == "" {
		indexSymbol = "^BVSP"
	}

	return &Client{
		httpClient:  httpClient,
		logger:      log,
		queryURL:    strings.TrimRight(cfg.QueryURL, "/"),
		webURL:      strings.TrimRight(cfg.WebURL, "/"),
		indexSymbol: indexSymbol,
	}
}

// fetchJSON GETs url and decodes the body into dest
func (c *Client) fetchJSON(ctx context.Context, url string, dest interface{}) error {
	body, err := c.httpClient.GetBody(ctx, url)
	if err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
			return ErrNotFound
		}
		return fmt.Errorf("HTTP request failed: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError is the error object embedded in Yahoo JSON envelopes
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) asError() error {
	if e == nil {
		return nil
	}
	if strings.EqualFold(e.Code, "Not Found") {
		return ErrNotFound
	}
	return fmt.Errorf("yahoo error %s: %s", e.Code, e.Description)
}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v *rawValue) value() *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}
