// Package marketdata provides a quote client with per-symbol fallback
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Compile-time interface check
var _ interfaces.QuoteClient = (*Client)(nil)

// Client fetches quote snapshots from a Yahoo-style quote endpoint. It never
// returns an error across its boundary: failed symbols degrade to the fixed
// fallback quote and are flagged as such.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new market data client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// quoteResponse mirrors the provider's batch quote payload.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                      string   `json:"symbol"`
			RegularMarketPrice          *float64 `json:"regularMarketPrice"`
			RegularMarketChangePercent  *float64 `json:"regularMarketChangePercent"`
			TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
			TrailingPE                  *float64 `json:"trailingPE"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// FetchQuotes retrieves quotes for the given symbols in one batch request.
// Every requested symbol is present in the result; symbols the provider did
// not return, and the whole set on transport failure, carry the fixed
// fallback quote.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) models.QuoteSet {
	quotes := make(models.QuoteSet, len(symbols))
	if len(symbols) == 0 {
		return quotes
	}

	resp, err := c.fetchBatch(ctx, symbols)
	if err != nil {
		c.logger.Warn().Err(err).Int("symbols", len(symbols)).Msg("Quote fetch failed - using fallback quotes")
		for _, s := range symbols {
			quotes[s] = models.FallbackQuote(s)
		}
		return quotes
	}

	for _, r := range resp.QuoteResponse.Result {
		if r.Symbol == "" || r.RegularMarketPrice == nil {
			continue
		}
		q := &models.Quote{
			Symbol: r.Symbol,
			Price:  *r.RegularMarketPrice,
		}
		if r.RegularMarketChangePercent != nil {
			q.ChangePct = *r.RegularMarketChangePercent
		}
		if r.TrailingAnnualDividendYield != nil {
			q.DividendYieldPct = *r.TrailingAnnualDividendYield * 100
		}
		if r.TrailingPE != nil {
			q.PERatio = *r.TrailingPE
			q.PEKnown = true
		}
		quotes[r.Symbol] = q
	}

	for _, s := range symbols {
		if _, ok := quotes[s]; !ok {
			c.logger.Warn().Str("symbol", s).Msg("No quote returned - using fallback")
			quotes[s] = models.FallbackQuote(s)
		}
	}

	return quotes
}

// fetchBatch performs one rate-limited GET against the quote endpoint.
func (c *Client) fetchBatch(ctx context.Context, symbols []string) (*quoteResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))

	reqURL := fmt.Sprintf("%s/v7/finance/quote?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "folio/"+common.GetVersion())

	c.logger.Debug().Int("symbols", len(symbols)).Msg("Quote API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("quote API error: status %d: %s", resp.StatusCode, string(body))
	}

	var result quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
