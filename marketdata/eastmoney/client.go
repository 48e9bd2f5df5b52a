// Package eastmoney fetches the convertible-bond comparison table from the
// East Money quote API and the JiSiLu redemption list. It is a collaborator
// outside the valuation core: the engine receives its output already
// fetched and performs no I/O of its own.
package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/meenmo/cblib/calendar"
	"github.com/meenmo/cblib/marketdata"
)

const (
	// DefaultBaseURL is the East Money push2 quote endpoint.
	DefaultBaseURL = "https://push2.eastmoney.com/api/qt/clist/get"

	// DefaultRedeemURL is the JiSiLu convertible redemption list.
	DefaultRedeemURL = "https://www.jisilu.cn/data/cbnew/redeem_list/"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default request rate (requests per second).
	DefaultRateLimit = 5
)

// Client is an East Money / JiSiLu market-data client.
type Client struct {
	baseURL       string
	redeemURL     string
	httpClient    *http.Client
	logger        *log.Logger
	limiter       *rate.Limiter
	maxRetries    int
	retryInterval time.Duration
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom quote endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithRedeemURL sets a custom redemption-list endpoint.
func WithRedeemURL(redeemURL string) ClientOption {
	return func(c *Client) { c.redeemURL = redeemURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger sets a logger.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithRateLimit sets a custom request rate.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithRetries sets the retry budget and backoff interval.
func WithRetries(maxRetries int, interval time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryInterval = interval
	}
}

// NewClient creates a market-data client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		redeemURL:     DefaultRedeemURL,
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		limiter:       rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		maxRetries:    3,
		retryInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchComparison returns the full-market convertible comparison table as
// bond records, merged with redemption data (maturity, outstanding size,
// forced-redemption status) when the redemption endpoint responds.
func (c *Client) FetchComparison(ctx context.Context) ([]marketdata.BondRecord, error) {
	rows, err := c.fetchQuoteRows(ctx)
	if err != nil {
		return nil, err
	}

	// Quotes describe the last session: roll a non-trading fetch day back
	// to the previous CN trading day.
	obs := time.Now().UTC().Truncate(24 * time.Hour)
	if !calendar.IsTradingDay(calendar.CHN, obs) {
		obs = calendar.AddTradingDays(calendar.CHN, obs, -1)
	}
	records := make([]marketdata.BondRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.toRecord(obs)
		if rec.Code == "" {
			continue
		}
		records = append(records, rec)
	}

	if redeem, err := c.fetchRedeemRows(ctx); err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Msg("redemption list unavailable, records carry quote data only")
		}
	} else {
		mergeRedeem(records, redeem)
	}

	if c.logger != nil {
		c.logger.Info().Int("records", len(records)).Msg("fetched convertible comparison table")
	}
	return records, nil
}

func (c *Client) fetchQuoteRows(ctx context.Context) ([]quoteRow, error) {
	params := url.Values{
		"pn":     {"1"},
		"pz":     {"1000"},
		"po":     {"1"},
		"np":     {"1"},
		"fltt":   {"2"},
		"invt":   {"2"},
		"fid":    {"f243"},
		"fs":     {"b:MK0354"}, // convertible bond board
		"fields": {quoteFields},
	}

	var resp quoteResponse
	if err := c.getJSON(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("eastmoney: fetch comparison: %w", err)
	}
	if resp.RC != 0 {
		return nil, fmt.Errorf("eastmoney: api rc=%d", resp.RC)
	}
	return resp.Data.Diff, nil
}

func (c *Client) fetchRedeemRows(ctx context.Context) ([]redeemRow, error) {
	var resp redeemResponse
	if err := c.getJSON(ctx, c.redeemURL, &resp); err != nil {
		return nil, fmt.Errorf("eastmoney: fetch redeem list: %w", err)
	}
	rows := make([]redeemRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, r.Cell)
	}
	return rows, nil
}

// getJSON performs a rate-limited GET with retries and decodes the body.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryInterval):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "cblib/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("request failed")
			}
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		if err := json.Unmarshal(body, out); err != nil {
			lastErr = fmt.Errorf("decode: %w", err)
			continue
		}
		return nil
	}
	return fmt.Errorf("after %d attempts: %w", c.maxRetries+1, lastErr)
}
