// Package marketdata fetches daily price history and options chain
// snapshots from the market-data provider's REST API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/trendwise/options-scanner/internal/series"
)

// Client interface for testability.
type Client interface {
	GetDailyBars(ctx context.Context, ticker string) (*series.Series, error)
	GetOptionChain(ctx context.Context, ticker, contractType string) ([]OptionSnapshot, error)
}

type HTTPClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	lookbackDays int
	limiter      *rate.Limiter
	retryCount   int
	retryDelay   time.Duration
	logger       *zap.Logger
}

func NewClient(baseURL, apiKey string, lookbackDays, ratePerSec int, timeout, retryDelay time.Duration, retryCount int, logger *zap.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:    100,
		MaxConnsPerHost: 10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL:      baseURL,
		apiKey:       apiKey,
		lookbackDays: lookbackDays,
		limiter:      rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec*2),
		retryCount:   retryCount,
		retryDelay:   retryDelay,
		logger:       logger,
	}
}

// GetDailyBars fetches daily OHLCV aggregates for a ticker and returns the
// trailing lookback window as an ordered series. An empty provider response
// yields an empty series, not an error.
func (c *HTTPClient) GetDailyBars(ctx context.Context, ticker string) (*series.Series, error) {
	end := time.Now().UTC()
	// Pull extra calendar days to cover weekends and holidays.
	start := end.AddDate(0, 0, -2*c.lookbackDays)

	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
		c.baseURL, ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))
	params := url.Values{}
	params.Set("adjusted", "true")
	params.Set("sort", "asc")
	params.Set("limit", "5000")

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var resp aggsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding aggregates: %w", err)
	}

	bars := make([]series.Bar, 0, len(resp.Results))
	for _, r := range resp.Results {
		bars = append(bars, series.Bar{
			Date:   time.UnixMilli(r.Timestamp).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	s, err := series.New(bars)
	if err != nil {
		return nil, fmt.Errorf("aggregates for %s: %w", ticker, err)
	}
	return s.Tail(c.lookbackDays), nil
}

// GetOptionChain fetches the options chain snapshot for an underlying,
// restricted to the given contract type ("call" or "put").
func (c *HTTPClient) GetOptionChain(ctx context.Context, ticker, contractType string) ([]OptionSnapshot, error) {
	endpoint := fmt.Sprintf("%s/v3/snapshot/options/%s", c.baseURL, ticker)
	params := url.Values{}
	params.Set("limit", "250")
	if contractType != "" {
		params.Set("contract_type", contractType)
	}

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var resp chainResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding chain snapshot: %w", err)
	}
	return resp.Results, nil
}

// get performs an authenticated GET with rate limiting and retries.
// Retries apply to transport errors, 429s and 5xx responses with
// exponential backoff; 404 and auth failures return immediately.
func (c *HTTPClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	full := endpoint
	if len(params) > 0 {
		full = endpoint + "?" + params.Encode()
	}
	c.logger.Debug("requesting", zap.String("url", endpoint))

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // Exponential backoff
			c.logger.Debug("retrying request", zap.Int("attempt", attempt), zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, ErrAuthFailed
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = ErrRateLimited
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
