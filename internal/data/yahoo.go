package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	DefaultRange        = "10y"
	DefaultInterval     = "1mo"
)

var ErrMissingSymbol = errors.New("symbol is required")

// ProviderError is a failed request to the quote provider.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // set for rate limit errors
}

func (e *ProviderError) Error() string {
	return e.Message
}

// YahooClient fetches closing prices from the Yahoo Finance chart endpoint.
type YahooClient struct {
	BaseURL string
	Client  *http.Client

	cache *SeriesCache
	l     *zap.Logger
}

// NewYahooClient creates a client. An empty baseURL uses DefaultYahooBaseURL;
// cache may be nil.
func NewYahooClient(baseURL string, cache *SeriesCache, l *zap.Logger) *YahooClient {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &YahooClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
		l:     l,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// MonthlyCloses returns the closing prices of symbol in chronological order,
// skipping periods without a close.
func (c *YahooClient) MonthlyCloses(ctx context.Context, symbol, rng, interval string) ([]float64, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrMissingSymbol
	}
	if rng == "" {
		rng = DefaultRange
	}
	if interval == "" {
		interval = DefaultInterval
	}

	key := CacheKey(c.BaseURL, symbol, rng, interval)
	if cached, ok := c.cache.Get(key); ok {
		c.l.Debug("quote cache hit", zap.String("symbol", symbol), zap.Int("points", len(cached)))
		return cached, nil
	}

	u, err := url.Parse(fmt.Sprintf("%s/v8/finance/chart/%s", c.BaseURL, url.PathEscape(symbol)))
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}
	q := u.Query()
	q.Set("range", rng)
	q.Set("interval", interval)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "invest-forecast/1.0")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		c.l.Warn("quote request failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, errors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	c.l.Info("quote response",
		zap.String("symbol", symbol),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	var body chartResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "quote provider refused the request",
		}
	case http.StatusNotFound:
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "UNKNOWN_SYMBOL",
			Message:    fmt.Sprintf("unknown symbol %q", symbol),
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("quote provider returned status %d", resp.StatusCode),
		}
	}

	if decodeErr != nil {
		return nil, errors.Wrap(decodeErr, "failed to decode chart response")
	}
	if e := body.Chart.Error; e != nil {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "UNKNOWN_SYMBOL",
			Message:    fmt.Sprintf("%s: %s", e.Code, e.Description),
		}
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "UNKNOWN_SYMBOL",
			Message:    fmt.Sprintf("no quotes for %q", symbol),
		}
	}

	raw := body.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v != nil {
			closes = append(closes, *v)
		}
	}

	c.cache.Set(key, closes)
	return closes, nil
}
