// Package remote fetches the keyword table from an HTTP keyword service
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

const (
	maxAttempts     = 3
	maxBodyBytes    = 8 << 20
	defaultPageSize = 1000
)

// Client handles communication with the keyword service
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	pageSize    int
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
	debug       bool
}

// NewClient creates a new keyword service client.
// requestsPerHour <= 0 disables rate limiting.
func NewClient(apiKey, baseURL string, requestsPerHour int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerHour > 0 {
		// rate.Limit is per second; allow a small burst for paging
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		pageSize:    defaultPageSize,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
		logger:      logger,
	}
}

// SetDebug enables logging of every request and response status
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// FetchAllKeywords pages through /v1/keywords until a short page is returned
func (c *Client) FetchAllKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	var all []domain.KeywordEntry

	for offset := 0; ; offset += c.pageSize {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, MapToKeywordEntries(page.Keywords)...)

		if len(page.Keywords) < c.pageSize || (page.Total > 0 && offset+len(page.Keywords) >= page.Total) {
			break
		}
	}

	c.logger.Info("fetched keywords from service", zap.Int("entries", len(all)), zap.String("base_url", c.baseURL))
	return all, nil
}

// fetchPage requests one page, retrying transport errors, 429 and 5xx
func (c *Client) fetchPage(ctx context.Context, offset int) (*keywordPage, error) {
	params := url.Values{}
	params.Add("limit", fmt.Sprintf("%d", c.pageSize))
	params.Add("offset", fmt.Sprintf("%d", offset))
	reqURL := fmt.Sprintf("%s/v1/keywords?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		page, retry, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return page, nil
		}
		if !retry {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("keyword request failed",
			zap.Int("attempt", attempt),
			zap.Int("offset", offset),
			zap.Error(err))

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	return nil, lastErr
}

// doRequest executes one GET and reports whether a failure is worth retrying
func (c *Client) doRequest(ctx context.Context, reqURL string) (*keywordPage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "pantry-interpreter/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrKeywordSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrKeywordSourceUnavailable, err)
	}

	if c.debug {
		c.logger.Debug("keyword service response",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(body)))
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d", domain.ErrKeywordSourceUnavailable, resp.StatusCode)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, err
	}

	var page keywordPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrKeywordSourceUnavailable, err)
	}
	return &page, false, nil
}
