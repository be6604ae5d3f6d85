// Package scryfall provides a rate-limited client for the Scryfall card
// search API, covering the card search, set catalog, and autocomplete
// endpoints the quiz engine depends on.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger used for degraded-mode events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// Rate limiter: 1 request per 100ms = 10 req/sec
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "cardquiz/1.0",
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchCards fetches one page of card search results for a query.
// Page numbers start at 1.
func (c *Client) SearchCards(ctx context.Context, query string, page int) (*SearchPage, error) {
	params := url.Values{}
	params.Set("q", query)
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	reqURL := fmt.Sprintf("%s/cards/search?%s", c.baseURL, params.Encode())

	var result SearchPage
	if err := c.doRequest(ctx, reqURL, &result); err != nil {
		return nil, fmt.Errorf("failed to search cards with query %q page %d: %w", query, page, err)
	}

	return &result, nil
}

// Sets retrieves the set catalog, filtered to core sets and expansions
// and sorted by release date, newest first. Promotional, digital-only,
// and supplemental products are excluded from the quiz set picker.
func (c *Client) Sets(ctx context.Context) ([]Set, error) {
	reqURL := fmt.Sprintf("%s/sets", c.baseURL)

	var list SetList
	if err := c.doRequest(ctx, reqURL, &list); err != nil {
		return nil, fmt.Errorf("failed to get sets: %w", err)
	}

	sets := make([]Set, 0, len(list.Data))
	for _, s := range list.Data {
		if s.SetType == "core" || s.SetType == "expansion" {
			sets = append(sets, s)
		}
	}
	sort.SliceStable(sets, func(i, j int) bool {
		return sets[i].ReleasedAt > sets[j].ReleasedAt
	})

	return sets, nil
}

// Autocomplete returns card name suggestions for a prefix using the
// global (unscoped) autocomplete endpoint. Failures are non-fatal:
// autocomplete degrades to an empty list rather than surfacing an error.
func (c *Client) Autocomplete(ctx context.Context, prefix string) []string {
	params := url.Values{}
	params.Set("q", prefix)
	reqURL := fmt.Sprintf("%s/cards/autocomplete?%s", c.baseURL, params.Encode())

	var catalog Catalog
	if err := c.doRequest(ctx, reqURL, &catalog); err != nil {
		c.logger.Debug("autocomplete request failed", "prefix", prefix, "error", err)
		return nil
	}

	return catalog.Data
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, reqURL string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return &TransportError{Op: "rate limit wait", Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return &TransportError{Op: "create request", Err: err}
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &TransportError{Op: "http request", Err: err}

			// Retry on network errors
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		err = c.handleResponse(resp, result)
		if err == nil {
			return nil
		}

		// Rate limited: honor Retry-After when present, otherwise back off.
		var se *ServiceError
		if errors.As(err, &se) && se.Status == http.StatusTooManyRequests {
			lastErr = err
			if attempt < maxRetries {
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if duration, parseErr := time.ParseDuration(retryAfter + "s"); parseErr == nil {
						time.Sleep(duration)
					} else {
						time.Sleep(backoff)
					}
				} else {
					time.Sleep(backoff)
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		return err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse reads and decodes an HTTP response, translating failures
// into the ServiceError/TransportError taxonomy.
func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response body", Err: err}
	}

	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(body, result); err != nil {
			return &TransportError{Op: "parse JSON response", Err: err}
		}
		return nil
	}

	// Non-success status: prefer the structured service error when the
	// body carries one, otherwise surface a generic HTTP-status error.
	var se ServiceError
	if err := json.Unmarshal(body, &se); err == nil && (se.Details != "" || se.Code != "") {
		if se.Status == 0 {
			se.Status = resp.StatusCode
		}
		return &se
	}

	return &ServiceError{
		Status:  resp.StatusCode,
		Code:    http.StatusText(resp.StatusCode),
		Details: fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}
}

// minDuration returns the minimum of two time.Duration values.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
