// Package scryfall fetches card data from a Scryfall-style card
// database API: full-text search, named lookup with a fuzzy fallback,
// autocomplete, random cards, and batched collection lookups.
package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/knack117/mightstone-gpt/internal/upstream"
)

const (
	providerName = "scryfall"

	defaultBaseURL         = "https://api.scryfall.com"
	defaultRequestInterval = 100 * time.Millisecond
	defaultTimeout         = 20 * time.Second
	defaultRetryDelay      = 1 * time.Second
	defaultMaxRetryDelay   = 5 * time.Second
)

// Client is a card database client with rate limiting.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	baseURL       string
	userAgent     string
	maxRetryDelay time.Duration
}

// Options configures the card database client. Zero fields take defaults.
type Options struct {
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// UserAgent identifies the service to the provider.
	UserAgent string

	// RequestInterval is the minimum spacing between outbound calls.
	RequestInterval time.Duration

	// MaxRetryDelay caps how long a provider-suggested retry delay is honored.
	MaxRetryDelay time.Duration

	// Timeout for HTTP requests.
	Timeout time.Duration

	// HTTPClient allows a custom HTTP client.
	HTTPClient *http.Client

	// Limiter overrides the request limiter shared by every request
	// through this client.
	Limiter *rate.Limiter
}

// DefaultOptions returns conservative default options.
func DefaultOptions() Options {
	return Options{
		BaseURL:         defaultBaseURL,
		UserAgent:       upstream.DefaultUserAgent,
		RequestInterval: defaultRequestInterval,
		MaxRetryDelay:   defaultMaxRetryDelay,
		Timeout:         defaultTimeout,
	}
}

// NewClient creates a new card database client.
func NewClient(options Options) *Client {
	if options.BaseURL == "" {
		options.BaseURL = defaultBaseURL
	}
	if options.UserAgent == "" {
		options.UserAgent = upstream.DefaultUserAgent
	}
	if options.RequestInterval == 0 {
		options.RequestInterval = defaultRequestInterval
	}
	if options.MaxRetryDelay == 0 {
		options.MaxRetryDelay = defaultMaxRetryDelay
	}
	if options.Timeout == 0 {
		options.Timeout = defaultTimeout
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}
	limiter := options.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(options.RequestInterval), 1)
	}

	return &Client{
		httpClient:    httpClient,
		limiter:       limiter,
		baseURL:       strings.TrimRight(options.BaseURL, "/"),
		userAgent:     options.UserAgent,
		maxRetryDelay: options.MaxRetryDelay,
	}
}

// SearchOptions narrow a card search.
type SearchOptions struct {
	// Order selects the sort order ("name", "edhrec", "usd", ...).
	Order string

	// Page is the 1-based results page.
	Page int
}

// SearchCards performs a full-text search using the card database's
// query syntax. A search matching nothing maps to a not-found error,
// which is how the API reports it.
func (c *Client) SearchCards(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("unique", "cards")
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	if opts.Page > 1 {
		params.Set("page", strconv.Itoa(opts.Page))
	}

	var result SearchResult
	resource := fmt.Sprintf("cards matching %q", query)
	if err := c.get(ctx, c.baseURL+"/cards/search?"+params.Encode(), resource, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCardByName fetches a single card by name, trying an exact match
// first and falling back to the database's fuzzy matcher.
func (c *Client) GetCardByName(ctx context.Context, name string) (*Card, error) {
	resource := fmt.Sprintf("card %q", name)

	var card Card
	err := c.get(ctx, c.baseURL+"/cards/named?exact="+url.QueryEscape(name), resource, &card)
	if err == nil {
		return &card, nil
	}
	if !upstream.IsNotFound(err) {
		return nil, err
	}

	if err := c.get(ctx, c.baseURL+"/cards/named?fuzzy="+url.QueryEscape(name), resource, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// RandomCard fetches a random card, optionally filtered by a search query.
func (c *Client) RandomCard(ctx context.Context, query string) (*Card, error) {
	u := c.baseURL + "/cards/random"
	if query != "" {
		u += "?q=" + url.QueryEscape(query)
	}

	var card Card
	if err := c.get(ctx, u, "random card", &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Autocomplete returns up to 20 card names completing a partial name.
func (c *Client) Autocomplete(ctx context.Context, partial string) ([]string, error) {
	u := c.baseURL + "/cards/autocomplete?q=" + url.QueryEscape(partial)

	var catalog Catalog
	if err := c.get(ctx, u, fmt.Sprintf("completions for %q", partial), &catalog); err != nil {
		return nil, err
	}
	return catalog.Data, nil
}

func (c *Client) get(ctx context.Context, url, resource string, out any) error {
	return c.fetch(ctx, http.MethodGet, url, nil, resource, out)
}

// fetch issues one request, retrying once after the suggested delay if
// the provider throttles it. All other failures map straight to their
// error kind.
func (c *Client) fetch(ctx context.Context, method, url string, payload []byte, resource string, out any) error {
	status, header, body, err := c.do(ctx, method, url, payload)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		delay := upstream.RetryDelay(header.Get("Retry-After"), defaultRetryDelay, c.maxRetryDelay)
		if err := upstream.Wait(ctx, delay); err != nil {
			return err
		}
		status, header, body, err = c.do(ctx, method, url, payload)
		if err != nil {
			return err
		}
		if status == http.StatusTooManyRequests {
			return upstream.RateLimited(providerName,
				upstream.RetryDelay(header.Get("Retry-After"), defaultRetryDelay, c.maxRetryDelay))
		}
	}

	switch {
	case status == http.StatusNotFound:
		if details := apiDetails(body); details != "" {
			return upstream.NotFound(providerName, details)
		}
		return upstream.NotFound(providerName, resource+" not found")
	case status != http.StatusOK:
		return upstream.Unavailable(providerName, status, apiError(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return upstream.DataError(providerName, err)
	}
	return nil
}

// do issues one rate-limited request and drains the body.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) (int, http.Header, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, upstream.Unavailable(providerName, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, upstream.Unavailable(providerName, resp.StatusCode, err)
	}
	return resp.StatusCode, resp.Header, body, nil
}

// apiError decodes the structured error body the API sends with non-200
// statuses, or nil when the body is not one.
func apiError(body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
		return &apiErr
	}
	return nil
}

func apiDetails(body []byte) string {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		return apiErr.Details
	}
	return ""
}
