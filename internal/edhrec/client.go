// Package edhrec fetches commander and theme data from EDHREC's JSON API.
package edhrec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/knack117/mightstone-gpt/internal/upstream"
)

const (
	providerName = "edhrec"

	defaultBaseURL         = "https://json.edhrec.com/pages"
	defaultRequestInterval = 500 * time.Millisecond
	defaultTimeout         = 12 * time.Second
	defaultRetryDelay      = 1 * time.Second
	defaultMaxRetryDelay   = 5 * time.Second
)

// Client fetches pages from EDHREC with rate limiting.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	baseURL       string
	userAgent     string
	maxRetryDelay time.Duration
}

// Options configures the EDHREC client. Zero fields take defaults.
type Options struct {
	// BaseURL overrides the JSON API root, mainly for tests.
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

	// Limiter overrides the request limiter. The limiter is shared by
	// every request through this client, so one instance per process
	// keeps the provider's rate limit respected across handlers.
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

// NewClient creates a new EDHREC API client.
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

// GetCommander fetches the commander page for a normalized commander key.
func (c *Client) GetCommander(ctx context.Context, key string) (*CommanderData, error) {
	url := fmt.Sprintf("%s/commanders/%s.json", c.baseURL, key)

	var page CommanderPage
	if err := c.get(ctx, url, fmt.Sprintf("commander %q", key), &page); err != nil {
		return nil, err
	}

	data := extractCommanderData(key, &page)
	data.SourceURL = url
	return data, nil
}

// GetTheme fetches a theme page, optionally scoped to a color identity
// such as "wub".
func (c *Client) GetTheme(ctx context.Context, slug, colors string) (*ThemeData, error) {
	url := fmt.Sprintf("%s/themes/%s.json", c.baseURL, slug)
	if colors != "" {
		url = fmt.Sprintf("%s/themes/%s/%s.json", c.baseURL, slug, strings.ToLower(colors))
	}

	var page ThemePage
	if err := c.get(ctx, url, fmt.Sprintf("theme %q", slug), &page); err != nil {
		return nil, err
	}

	data := extractThemeData(slug, &page)
	data.SourceURL = url
	return data, nil
}

// get performs one request with at most a single retry when the provider
// answers 429. All other failures map straight to upstream error kinds.
func (c *Client) get(ctx context.Context, url, resource string, out any) error {
	status, header, body, err := c.do(ctx, url)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		delay := upstream.RetryDelay(header.Get("Retry-After"), defaultRetryDelay, c.maxRetryDelay)
		if err := upstream.Wait(ctx, delay); err != nil {
			return err
		}
		status, header, body, err = c.do(ctx, url)
		if err != nil {
			return err
		}
		if status == http.StatusTooManyRequests {
			return upstream.RateLimited(providerName,
				upstream.RetryDelay(header.Get("Retry-After"), defaultRetryDelay, c.maxRetryDelay))
		}
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusForbidden:
		return upstream.NotFound(providerName, resource+" not found")
	case status != http.StatusOK:
		return upstream.Unavailable(providerName, status, nil)
	}

	return upstream.DecodeBody(providerName, body, out)
}

// do issues one rate-limited request and drains the body.
func (c *Client) do(ctx context.Context, url string) (int, http.Header, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

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

// extractCommanderData extracts commander information from the page.
func extractCommanderData(key string, page *CommanderPage) *CommanderData {
	data := &CommanderData{
		Key:          key,
		Name:         page.Header,
		Description:  page.Description,
		SimilarCards: page.Similar,
		Themes:       page.Themes(0),
	}

	if page.Container == nil || page.Container.JSONDict == nil {
		return data
	}

	if card := page.Container.JSONDict.Card; card != nil {
		if card.Name != "" {
			data.Name = card.Name
		}
		data.CMC = card.CMC
		data.ColorIdentity = card.ColorIdentity
		data.Salt = card.Salt
		data.NumDecks = card.NumDecks
	}

	for _, cardList := range page.Container.JSONDict.CardLists {
		data.Sections = append(data.Sections, Section{
			Tag:    cardList.Tag,
			Header: cardList.Header,
			Cards:  cardList.CardViews,
		})
		switch cardList.Tag {
		case "highsynergycards":
			data.HighSynergy = cardList.CardViews
		case "topcards":
			data.TopCards = cardList.CardViews
		case "newcards":
			data.NewCards = cardList.CardViews
		case "gamechangers":
			data.GameChangers = cardList.CardViews
		}
	}

	return data
}

// extractThemeData extracts theme information from the page.
func extractThemeData(slug string, page *ThemePage) *ThemeData {
	data := &ThemeData{
		Slug:        slug,
		Name:        page.Header,
		Description: page.Description,
	}

	if page.Container == nil || page.Container.JSONDict == nil {
		return data
	}
	if data.Name == "" && page.Container.Title != "" {
		data.Name = page.Container.Title
	}

	for _, cardList := range page.Container.JSONDict.CardLists {
		data.Sections = append(data.Sections, Section{
			Tag:    cardList.Tag,
			Header: cardList.Header,
			Cards:  cardList.CardViews,
		})
		switch cardList.Tag {
		case "highsynergycards":
			data.HighSynergy = cardList.CardViews
		case "topcards":
			data.TopCards = cardList.CardViews
		case "creatures":
			data.Creatures = cardList.CardViews
		case "enchantments":
			data.Enchantments = cardList.CardViews
		case "utilityartifacts":
			data.Artifacts = cardList.CardViews
		}
	}

	return data
}
