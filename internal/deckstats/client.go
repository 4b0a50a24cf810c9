// Package deckstats fetches published average decks from the deck
// statistics pages, by power bracket or price tier.
package deckstats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/knack117/mightstone-gpt/internal/upstream"
)

const (
	providerName = "deckstats"

	defaultBaseURL         = "https://json.edhrec.com/pages/average-decks"
	defaultRequestInterval = 500 * time.Millisecond
	defaultTimeout         = 12 * time.Second
	defaultRetryDelay      = 1 * time.Second
	defaultMaxRetryDelay   = 5 * time.Second
)

// Bracket is a named power-level category for average decks.
type Bracket string

const (
	BracketExhibition Bracket = "exhibition"
	BracketCore       Bracket = "core"
	BracketUpgraded   Bracket = "upgraded"
	BracketOptimized  Bracket = "optimized"
	BracketCEDH       Bracket = "cedh"
)

// DefaultBracket is used when the caller does not pick one.
const DefaultBracket = BracketUpgraded

// Brackets lists the valid brackets in power order.
func Brackets() []Bracket {
	return []Bracket{BracketExhibition, BracketCore, BracketUpgraded, BracketOptimized, BracketCEDH}
}

// ParseBracket validates a user-supplied bracket name. Empty input
// selects DefaultBracket.
func ParseBracket(s string) (Bracket, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultBracket, nil
	}
	b := Bracket(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Brackets() {
		if b == known {
			return b, nil
		}
	}
	names := make([]string, 0, len(Brackets()))
	for _, known := range Brackets() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("invalid bracket %q: must be one of %s", s, strings.Join(names, ", "))
}

// PriceTier selects the budget or expensive build of an average deck.
type PriceTier string

const (
	TierBudget    PriceTier = "budget"
	TierExpensive PriceTier = "expensive"
)

// AverageDeck is one published average deck.
type AverageDeck struct {
	Commander     string  `json:"commander"`
	Bracket       string  `json:"bracket"`
	SourceURL     string  `json:"source_url"`
	Cards         []Entry `json:"cards"`
	CommanderCard *Entry  `json:"commander_card,omitempty"`
	TotalCards    int     `json:"total_cards"`
}

// Client fetches average-deck pages with rate limiting.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	baseURL       string
	userAgent     string
	maxRetryDelay time.Duration
}

// Options configures the deck-stats client. Zero fields take defaults.
type Options struct {
	// BaseURL overrides the page root, mainly for tests.
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

// NewClient creates a new deck-stats client.
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

// GetAverageDeck fetches the average deck for a commander at a bracket.
func (c *Client) GetAverageDeck(ctx context.Context, key string, bracket Bracket) (*AverageDeck, error) {
	url := fmt.Sprintf("%s/%s/%s.json", c.baseURL, key, bracket)
	resource := fmt.Sprintf("average deck for %q at bracket %q", key, bracket)
	return c.fetchDeck(ctx, url, resource, key, string(bracket))
}

// GetTierDeck fetches the budget or expensive build for a commander.
func (c *Client) GetTierDeck(ctx context.Context, key string, tier PriceTier) (*AverageDeck, error) {
	url := fmt.Sprintf("%s/%s/%s.json", c.baseURL, key, tier)
	resource := fmt.Sprintf("%s deck for %q", tier, key)
	return c.fetchDeck(ctx, url, resource, key, string(tier))
}

func (c *Client) fetchDeck(ctx context.Context, url, resource, key, label string) (*AverageDeck, error) {
	status, header, body, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		delay := upstream.RetryDelay(header.Get("Retry-After"), defaultRetryDelay, c.maxRetryDelay)
		if err := upstream.Wait(ctx, delay); err != nil {
			return nil, err
		}
		status, header, body, err = c.do(ctx, url)
		if err != nil {
			return nil, err
		}
		if status == http.StatusTooManyRequests {
			return nil, upstream.RateLimited(providerName,
				upstream.RetryDelay(header.Get("Retry-After"), defaultRetryDelay, c.maxRetryDelay))
		}
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusForbidden:
		return nil, upstream.NotFound(providerName, resource+" not found")
	case status != http.StatusOK:
		return nil, upstream.Unavailable(providerName, status, nil)
	}

	entries, err := discoverDeck(body)
	if err != nil {
		return nil, upstream.DataError(providerName, err)
	}
	if len(entries) == 0 {
		return nil, upstream.DataError(providerName, errors.New("no deck list in page payload"))
	}

	return buildDeck(key, label, url, entries), nil
}

// discoverDeck locates the card list in a response body, which is either
// the JSON page payload or a server-rendered HTML page embedding it.
func discoverDeck(body []byte) ([]Entry, error) {
	if json.Valid(body) {
		return DiscoverCards(body)
	}

	nd, err := upstream.DecodeNextData(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if len(nd.PageProps) > 0 {
		entries, err := DiscoverCards(nd.PageProps)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}
	return DiscoverCards(nd.Raw)
}

func buildDeck(key, label, url string, entries []Entry) *AverageDeck {
	deck := &AverageDeck{
		Commander: key,
		Bracket:   label,
		SourceURL: url,
	}

	total := 0
	for _, entry := range entries {
		if entry.Commander {
			if deck.CommanderCard == nil {
				card := entry
				deck.CommanderCard = &card
				deck.Commander = entry.Name
			}
			continue
		}
		card := entry
		card.Commander = false
		deck.Cards = append(deck.Cards, card)
		total += entry.Quantity
	}
	deck.TotalCards = total
	return deck
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
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

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
