// Package deckbuilder composes the upstream providers into the deck
// operations the API serves: average decks, budget comparisons, theme
// pools, commander summaries, recommendations, and deck analysis.
package deckbuilder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/knack117/mightstone-gpt/internal/deckstats"
	"github.com/knack117/mightstone-gpt/internal/edhrec"
	"github.com/knack117/mightstone-gpt/internal/identity"
	"github.com/knack117/mightstone-gpt/internal/scryfall"
	"github.com/knack117/mightstone-gpt/internal/upstream"
)

// AggregatorClient is the slice of the aggregator adapter the service uses.
type AggregatorClient interface {
	GetCommander(ctx context.Context, key string) (*edhrec.CommanderData, error)
	GetTheme(ctx context.Context, slug, colors string) (*edhrec.ThemeData, error)
}

// DeckStatsClient is the slice of the deck-statistics adapter the service uses.
type DeckStatsClient interface {
	GetAverageDeck(ctx context.Context, key string, bracket deckstats.Bracket) (*deckstats.AverageDeck, error)
	GetTierDeck(ctx context.Context, key string, tier deckstats.PriceTier) (*deckstats.AverageDeck, error)
}

// CardClient is the slice of the card-database adapter the service uses.
type CardClient interface {
	GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error)
}

// InputError reports request input the service cannot act on. The API
// layer maps it to a client error rather than a server one.
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *InputError) Unwrap() error { return e.Err }

// IsInputError reports whether err is caller-correctable input.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// Service orchestrates the upstream adapters. All returned aggregates are
// request-scoped values; the adapters are the only shared state.
type Service struct {
	aggregator AggregatorClient
	deckStats  DeckStatsClient
	cards      CardClient
	logger     *slog.Logger
}

// ServiceConfig wires the service's collaborators.
type ServiceConfig struct {
	Aggregator AggregatorClient
	DeckStats  DeckStatsClient
	Cards      CardClient
	Logger     *slog.Logger
}

// NewService creates the orchestration service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		aggregator: cfg.Aggregator,
		deckStats:  cfg.DeckStats,
		cards:      cfg.Cards,
		logger:     logger,
	}
}

// AverageDeck fetches the published average deck for a commander at the
// given bracket. An unknown bracket is the caller's error.
func (s *Service) AverageDeck(ctx context.Context, name, bracket string) (*DeckList, error) {
	id, err := normalizeInput(name)
	if err != nil {
		return nil, err
	}
	b, err := deckstats.ParseBracket(bracket)
	if err != nil {
		return nil, &InputError{Err: err}
	}

	deck, err := s.deckStats.GetAverageDeck(ctx, id.Key, b)
	if err != nil {
		return nil, err
	}
	return newDeckList(id, deck), nil
}

// Theme fetches the card pool of a deck theme, optionally scoped to a
// color identity such as "WU".
func (s *Service) Theme(ctx context.Context, name, colors string) (*ThemeRecord, error) {
	slug := identity.Slug(name)
	if slug == "" {
		return nil, &InputError{Reason: fmt.Sprintf("theme %q has no usable characters", name)}
	}

	var canonical string
	if colors != "" {
		parsed, err := identity.ParseColors(colors)
		if err != nil {
			return nil, &InputError{Err: err}
		}
		canonical = identity.CanonicalColors(parsed)
	}

	data, err := s.aggregator.GetTheme(ctx, slug, strings.ToLower(canonical))
	if err != nil {
		return nil, err
	}
	return newThemeRecord(data, canonical), nil
}

// ThemeSuggestions returns the most played themes for a commander,
// taken from its page's tag panel.
func (s *Service) ThemeSuggestions(ctx context.Context, name string) (*ThemeSuggestions, error) {
	id, err := normalizeInput(name)
	if err != nil {
		return nil, err
	}

	data, err := s.aggregator.GetCommander(ctx, id.Key)
	if err != nil {
		return nil, err
	}

	themes := data.Themes
	if len(themes) > maxThemeSuggestions {
		themes = themes[:maxThemeSuggestions]
	}
	if themes == nil {
		themes = []edhrec.Theme{}
	}
	return &ThemeSuggestions{
		Commander: displayName(id, data.Name),
		Identity:  id,
		Themes:    themes,
	}, nil
}

// CommanderSummary aggregates a commander's profile. When a bracket is
// given the matching average deck is fetched alongside and attached; a
// commander without a published deck at that bracket still gets its
// summary.
func (s *Service) CommanderSummary(ctx context.Context, name, bracket string) (*CommanderSummary, error) {
	id, err := normalizeInput(name)
	if err != nil {
		return nil, err
	}

	var b deckstats.Bracket
	if bracket != "" {
		if b, err = deckstats.ParseBracket(bracket); err != nil {
			return nil, &InputError{Err: err}
		}
	}

	var (
		data    *edhrec.CommanderData
		deck    *deckstats.AverageDeck
		dataErr error
		deckErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		data, dataErr = s.aggregator.GetCommander(ctx, id.Key)
		return nil
	})
	if bracket != "" {
		g.Go(func() error {
			deck, deckErr = s.deckStats.GetAverageDeck(ctx, id.Key, b)
			return nil
		})
	}
	_ = g.Wait()

	if dataErr != nil {
		return nil, dataErr
	}

	summary := newCommanderSummary(id, data)
	switch {
	case deckErr == nil && deck != nil:
		summary.Deck = newDeckList(id, deck)
	case deckErr != nil && upstream.IsNotFound(deckErr):
		s.logger.Warn("no published deck for summary",
			"commander", id.Key, "bracket", bracket)
	case deckErr != nil:
		return nil, deckErr
	}
	return summary, nil
}

const (
	maxThemeSuggestions = 10
	maxSummaryTags      = 20
	maxSectionNames     = 10
)

func newCommanderSummary(id identity.Identity, data *edhrec.CommanderData) *CommanderSummary {
	summary := &CommanderSummary{
		Commander:     displayName(id, data.Name),
		Identity:      id,
		ColorIdentity: identity.CanonicalColors(data.ColorIdentity),
		CMC:           data.CMC,
		Salt:          data.Salt,
		NumDecks:      data.NumDecks,
		Description:   data.Description,
		Tags:          []string{},
		Themes:        data.Themes,
		Sections:      []SummarySection{},
		Similar:       data.SimilarCards,
		SourceURL:     data.SourceURL,
	}
	if summary.Themes == nil {
		summary.Themes = []edhrec.Theme{}
	}

	for _, theme := range data.Themes {
		if len(summary.Tags) == maxSummaryTags {
			break
		}
		summary.Tags = append(summary.Tags, theme.Name)
	}

	for _, section := range data.Sections {
		names := make([]string, 0, maxSectionNames)
		for _, view := range section.Cards {
			if view == nil || view.Name == "" {
				continue
			}
			names = append(names, view.Name)
			if len(names) == maxSectionNames {
				break
			}
		}
		if len(names) > 0 {
			summary.Sections = append(summary.Sections, SummarySection{
				Header: section.Header,
				Cards:  names,
			})
		}
	}
	return summary
}

func normalizeInput(name string) (identity.Identity, error) {
	id, err := identity.Normalize(name)
	if err != nil {
		return identity.Identity{}, &InputError{Err: err}
	}
	return id, nil
}

func displayName(id identity.Identity, fromPage string) string {
	if fromPage != "" {
		return fromPage
	}
	return strings.TrimSpace(id.Raw)
}
