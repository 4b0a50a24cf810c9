package deckbuilder

import (
	"strings"

	"github.com/knack117/mightstone-gpt/internal/deckstats"
	"github.com/knack117/mightstone-gpt/internal/edhrec"
	"github.com/knack117/mightstone-gpt/internal/identity"
)

// DeckCard is one card of a published deck list.
type DeckCard struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
}

// DeckList is a published average deck for one commander.
type DeckList struct {
	Commander     string            `json:"commander"`
	Identity      identity.Identity `json:"identity"`
	Bracket       string            `json:"bracket"`
	SourceURL     string            `json:"source_url"`
	Cards         []DeckCard        `json:"cards"`
	CommanderCard *DeckCard         `json:"commander_card,omitempty"`
	TotalCards    int               `json:"total_cards"`
	UniqueCards   int               `json:"unique_cards"`
}

func newDeckList(id identity.Identity, deck *deckstats.AverageDeck) *DeckList {
	list := &DeckList{
		Commander:  deck.Commander,
		Identity:   id,
		Bracket:    deck.Bracket,
		SourceURL:  deck.SourceURL,
		Cards:      make([]DeckCard, 0, len(deck.Cards)),
		TotalCards: deck.TotalCards,
	}
	for _, card := range deck.Cards {
		list.Cards = append(list.Cards, DeckCard{
			Name:     card.Name,
			Quantity: card.Quantity,
			Category: card.Category,
		})
	}
	if deck.CommanderCard != nil {
		list.CommanderCard = &DeckCard{
			Name:     deck.CommanderCard.Name,
			Quantity: deck.CommanderCard.Quantity,
			Category: deck.CommanderCard.Category,
		}
	}
	list.UniqueCards = len(list.Cards)
	return list
}

// CardDelta is one card of a budget comparison. Quantities are zero for
// the tier the card does not appear in, and omitted from the JSON form.
type CardDelta struct {
	Name              string `json:"name"`
	BudgetQuantity    int    `json:"budget_quantity,omitempty"`
	ExpensiveQuantity int    `json:"expensive_quantity,omitempty"`
}

// BudgetComparison is the diff between the budget and expensive builds
// of one commander.
type BudgetComparison struct {
	Commander          string            `json:"commander"`
	Identity           identity.Identity `json:"identity"`
	BudgetTotal        int               `json:"budget_total_cards"`
	ExpensiveTotal     int               `json:"expensive_total_cards"`
	BudgetUnique       int               `json:"budget_unique_cards"`
	ExpensiveUnique    int               `json:"expensive_unique_cards"`
	CommonCards        int               `json:"common_cards"`
	OnlyInBudget       []CardDelta       `json:"only_in_budget"`
	OnlyInExpensive    []CardDelta       `json:"only_in_expensive"`
	Upgraded           []CardDelta       `json:"upgraded_cards"`
	Downgraded         []CardDelta       `json:"downgraded_cards"`
	BudgetSourceURL    string            `json:"budget_source_url,omitempty"`
	ExpensiveSourceURL string            `json:"expensive_source_url,omitempty"`
}

// CardSuggestion is one suggested card with its play statistics.
type CardSuggestion struct {
	Name      string  `json:"name"`
	Synergy   float64 `json:"synergy"`
	Inclusion int     `json:"inclusion,omitempty"`
	NumDecks  int     `json:"num_decks,omitempty"`
}

func newCardSuggestion(view *edhrec.CardView) CardSuggestion {
	return CardSuggestion{
		Name:      view.Name,
		Synergy:   view.Synergy,
		Inclusion: view.Inclusion,
		NumDecks:  view.NumDecks,
	}
}

// ThemeRecord is the card pool of one deck theme.
type ThemeRecord struct {
	Theme       string           `json:"theme"`
	Header      string           `json:"header,omitempty"`
	Description string           `json:"description,omitempty"`
	Colors      string           `json:"colors,omitempty"`
	Popularity  int              `json:"popularity"`
	Cards       []CardSuggestion `json:"cards"`
	SourceURL   string           `json:"source_url"`
}

func newThemeRecord(data *edhrec.ThemeData, colors string) *ThemeRecord {
	rec := &ThemeRecord{
		Theme:       data.Slug,
		Header:      data.Name,
		Description: data.Description,
		Colors:      colors,
		Cards:       []CardSuggestion{},
		SourceURL:   data.SourceURL,
	}

	seen := make(map[string]bool)
	for _, section := range data.Sections {
		for _, view := range section.Cards {
			if view == nil || view.Name == "" {
				continue
			}
			key := strings.ToLower(view.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			rec.Cards = append(rec.Cards, newCardSuggestion(view))
			// The potential-deck count of a pool card approximates how
			// many decks the theme has.
			if view.PotentialDecks > rec.Popularity {
				rec.Popularity = view.PotentialDecks
			}
		}
	}
	return rec
}

// ThemeSuggestions is the ranked theme list for one commander.
type ThemeSuggestions struct {
	Commander string            `json:"commander"`
	Identity  identity.Identity `json:"identity"`
	Themes    []edhrec.Theme    `json:"themes"`
}

// SummarySection is one card-list section of a commander page, names only.
type SummarySection struct {
	Header string   `json:"header"`
	Cards  []string `json:"cards"`
}

// CommanderSummary is the aggregated profile of one commander.
type CommanderSummary struct {
	Commander     string            `json:"commander"`
	Identity      identity.Identity `json:"identity"`
	ColorIdentity string            `json:"color_identity"`
	CMC           float64           `json:"cmc"`
	Salt          float64           `json:"salt"`
	NumDecks      int               `json:"num_decks"`
	Description   string            `json:"description,omitempty"`
	Tags          []string          `json:"tags"`
	Themes        []edhrec.Theme    `json:"themes"`
	Sections      []SummarySection  `json:"sections"`
	Similar       []*edhrec.Similar `json:"similar_commanders,omitempty"`
	SourceURL     string            `json:"source_url"`
	Deck          *DeckList         `json:"deck,omitempty"`
}

// RecommendationGroup is one recommended card group, named after the
// page section it came from.
type RecommendationGroup struct {
	Category string           `json:"category"`
	Cards    []CardSuggestion `json:"cards"`
}

// Recommendations is the grouped card advice for one commander.
type Recommendations struct {
	Commander      string                `json:"commander"`
	Identity       identity.Identity     `json:"identity"`
	Groups         []RecommendationGroup `json:"recommendations"`
	EDHRECURL      string                `json:"edhrec_url,omitempty"`
	BudgetBrackets []string              `json:"budget_brackets"`
}

// DeckAnalysis is the statistical breakdown of a submitted deck list.
type DeckAnalysis struct {
	TotalCards        int            `json:"total_cards"`
	UniqueCards       int            `json:"unique_cards"`
	ManaCurve         map[string]int `json:"mana_curve"`
	ColorDistribution map[string]int `json:"color_distribution"`
	CardTypes         map[string]int `json:"card_types"`
	NotFound          []string       `json:"not_found"`
}
