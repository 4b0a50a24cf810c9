package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/knack117/mightstone-gpt/internal/api/response"
	"github.com/knack117/mightstone-gpt/internal/scryfall"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 100
)

// CardService is the card-database surface the card endpoints expose.
type CardService interface {
	SearchCards(ctx context.Context, query string, opts scryfall.SearchOptions) (*scryfall.SearchResult, error)
	GetCardByName(ctx context.Context, name string) (*scryfall.Card, error)
	RandomCard(ctx context.Context, query string) (*scryfall.Card, error)
	Autocomplete(ctx context.Context, partial string) ([]string, error)
}

// CardHandler handles card lookup and search requests.
type CardHandler struct {
	service CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(service CardService) *CardHandler {
	return &CardHandler{service: service}
}

// SearchResponse is the card search payload.
type SearchResponse struct {
	Query      string          `json:"query"`
	TotalCards int             `json:"total_cards"`
	Cards      []scryfall.Card `json:"cards"`
}

// AutocompleteResponse lists card names completing a partial query.
type AutocompleteResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Total       int      `json:"total"`
}

// SearchCards searches for cards using the card database's query syntax.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("search query is required"))
		return
	}

	limit := defaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > maxSearchLimit {
			response.BadRequest(w, fmt.Errorf("limit must be between 1 and %d", maxSearchLimit))
			return
		}
		limit = l
	}

	order := r.URL.Query().Get("order")
	if order == "" {
		order = "name"
	}

	result, err := h.service.SearchCards(r.Context(), query, scryfall.SearchOptions{Order: order})
	if err != nil {
		response.FromError(w, err)
		return
	}

	cards := result.Data
	if len(cards) > limit {
		cards = cards[:limit]
	}

	response.Success(w, SearchResponse{
		Query:      query,
		TotalCards: len(cards),
		Cards:      cards,
	})
}

// GetCardByName returns a single card, matching exactly first and
// falling back to the database's fuzzy matcher.
func (h *CardHandler) GetCardByName(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("card name is required"))
		return
	}

	card, err := h.service.GetCardByName(r.Context(), name)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, card)
}

// RandomCard returns a random card, optionally filtered by a search query.
func (h *CardHandler) RandomCard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	card, err := h.service.RandomCard(r.Context(), query)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, card)
}

// Autocomplete returns card names completing a partial name.
func (h *CardHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("search query is required"))
		return
	}

	names, err := h.service.Autocomplete(r.Context(), query)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	response.Success(w, AutocompleteResponse{
		Query:       query,
		Suggestions: names,
		Total:       len(names),
	})
}
