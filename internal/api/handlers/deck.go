package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/knack117/mightstone-gpt/internal/api/response"
	"github.com/knack117/mightstone-gpt/internal/deckbuilder"
)

// DeckService analyzes submitted deck lists.
type DeckService interface {
	AnalyzeDeck(ctx context.Context, entries []deckbuilder.DeckEntry) (*deckbuilder.DeckAnalysis, error)
}

// DeckHandler handles deck analysis requests.
type DeckHandler struct {
	service DeckService
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(service DeckService) *DeckHandler {
	return &DeckHandler{service: service}
}

// AnalyzeDeck computes curve, color, and type statistics for a posted
// deck list. The body is a JSON array mixing "2 Sol Ring" strings and
// {"name", "quantity"} objects.
func (h *DeckHandler) AnalyzeDeck(w http.ResponseWriter, r *http.Request) {
	var entries []deckbuilder.DeckEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid deck list: %w", err))
		return
	}

	analysis, err := h.service.AnalyzeDeck(r.Context(), entries)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, analysis)
}
