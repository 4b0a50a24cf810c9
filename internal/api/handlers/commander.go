package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/knack117/mightstone-gpt/internal/api/response"
	"github.com/knack117/mightstone-gpt/internal/deckbuilder"
	"github.com/knack117/mightstone-gpt/internal/deckstats"
)

// CommanderService composes the commander endpoints' backends.
type CommanderService interface {
	CommanderSummary(ctx context.Context, name, bracket string) (*deckbuilder.CommanderSummary, error)
	AverageDeck(ctx context.Context, name, bracket string) (*deckbuilder.DeckList, error)
	BudgetComparison(ctx context.Context, name string) (*deckbuilder.BudgetComparison, error)
}

// CommanderHandler handles commander summary and deck requests.
type CommanderHandler struct {
	service CommanderService
}

// NewCommanderHandler creates a new CommanderHandler.
func NewCommanderHandler(service CommanderService) *CommanderHandler {
	return &CommanderHandler{service: service}
}

// GetCommander returns the commander's aggregator summary, with an
// average deck attached when a bracket is requested.
func (h *CommanderHandler) GetCommander(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("commander name is required"))
		return
	}

	bracket := r.URL.Query().Get("bracket")

	summary, err := h.service.CommanderSummary(r.Context(), name, bracket)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetAverageDeck returns the published average deck for a commander.
// Without an explicit bracket it serves the optimized list.
func (h *CommanderHandler) GetAverageDeck(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("commander name is required"))
		return
	}

	bracket := r.URL.Query().Get("bracket")
	if bracket == "" {
		bracket = string(deckstats.BracketOptimized)
	}

	deck, err := h.service.AverageDeck(r.Context(), name, bracket)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, deck)
}

// GetBudgetComparison diffs the budget and expensive decks for a commander.
func (h *CommanderHandler) GetBudgetComparison(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("commander name is required"))
		return
	}

	cmp, err := h.service.BudgetComparison(r.Context(), name)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, cmp)
}
