package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/knack117/mightstone-gpt/internal/api/response"
	"github.com/knack117/mightstone-gpt/internal/deckbuilder"
)

// RecommendationService produces card recommendations for a commander.
type RecommendationService interface {
	Recommendations(ctx context.Context, name string, exclude, themes []string) (*deckbuilder.Recommendations, error)
}

// RecommendationHandler handles card recommendation requests.
type RecommendationHandler struct {
	service RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(service RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// GetRecommendations returns grouped card suggestions for a commander,
// optionally excluding owned cards and merging in theme pages.
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("commander name is required"))
		return
	}

	exclude := splitList(r.URL.Query().Get("exclude"))
	themes := splitList(r.URL.Query().Get("themes"))

	recs, err := h.service.Recommendations(r.Context(), name, exclude, themes)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, recs)
}
