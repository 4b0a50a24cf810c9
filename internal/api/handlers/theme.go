package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/knack117/mightstone-gpt/internal/api/response"
	"github.com/knack117/mightstone-gpt/internal/deckbuilder"
)

// ThemeService serves theme pages and per-commander theme suggestions.
type ThemeService interface {
	Theme(ctx context.Context, name, colors string) (*deckbuilder.ThemeRecord, error)
	ThemeSuggestions(ctx context.Context, name string) (*deckbuilder.ThemeSuggestions, error)
}

// ThemeHandler handles theme and tag requests.
type ThemeHandler struct {
	service ThemeService
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(service ThemeService) *ThemeHandler {
	return &ThemeHandler{service: service}
}

// GetTheme returns a theme's card pool, optionally scoped to a color
// identity.
func (h *ThemeHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("theme name is required"))
		return
	}

	colors := r.URL.Query().Get("colors")

	theme, err := h.service.Theme(r.Context(), name, colors)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, theme)
}

// GetSuggestions returns the most popular themes for a commander.
func (h *ThemeHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	commander := r.URL.Query().Get("commander")
	if commander == "" {
		response.BadRequest(w, errors.New("commander name is required"))
		return
	}

	suggestions, err := h.service.ThemeSuggestions(r.Context(), commander)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, suggestions)
}
