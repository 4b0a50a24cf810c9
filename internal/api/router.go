package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/knack117/mightstone-gpt/internal/api/handlers"
)

// setupRoutes configures all API routes. Paths are unversioned because
// the published assistant tooling addresses them directly.
func (s *Server) setupRoutes() {
	// System routes
	systemHandler := handlers.NewSystemHandler(s.version, s.instanceID, s.contact)
	s.router.Get("/health", systemHandler.HealthCheck)
	s.router.Get("/", systemHandler.Root)
	s.router.Get("/privacy", systemHandler.Privacy)

	// Commander routes
	commanderHandler := handlers.NewCommanderHandler(s.service)
	s.router.Route("/commander", func(r chi.Router) {
		r.Get("/{name}", commanderHandler.GetCommander)
		r.Get("/{name}/deck", commanderHandler.GetAverageDeck)
		r.Get("/{name}/budget-comparison", commanderHandler.GetBudgetComparison)
	})

	// Card routes
	cardHandler := handlers.NewCardHandler(s.cards)
	s.router.Route("/cards", func(r chi.Router) {
		r.Get("/search", cardHandler.SearchCards)
		r.Get("/random", cardHandler.RandomCard)
		r.Get("/autocomplete", cardHandler.Autocomplete)
		r.Get("/{name}", cardHandler.GetCardByName)
	})

	// Theme routes
	themeHandler := handlers.NewThemeHandler(s.service)
	s.router.Route("/themes", func(r chi.Router) {
		r.Get("/suggestions", themeHandler.GetSuggestions)
		r.Get("/{name}", themeHandler.GetTheme)
	})

	// Deck analysis
	deckHandler := handlers.NewDeckHandler(s.service)
	s.router.Post("/deck/analyze", deckHandler.AnalyzeDeck)

	// Recommendations
	recommendationHandler := handlers.NewRecommendationHandler(s.service)
	s.router.Get("/recommendations/{name}", recommendationHandler.GetRecommendations)
}
