package deckbuilder

import (
	"context"
	"strings"

	"github.com/knack117/mightstone-gpt/internal/deckstats"
	"github.com/knack117/mightstone-gpt/internal/edhrec"
	"github.com/knack117/mightstone-gpt/internal/identity"
	"github.com/knack117/mightstone-gpt/internal/upstream"
)

// maxThemeMerges bounds how many theme pages one recommendation request
// may pull in on top of the commander page.
const maxThemeMerges = 3

// Recommendations regroups a commander page's card lists into advice
// groups, dropping excluded card names. Theme filters pull in up to
// three theme pages, scoped to the commander's colors, whose sections
// are appended under theme-prefixed headers.
func (s *Service) Recommendations(ctx context.Context, name string, exclude, themes []string) (*Recommendations, error) {
	id, err := normalizeInput(name)
	if err != nil {
		return nil, err
	}

	data, err := s.aggregator.GetCommander(ctx, id.Key)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(exclude))
	for _, card := range exclude {
		if trimmed := strings.TrimSpace(card); trimmed != "" {
			excluded[strings.ToLower(trimmed)] = true
		}
	}

	rec := &Recommendations{
		Commander:      displayName(id, data.Name),
		Identity:       id,
		Groups:         []RecommendationGroup{},
		EDHRECURL:      data.SourceURL,
		BudgetBrackets: bracketNames(),
	}
	for _, section := range data.Sections {
		if group, ok := suggestionGroup(section.Header, section.Cards, excluded); ok {
			rec.Groups = append(rec.Groups, group)
		}
	}

	var colors string
	if len(data.ColorIdentity) > 0 {
		colors = strings.ToLower(identity.CanonicalColors(data.ColorIdentity))
	}
	merged := 0
	for _, theme := range themes {
		if merged == maxThemeMerges {
			break
		}
		themeData, err := s.themeForCommander(ctx, theme, colors)
		if err != nil {
			return nil, err
		}
		if themeData == nil {
			continue
		}
		merged++
		label := themeData.Name
		if label == "" {
			label = themeData.Slug
		}
		for _, section := range themeData.Sections {
			header := label + ": " + section.Header
			if group, ok := suggestionGroup(header, section.Cards, excluded); ok {
				rec.Groups = append(rec.Groups, group)
			}
		}
	}

	return rec, nil
}

// themeForCommander fetches one theme page in the commander's colors.
// A missing page is skipped rather than failing the whole request.
func (s *Service) themeForCommander(ctx context.Context, theme, colors string) (*edhrec.ThemeData, error) {
	slug := identity.Slug(theme)
	if slug == "" {
		return nil, nil
	}
	data, err := s.aggregator.GetTheme(ctx, slug, colors)
	if err != nil {
		if upstream.IsNotFound(err) {
			s.logger.Warn("theme filter skipped", "theme", slug, "colors", colors)
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func suggestionGroup(header string, views []*edhrec.CardView, excluded map[string]bool) (RecommendationGroup, bool) {
	group := RecommendationGroup{Category: header, Cards: []CardSuggestion{}}
	for _, view := range views {
		if view == nil || view.Name == "" || excluded[strings.ToLower(view.Name)] {
			continue
		}
		group.Cards = append(group.Cards, newCardSuggestion(view))
	}
	return group, len(group.Cards) > 0
}

func bracketNames() []string {
	brackets := deckstats.Brackets()
	names := make([]string, 0, len(brackets))
	for _, b := range brackets {
		names = append(names, string(b))
	}
	return names
}
