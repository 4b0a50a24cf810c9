package edhrec

import (
	"regexp"
	"strings"

	"github.com/knack117/mightstone-gpt/internal/identity"
)

const maxTagLength = 64

// structuralTagNames are page section labels that leak into tag link
// lists. They are navigation, not deck themes.
var structuralTagNames = map[string]bool{
	"themes":             true,
	"kindred":            true,
	"new cards":          true,
	"high synergy":       true,
	"high synergy cards": true,
	"top cards":          true,
	"game changers":      true,
	"card types":         true,
	"creatures":          true,
	"spells":             true,
	"enchantments":       true,
	"artifacts":          true,
	"instants":           true,
	"sorceries":          true,
	"planeswalkers":      true,
	"battles":            true,
	"lands":              true,
	"utility lands":      true,
	"mana artifacts":     true,
	"utility artifacts":  true,
}

var (
	tagOrdinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
	tagCountSuffix   = regexp.MustCompile(`\s+\(\d+\)$`)
	tagSectionHeader = regexp.MustCompile(`(?i)^tags$`)
)

// NormalizeTagName cleans one tag label: trims, caps the length, and
// strips ordinal prefixes ("3. Tokens") and count suffixes ("Tokens (412)").
// Returns "" when nothing remains.
func NormalizeTagName(name string) string {
	normalized := strings.TrimSpace(name)
	if len(normalized) > maxTagLength {
		normalized = normalized[:maxTagLength]
	}
	normalized = tagOrdinalPrefix.ReplaceAllString(normalized, "")
	normalized = tagCountSuffix.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}

// Themes extracts the deck themes advertised on a commander page:
// normalized, structural labels excluded, deduplicated case-insensitively,
// capped at limit (0 = all). Page order is preserved.
func (p *CommanderPage) Themes(limit int) []Theme {
	if p.Panels == nil {
		return nil
	}

	links := p.Panels.tagItems()
	themes := make([]Theme, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		name := NormalizeTagName(link.Label())
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] || structuralTagNames[key] {
			continue
		}
		seen[key] = true

		slug := link.Slug
		if slug == "" {
			slug = identity.Slug(name)
		}
		themes = append(themes, Theme{Name: name, Slug: slug, Decks: link.Decks()})
		if limit > 0 && len(themes) >= limit {
			break
		}
	}
	if len(themes) == 0 {
		return nil
	}
	return themes
}

// tagItems returns the raw theme links, preferring the nested "Tags"
// link group over the flat taglinks list.
func (p *Panels) tagItems() []*TagLink {
	for _, group := range p.Links {
		if tagSectionHeader.MatchString(strings.TrimSpace(group.Header)) && len(group.Items) > 0 {
			return group.Items
		}
	}
	return p.TagLinks
}
