package deckbuilder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DeckEntry is one requested card of a deck analysis.
type DeckEntry struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// deckLine matches decklist-export lines such as "2 Sol Ring" and
// "2x Sol Ring".
var deckLine = regexp.MustCompile(`^(\d+)[xX]?\s+(\S.*)$`)

// ParseDeckEntry parses one decklist line. A bare card name counts as a
// single copy.
func ParseDeckEntry(line string) (DeckEntry, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return DeckEntry{}, &InputError{Reason: "empty deck entry"}
	}
	if m := deckLine.FindStringSubmatch(trimmed); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty < 1 {
			return DeckEntry{}, &InputError{Reason: fmt.Sprintf("invalid quantity in deck entry %q", line)}
		}
		return DeckEntry{Name: m[2], Quantity: qty}, nil
	}
	return DeckEntry{Name: trimmed, Quantity: 1}, nil
}

// UnmarshalJSON accepts both entry spellings a deck list may use: the
// object form {"name": ..., "quantity": ...} and the decklist-line
// string form.
func (e *DeckEntry) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var line string
		if err := json.Unmarshal(trimmed, &line); err != nil {
			return err
		}
		parsed, err := ParseDeckEntry(line)
		if err != nil {
			return err
		}
		*e = parsed
		return nil
	}

	type plain DeckEntry
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	if p.Quantity < 0 {
		return &InputError{Reason: fmt.Sprintf("negative quantity for %q", p.Name)}
	}
	if p.Quantity == 0 {
		p.Quantity = 1
	}
	*e = DeckEntry(p)
	return nil
}

// AnalyzeDeck resolves every named card through the card database and
// computes the deck's curve, color, and type breakdown. Unresolvable
// names are reported, not fatal. Quantities weight every count.
func (s *Service) AnalyzeDeck(ctx context.Context, entries []DeckEntry) (*DeckAnalysis, error) {
	merged := mergeEntries(entries)
	if len(merged) == 0 {
		return nil, &InputError{Reason: "deck list has no entries"}
	}

	names := make([]string, 0, len(merged))
	for _, entry := range merged {
		names = append(names, entry.Name)
	}

	cards, notFound, err := s.cards.GetCardsByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(notFound) > 0 {
		s.logger.Warn("deck analysis skipped unknown cards", "count", len(notFound))
	}

	quantities := make(map[string]int, len(merged))
	for _, entry := range merged {
		quantities[strings.ToLower(entry.Name)] = entry.Quantity
	}

	analysis := &DeckAnalysis{
		UniqueCards:       len(cards),
		ManaCurve:         map[string]int{},
		ColorDistribution: map[string]int{},
		CardTypes:         map[string]int{},
		NotFound:          []string{},
	}
	analysis.NotFound = append(analysis.NotFound, notFound...)

	for i := range cards {
		card := &cards[i]
		qty := quantities[strings.ToLower(card.Name)]
		if qty == 0 {
			// Double-faced cards come back under their full two-face
			// name even when requested by the front face.
			if front, _, found := strings.Cut(card.Name, " // "); found {
				qty = quantities[strings.ToLower(front)]
			}
		}
		if qty == 0 {
			qty = 1
		}
		analysis.TotalCards += qty

		bucket := strconv.Itoa(int(card.CMC))
		analysis.ManaCurve[bucket] += qty

		for _, color := range card.ColorIdentity {
			analysis.ColorDistribution[color] += qty
		}

		if t := primaryType(card.TypeLine); t != "" {
			analysis.CardTypes[t] += qty
		}
	}

	return analysis, nil
}

// mergeEntries folds duplicate names together, keeping first-seen order
// and casing. Blank names are dropped.
func mergeEntries(entries []DeckEntry) []DeckEntry {
	index := make(map[string]int, len(entries))
	merged := make([]DeckEntry, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		qty := entry.Quantity
		if qty < 1 {
			qty = 1
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			merged[i].Quantity += qty
			continue
		}
		index[key] = len(merged)
		merged = append(merged, DeckEntry{Name: name, Quantity: qty})
	}
	return merged
}

// supertypes never count as a card's primary type.
var supertypes = map[string]bool{
	"basic":     true,
	"legendary": true,
	"ongoing":   true,
	"snow":      true,
	"world":     true,
}

// primaryType extracts the front face's first card type from a type
// line such as "Legendary Creature — Phyrexian Angel".
func primaryType(typeLine string) string {
	if i := strings.Index(typeLine, "//"); i >= 0 {
		typeLine = typeLine[:i]
	}
	if i := strings.Index(typeLine, "—"); i >= 0 {
		typeLine = typeLine[:i]
	}
	for _, word := range strings.Fields(typeLine) {
		if !supertypes[strings.ToLower(word)] {
			return word
		}
	}
	return ""
}
