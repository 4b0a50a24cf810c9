package deckbuilder

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/knack117/mightstone-gpt/internal/deckstats"
	"github.com/knack117/mightstone-gpt/internal/identity"
	"github.com/knack117/mightstone-gpt/internal/upstream"
)

// BudgetComparison diffs the budget and expensive builds of a commander.
// Both tiers are fetched concurrently and both fetches run to completion,
// so a one-sided failure is classified accurately. The comparison is
// all-or-nothing: one failed tier yields a partial-failure error naming
// that tier, never a diff against half the data.
func (s *Service) BudgetComparison(ctx context.Context, name string) (*BudgetComparison, error) {
	id, err := normalizeInput(name)
	if err != nil {
		return nil, err
	}

	var (
		budget       *deckstats.AverageDeck
		expensive    *deckstats.AverageDeck
		budgetErr    error
		expensiveErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		budget, budgetErr = s.deckStats.GetTierDeck(ctx, id.Key, deckstats.TierBudget)
		return nil
	})
	g.Go(func() error {
		expensive, expensiveErr = s.deckStats.GetTierDeck(ctx, id.Key, deckstats.TierExpensive)
		return nil
	})
	_ = g.Wait()

	switch {
	case budgetErr != nil && expensiveErr != nil:
		// Two not-founds mean the commander has no tier pages at all.
		// Mixed failures report the side that is more than a miss.
		if upstream.IsNotFound(budgetErr) && upstream.IsNotFound(expensiveErr) {
			return nil, budgetErr
		}
		if !upstream.IsNotFound(budgetErr) {
			return nil, budgetErr
		}
		return nil, expensiveErr
	case budgetErr != nil:
		return nil, upstream.PartialFailure("deckstats", "budget tier fetch failed", budgetErr)
	case expensiveErr != nil:
		return nil, upstream.PartialFailure("deckstats", "expensive tier fetch failed", expensiveErr)
	}

	return diffDecks(id, budget, expensive), nil
}

// diffDecks classifies every card by lowercase name. Budget-side lists
// keep the budget deck's order, the expensive-only list keeps the
// expensive deck's order, so equal inputs always produce equal diffs.
func diffDecks(id identity.Identity, budget, expensive *deckstats.AverageDeck) *BudgetComparison {
	cmp := &BudgetComparison{
		Commander:          diffCommanderName(id, budget, expensive),
		Identity:           id,
		BudgetTotal:        budget.TotalCards,
		ExpensiveTotal:     expensive.TotalCards,
		BudgetUnique:       len(budget.Cards),
		ExpensiveUnique:    len(expensive.Cards),
		OnlyInBudget:       []CardDelta{},
		OnlyInExpensive:    []CardDelta{},
		Upgraded:           []CardDelta{},
		Downgraded:         []CardDelta{},
		BudgetSourceURL:    budget.SourceURL,
		ExpensiveSourceURL: expensive.SourceURL,
	}

	budgetQty := make(map[string]int, len(budget.Cards))
	for _, card := range budget.Cards {
		budgetQty[strings.ToLower(card.Name)] = card.Quantity
	}
	expensiveQty := make(map[string]int, len(expensive.Cards))
	for _, card := range expensive.Cards {
		expensiveQty[strings.ToLower(card.Name)] = card.Quantity
	}

	for _, card := range budget.Cards {
		qty, shared := expensiveQty[strings.ToLower(card.Name)]
		if !shared {
			cmp.OnlyInBudget = append(cmp.OnlyInBudget, CardDelta{
				Name:           card.Name,
				BudgetQuantity: card.Quantity,
			})
			continue
		}
		cmp.CommonCards++
		delta := CardDelta{
			Name:              card.Name,
			BudgetQuantity:    card.Quantity,
			ExpensiveQuantity: qty,
		}
		switch {
		case qty > card.Quantity:
			cmp.Upgraded = append(cmp.Upgraded, delta)
		case qty < card.Quantity:
			cmp.Downgraded = append(cmp.Downgraded, delta)
		}
	}

	for _, card := range expensive.Cards {
		if _, shared := budgetQty[strings.ToLower(card.Name)]; !shared {
			cmp.OnlyInExpensive = append(cmp.OnlyInExpensive, CardDelta{
				Name:              card.Name,
				ExpensiveQuantity: card.Quantity,
			})
		}
	}

	return cmp
}

func diffCommanderName(id identity.Identity, decks ...*deckstats.AverageDeck) string {
	for _, deck := range decks {
		if deck != nil && deck.CommanderCard != nil {
			return deck.Commander
		}
	}
	return strings.TrimSpace(id.Raw)
}
