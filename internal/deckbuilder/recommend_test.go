package deckbuilder

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/knack117/mightstone-gpt/internal/edhrec"
	"github.com/knack117/mightstone-gpt/internal/upstream"
)

func tokensTheme(slug string) *edhrec.ThemeData {
	return &edhrec.ThemeData{
		Slug: slug,
		Name: "Tokens",
		Sections: []edhrec.Section{
			{Header: "High Synergy Cards", Cards: []*edhrec.CardView{
				{Name: "Parallel Lives", Synergy: 0.42},
			}},
		},
		SourceURL: "https://example.test/themes/" + slug,
	}
}

func TestRecommendations_Groups(t *testing.T) {
	aggregator := &fakeAggregator{
		getCommander: func(context.Context, string) (*edhrec.CommanderData, error) {
			return commanderFixture(), nil
		},
	}

	rec, err := newTestService(aggregator, nil, nil).Recommendations(context.Background(),
		"Atraxa, Praetors' Voice", nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rec.Groups) != 2 {
		t.Fatalf("Groups length = %d, want 2", len(rec.Groups))
	}
	if rec.Groups[0].Category != "High Synergy Cards" || rec.Groups[1].Category != "Top Cards" {
		t.Errorf("group order = %q, %q", rec.Groups[0].Category, rec.Groups[1].Category)
	}
	if len(rec.Groups[0].Cards) != 2 {
		t.Errorf("Groups[0].Cards length = %d, want 2", len(rec.Groups[0].Cards))
	}
	if rec.Groups[0].Cards[0].Synergy != 0.55 {
		t.Errorf("Synergy = %v, want 0.55", rec.Groups[0].Cards[0].Synergy)
	}
	if rec.EDHRECURL == "" {
		t.Error("EDHRECURL is empty")
	}
	want := []string{"exhibition", "core", "upgraded", "optimized", "cedh"}
	if !reflect.DeepEqual(rec.BudgetBrackets, want) {
		t.Errorf("BudgetBrackets = %v, want %v", rec.BudgetBrackets, want)
	}
}

func TestRecommendations_Excludes(t *testing.T) {
	aggregator := &fakeAggregator{
		getCommander: func(context.Context, string) (*edhrec.CommanderData, error) {
			return commanderFixture(), nil
		},
	}

	rec, err := newTestService(aggregator, nil, nil).Recommendations(context.Background(),
		"Atraxa", []string{" SOL RING ", "Flux Channeler"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// "Top Cards" only held Sol Ring, so the whole group disappears.
	if len(rec.Groups) != 1 {
		t.Fatalf("Groups = %+v, want the emptied group dropped", rec.Groups)
	}
	if len(rec.Groups[0].Cards) != 1 || rec.Groups[0].Cards[0].Name != "Evolution Sage" {
		t.Errorf("Groups[0].Cards = %+v", rec.Groups[0].Cards)
	}
}

func TestRecommendations_ThemeMerge(t *testing.T) {
	var gotSlug, gotColors string
	aggregator := &fakeAggregator{
		getCommander: func(context.Context, string) (*edhrec.CommanderData, error) {
			return commanderFixture(), nil
		},
		getTheme: func(_ context.Context, slug, colors string) (*edhrec.ThemeData, error) {
			gotSlug, gotColors = slug, colors
			return tokensTheme(slug), nil
		},
	}

	rec, err := newTestService(aggregator, nil, nil).Recommendations(context.Background(),
		"Atraxa", nil, []string{"Token Swarm"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotSlug != "token-swarm" {
		t.Errorf("slug = %q", gotSlug)
	}
	if gotColors != "wubg" {
		t.Errorf("colors = %q, want the commander's identity", gotColors)
	}
	if len(rec.Groups) != 3 {
		t.Fatalf("Groups length = %d, want commander sections plus theme section", len(rec.Groups))
	}
	last := rec.Groups[len(rec.Groups)-1]
	if last.Category != "Tokens: High Synergy Cards" {
		t.Errorf("theme group category = %q", last.Category)
	}
}

func TestRecommendations_ThemeCap(t *testing.T) {
	calls := 0
	aggregator := &fakeAggregator{
		getCommander: func(context.Context, string) (*edhrec.CommanderData, error) {
			return commanderFixture(), nil
		},
		getTheme: func(_ context.Context, slug, _ string) (*edhrec.ThemeData, error) {
			calls++
			return tokensTheme(slug), nil
		},
	}

	_, err := newTestService(aggregator, nil, nil).Recommendations(context.Background(),
		"Atraxa", nil, []string{"tokens", "counters", "blink", "lifegain", "mill"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("theme fetches = %d, want capped at 3", calls)
	}
}

func TestRecommendations_MissingThemeSkipped(t *testing.T) {
	aggregator := &fakeAggregator{
		getCommander: func(context.Context, string) (*edhrec.CommanderData, error) {
			return commanderFixture(), nil
		},
		getTheme: func(_ context.Context, slug, _ string) (*edhrec.ThemeData, error) {
			if slug == "ghosts" {
				return nil, upstream.NotFound("edhrec", "theme not found")
			}
			return tokensTheme(slug), nil
		},
	}

	rec, err := newTestService(aggregator, nil, nil).Recommendations(context.Background(),
		"Atraxa", nil, []string{"ghosts", "tokens"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rec.Groups) != 3 {
		t.Errorf("Groups length = %d, want the missing theme skipped", len(rec.Groups))
	}
}

func TestRecommendations_ThemeFailurePropagates(t *testing.T) {
	aggregator := &fakeAggregator{
		getCommander: func(context.Context, string) (*edhrec.CommanderData, error) {
			return commanderFixture(), nil
		},
		getTheme: func(context.Context, string, string) (*edhrec.ThemeData, error) {
			return nil, upstream.Unavailable("edhrec", 503, errors.New("down"))
		},
	}

	_, err := newTestService(aggregator, nil, nil).Recommendations(context.Background(),
		"Atraxa", nil, []string{"tokens"})
	if upstream.KindOf(err) != upstream.KindUnavailable {
		t.Fatalf("error = %v, want unavailable", err)
	}
}
