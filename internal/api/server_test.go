package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/knack117/mightstone-gpt/internal/api/response"
	"github.com/knack117/mightstone-gpt/internal/deckbuilder"
	"github.com/knack117/mightstone-gpt/internal/deckstats"
	"github.com/knack117/mightstone-gpt/internal/edhrec"
	"github.com/knack117/mightstone-gpt/internal/scryfall"
)

func TestNewServer(t *testing.T) {
	cfg := DefaultConfig()

	server := NewServer(cfg, nil, nil, nil)

	if server == nil {
		t.Fatal("NewServer returned nil")
	}
	if server.port != cfg.Port {
		t.Errorf("expected port %d, got %d", cfg.Port, server.port)
	}
	if server.InstanceID() == "" {
		t.Error("expected an instance id")
	}
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, nil, nil, nil)

	if server == nil {
		t.Fatal("NewServer returned nil with nil config")
	}
	if server.port != 8080 {
		t.Errorf("expected default port 8080, got %d", server.port)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("expected 60s request timeout, got %v", cfg.RequestTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected open origins, got %v", cfg.AllowedOrigins)
	}
}

func TestServer_Port(t *testing.T) {
	server := NewServer(&Config{Port: 9999}, nil, nil, nil)

	if server.Port() != 9999 {
		t.Errorf("expected port 9999, got %d", server.Port())
	}
}

func TestServer_Shutdown_NotStarted(t *testing.T) {
	server := NewServer(nil, nil, nil, nil)

	if err := server.Shutdown(nil); err != nil {
		t.Errorf("expected no error on shutdown of non-started server, got %v", err)
	}
}

// upstreamFixture fakes the three providers behind one test server each.
type upstreamFixture struct {
	aggregator *httptest.Server
	deckStats  *httptest.Server
	cards      *httptest.Server
	server     *Server
}

func newUpstreamFixture(t *testing.T, aggregator, deckStats, cards http.HandlerFunc) *upstreamFixture {
	t.Helper()

	notImplemented := func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "unexpected call"}`, http.StatusInternalServerError)
	}
	if aggregator == nil {
		aggregator = notImplemented
	}
	if deckStats == nil {
		deckStats = notImplemented
	}
	if cards == nil {
		cards = notImplemented
	}

	f := &upstreamFixture{
		aggregator: httptest.NewServer(aggregator),
		deckStats:  httptest.NewServer(deckStats),
		cards:      httptest.NewServer(cards),
	}
	t.Cleanup(f.close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cardClient := scryfall.NewClient(scryfall.Options{
		BaseURL:         f.cards.URL,
		RequestInterval: time.Millisecond,
	})
	service := deckbuilder.NewService(deckbuilder.ServiceConfig{
		Aggregator: edhrec.NewClient(edhrec.Options{
			BaseURL:         f.aggregator.URL,
			RequestInterval: time.Millisecond,
		}),
		DeckStats: deckstats.NewClient(deckstats.Options{
			BaseURL:         f.deckStats.URL,
			RequestInterval: time.Millisecond,
		}),
		Cards:  cardClient,
		Logger: logger,
	})

	f.server = NewServer(&Config{Port: 0, Version: "test"}, service, cardClient, logger)
	return f
}

func (f *upstreamFixture) close() {
	f.aggregator.Close()
	f.deckStats.Close()
	f.cards.Close()
}

func (f *upstreamFixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

const commanderPageJSON = `{
	"header": "Sol Ring",
	"container": {
		"json_dict": {
			"card": {
				"name": "Sol Ring",
				"sanitized": "sol-ring",
				"cmc": 1,
				"color_identity": [],
				"num_decks": 500
			},
			"cardlists": []
		}
	}
}`

const optimizedDeckJSON = `{
	"header": "Sol Ring (Optimized)",
	"deck": [
		{"name": "Arcane Signet", "quantity": 1},
		{"name": "Counterspell", "quantity": 1},
		{"name": "Swan Song", "quantity": 1},
		{"name": "Brainstorm", "quantity": 1},
		{"name": "Island", "quantity": 1}
	]
}`

func TestServer_CommanderDeckRoundTrip(t *testing.T) {
	f := newUpstreamFixture(t,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/commanders/sol-ring.json" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(commanderPageJSON))
		},
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/sol-ring/optimized.json" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(optimizedDeckJSON))
		},
		nil,
	)

	rec := f.get(t, "/commander/Sol%20Ring?bracket=optimized")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary deckbuilder.CommanderSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if summary.Deck == nil {
		t.Fatal("expected an attached deck")
	}
	if summary.Deck.Bracket != "optimized" {
		t.Errorf("expected bracket %q, got %q", "optimized", summary.Deck.Bracket)
	}

	want := []string{"Arcane Signet", "Counterspell", "Swan Song", "Brainstorm", "Island"}
	if len(summary.Deck.Cards) != len(want) {
		t.Fatalf("expected %d cards, got %d", len(want), len(summary.Deck.Cards))
	}
	for i, name := range want {
		if summary.Deck.Cards[i].Name != name {
			t.Errorf("card %d = %q, want %q", i, summary.Deck.Cards[i].Name, name)
		}
	}
}

func TestServer_DeckMissingBracket404(t *testing.T) {
	f := newUpstreamFixture(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
		nil,
	)

	rec := f.get(t, "/commander/nadu/deck?bracket=cedh")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rec.Code, rec.Body.String())
	}

	var body response.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Kind != "not_found" {
		t.Errorf("expected kind %q, got %q", "not_found", body.Kind)
	}
}

func TestServer_HealthRoute(t *testing.T) {
	f := newUpstreamFixture(t, nil, nil, nil)

	rec := f.get(t, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", body["status"])
	}
	if id, _ := body["instance_id"].(string); id == "" {
		t.Error("expected an instance id")
	}
}

func TestServer_AnalyzeRoute(t *testing.T) {
	f := newUpstreamFixture(t, nil, nil,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/cards/collection" || r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(`{
				"object": "list",
				"not_found": [],
				"data": [
					{"name": "Sol Ring", "cmc": 1, "type_line": "Artifact", "color_identity": []},
					{"name": "Forest", "cmc": 0, "type_line": "Basic Land — Forest", "color_identity": ["G"]}
				]
			}`))
		},
	)

	body := strings.NewReader(`["2 Sol Ring", {"name": "Forest"}]`)
	req := httptest.NewRequest(http.MethodPost, "/deck/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var analysis deckbuilder.DeckAnalysis
	if err := json.NewDecoder(rec.Body).Decode(&analysis); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if analysis.TotalCards != 3 {
		t.Errorf("expected 3 total cards, got %d", analysis.TotalCards)
	}
	if analysis.UniqueCards != 2 {
		t.Errorf("expected 2 unique cards, got %d", analysis.UniqueCards)
	}
}

func TestServer_AnalyzeRoute_WrongContentType(t *testing.T) {
	f := newUpstreamFixture(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/deck/analyze", strings.NewReader(`["Sol Ring"]`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status 415, got %d", rec.Code)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	f := newUpstreamFixture(t, nil, nil, nil)

	rec := f.get(t, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
