package edhrec

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// CommanderPage is the response from the commander endpoint.
type CommanderPage struct {
	Container   *Container `json:"container"`
	Panels      *Panels    `json:"panels"`
	Similar     []*Similar `json:"similar"`
	Header      string     `json:"header"`
	Description string     `json:"description"`
}

// ThemePage is the response from the theme endpoint.
type ThemePage struct {
	Container   *Container `json:"container"`
	Header      string     `json:"header"`
	Description string     `json:"description"`
}

// Container holds the main data structure.
type Container struct {
	JSONDict    *JSONDict `json:"json_dict"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// JSONDict contains card lists and main card info.
type JSONDict struct {
	CardLists []*CardList `json:"cardlists"`
	Card      *CardInfo   `json:"card"`
}

// CardList is a categorized list of cards.
type CardList struct {
	Tag       string      `json:"tag"`
	Header    string      `json:"header"`
	CardViews []*CardView `json:"cardviews"`
}

// CardView is a card with synergy information.
type CardView struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Sanitized      string  `json:"sanitized"`
	URL            string  `json:"url"`
	Synergy        float64 `json:"synergy"`
	Lift           float64 `json:"lift"`
	Inclusion      int     `json:"inclusion"`
	NumDecks       int     `json:"num_decks"`
	PotentialDecks int     `json:"potential_decks"`
}

// CardInfo is the main card being queried.
type CardInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Sanitized     string   `json:"sanitized"`
	CMC           float64  `json:"cmc"`
	ColorIdentity []string `json:"color_identity"`
	Salt          float64  `json:"salt"`
	NumDecks      int      `json:"num_decks"`
}

// Similar is a card similar to the queried one.
type Similar struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Sanitized     string   `json:"sanitized"`
	CMC           float64  `json:"cmc"`
	ColorIdentity []string `json:"color_identity"`
	PrimaryType   string   `json:"primary_type"`
	Rarity        string   `json:"rarity"`
	Salt          float64  `json:"salt"`
}

// Panels carries the sidebar link groups of a commander page. Newer pages
// list theme links directly under "taglinks"; older ones nest them in a
// "links" group whose header is "Tags".
type Panels struct {
	TagLinks []*TagLink   `json:"taglinks"`
	Links    []*PanelLink `json:"links"`
}

// PanelLink is one link group in the page sidebar.
type PanelLink struct {
	Header string     `json:"header"`
	Items  []*TagLink `json:"items"`
}

// TagLink is one theme/tag link. Pages spell the label "value" or "name"
// and the deck count "count", "deckCount", "deck_count", or "numDecks".
type TagLink struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Slug      string `json:"slug"`
	Count     Count  `json:"count"`
	DeckCount Count  `json:"deckCount"`
	DeckCnt   Count  `json:"deck_count"`
	NumDecks  Count  `json:"numDecks"`
}

// Label returns the link's display name regardless of spelling.
func (t *TagLink) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Value
}

// Decks returns the first deck count the page supplied.
func (t *TagLink) Decks() int {
	for _, c := range []Count{t.DeckCount, t.DeckCnt, t.NumDecks, t.Count} {
		if c > 0 {
			return int(c)
		}
	}
	return 0
}

// Count is a deck count that tolerates the number, numeric-string, and
// null spellings upstream pages use. Unparseable values decode as zero
// rather than failing the whole page.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	*c = 0
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		if n >= 0 {
			*c = Count(n)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		digits := strings.ReplaceAll(s, ",", "")
		start := strings.IndexFunc(digits, func(r rune) bool { return r >= '0' && r <= '9' })
		if start < 0 {
			return nil
		}
		end := start
		for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
			end++
		}
		if v, err := strconv.Atoi(digits[start:end]); err == nil {
			*c = Count(v)
		}
	}
	return nil
}

// Theme is a deck theme advertised on a commander page.
type Theme struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Decks int    `json:"decks"`
}

// Section is one cardlist of a page, kept in page order.
type Section struct {
	Tag    string      `json:"tag"`
	Header string      `json:"header"`
	Cards  []*CardView `json:"cards"`
}

// CommanderData is the aggregator's extracted view of one commander.
// The common cardlists are broken out by tag; Sections keeps every
// cardlist of the page in page order.
type CommanderData struct {
	Key           string      `json:"key"`
	Name          string      `json:"name"`
	CMC           float64     `json:"cmc"`
	ColorIdentity []string    `json:"color_identity"`
	Salt          float64     `json:"salt"`
	NumDecks      int         `json:"num_decks"`
	HighSynergy   []*CardView `json:"high_synergy"`
	TopCards      []*CardView `json:"top_cards"`
	NewCards      []*CardView `json:"new_cards"`
	GameChangers  []*CardView `json:"game_changers"`
	SimilarCards  []*Similar  `json:"similar_cards"`
	Themes        []Theme     `json:"themes"`
	Sections      []Section   `json:"sections"`
	Description   string      `json:"description"`
	SourceURL     string      `json:"source_url"`
}

// ThemeData is the aggregator's extracted view of one theme.
type ThemeData struct {
	Slug         string      `json:"slug"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	HighSynergy  []*CardView `json:"high_synergy"`
	TopCards     []*CardView `json:"top_cards"`
	Creatures    []*CardView `json:"creatures"`
	Enchantments []*CardView `json:"enchantments"`
	Artifacts    []*CardView `json:"artifacts"`
	Sections     []Section   `json:"sections"`
	SourceURL    string      `json:"source_url"`
}
