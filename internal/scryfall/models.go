package scryfall

import "fmt"

// Card is one card object as the card database returns it. Fields pass
// through verbatim; nothing is recomputed locally.
type Card struct {
	// Core fields
	ID       string `json:"id"`
	OracleID string `json:"oracle_id,omitempty"`

	// Card details
	Name          string     `json:"name"`
	Lang          string     `json:"lang,omitempty"`
	ReleasedAt    string     `json:"released_at,omitempty"`
	URI           string     `json:"uri,omitempty"`
	ScryfallURI   string     `json:"scryfall_uri,omitempty"`
	Layout        string     `json:"layout,omitempty"`
	ImageURIs     *ImageURIs `json:"image_uris,omitempty"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	CMC           float64    `json:"cmc"`
	TypeLine      string     `json:"type_line"`
	OracleText    string     `json:"oracle_text,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	ColorIdentity []string   `json:"color_identity"`
	Keywords      []string   `json:"keywords,omitempty"`

	// Gameplay
	Power        string `json:"power,omitempty"`
	Toughness    string `json:"toughness,omitempty"`
	Loyalty      string `json:"loyalty,omitempty"`
	LifeModifier string `json:"life_modifier,omitempty"`
	HandModifier string `json:"hand_modifier,omitempty"`

	// Print details
	SetCode         string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number,omitempty"`
	Rarity          string `json:"rarity"`
	Artist          string `json:"artist,omitempty"`
	FlavorText      string `json:"flavor_text,omitempty"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`

	// Commander play rate rank, lower is more played
	EDHRECRank *int `json:"edhrec_rank,omitempty"`

	// Legality and prices
	Legalities map[string]string `json:"legalities,omitempty"`
	Prices     Prices            `json:"prices"`

	// Related
	RelatedURIs  map[string]string `json:"related_uris,omitempty"`
	PurchaseURIs map[string]string `json:"purchase_uris,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	Power      string     `json:"power,omitempty"`
	Toughness  string     `json:"toughness,omitempty"`
	Loyalty    string     `json:"loyalty,omitempty"`
	Artist     string     `json:"artist,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
	FlavorText string     `json:"flavor_text,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	PNG        string `json:"png"`
	ArtCrop    string `json:"art_crop"`
	BorderCrop string `json:"border_crop"`
}

// Prices represents the prices of a card in various currencies.
type Prices struct {
	USD       *string `json:"usd,omitempty"`
	USDFoil   *string `json:"usd_foil,omitempty"`
	USDEtched *string `json:"usd_etched,omitempty"`
	EUR       *string `json:"eur,omitempty"`
	EURFoil   *string `json:"eur_foil,omitempty"`
	TIX       *string `json:"tix,omitempty"`
}

// SearchResult represents one page of card search results.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// Catalog is the name list the autocomplete endpoint returns.
type Catalog struct {
	Object      string   `json:"object"`
	TotalValues int      `json:"total_values"`
	Data        []string `json:"data"`
}

// APIError represents a structured error response from the card database.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("card API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("card API error (HTTP %d): %s", e.Status, e.Code)
}
