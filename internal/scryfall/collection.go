package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxBatchSize is the card database's per-request identifier limit.
const MaxBatchSize = 75

// CardIdentifier addresses one card in a collection lookup.
type CardIdentifier struct {
	ID              string `json:"id,omitempty"`
	OracleID        string `json:"oracle_id,omitempty"`
	Name            string `json:"name,omitempty"`
	Set             string `json:"set,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
}

// CollectionRequest is the request body for a batch lookup.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response for a batch lookup.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames resolves card names through the batch collection
// endpoint, splitting the input into requests of at most MaxBatchSize
// identifiers. Returns the resolved cards plus the names nothing matched;
// unresolved names are not an error.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return []Card{}, nil, nil
	}

	var cards []Card
	var notFound []string

	for start := 0; start < len(names); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(names) {
			end = len(names)
		}

		identifiers := make([]CardIdentifier, 0, end-start)
		for _, name := range names[start:end] {
			identifiers = append(identifiers, CardIdentifier{Name: name})
		}

		resp, err := c.collection(ctx, identifiers)
		if err != nil {
			return nil, nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		cards = append(cards, resp.Data...)
		for _, id := range resp.NotFound {
			if id.Name != "" {
				notFound = append(notFound, id.Name)
			}
		}
	}

	return cards, notFound, nil
}

// collection performs one batch lookup.
func (c *Client) collection(ctx context.Context, identifiers []CardIdentifier) (*CollectionResponse, error) {
	payload, err := json.Marshal(CollectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp CollectionResponse
	if err := c.fetch(ctx, http.MethodPost, c.baseURL+"/cards/collection", payload, "collection", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
