package handlers

import (
	"net/http"
	"time"

	"github.com/knack117/mightstone-gpt/internal/api/response"
)

const serviceName = "mightstone-gpt"

// SystemHandler handles health, service info, and privacy requests.
type SystemHandler struct {
	version    string
	instanceID string
	contact    string
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(version, instanceID, contact string) *SystemHandler {
	return &SystemHandler{
		version:    version,
		instanceID: instanceID,
		contact:    contact,
	}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	InstanceID string `json:"instance_id"`
	Timestamp  string `json:"timestamp"`
}

// ServiceInfo describes the service to API consumers.
type ServiceInfo struct {
	Service     string   `json:"service"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// PrivacyPolicy is the policy payload required for assistant publishing.
type PrivacyPolicy struct {
	Title       string `json:"title"`
	LastUpdated string `json:"last_updated"`
	Contact     string `json:"contact,omitempty"`
	Policy      string `json:"policy"`
}

// HealthCheck reports service liveness.
func (h *SystemHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, HealthResponse{
		Status:     "healthy",
		Service:    serviceName,
		Version:    h.version,
		InstanceID: h.instanceID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// Root returns service information and the feature list.
func (h *SystemHandler) Root(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, ServiceInfo{
		Service:     serviceName,
		Version:     h.version,
		Description: "Commander deckbuilding data API",
		Features: []string{
			"Commander summaries and average decks",
			"Budget versus expensive deck comparison",
			"Theme and tag card pools",
			"Card search, lookup, and autocomplete",
			"Deck list analysis",
			"Card recommendations",
		},
	})
}

// Privacy returns the privacy policy.
func (h *SystemHandler) Privacy(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, PrivacyPolicy{
		Title:       "Privacy Policy",
		LastUpdated: time.Now().UTC().Format("2006-01-02"),
		Contact:     h.contact,
		Policy: "This service stores no personal data. Requests are processed anonymously " +
			"and no user information is logged or stored. All card data comes from public " +
			"sources: the Scryfall API, EDHREC pages, and published average deck lists. " +
			"No personal information or user behavior is collected.",
	})
}
