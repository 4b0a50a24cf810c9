// Package response writes the service's JSON bodies and maps service
// errors onto HTTP statuses.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/knack117/mightstone-gpt/internal/deckbuilder"
	"github.com/knack117/mightstone-gpt/internal/identity"
	"github.com/knack117/mightstone-gpt/internal/upstream"
)

// ErrorResponse is the error body. Kind, Provider, RetryAfter, and
// Partial are present only for upstream failures.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Code       int    `json:"code"`
	Kind       string `json:"kind,omitempty"`
	Provider   string `json:"provider,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
	Partial    bool   `json:"partial,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Success writes the payload as-is with a 200 status.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, err error) {
	JSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, err)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, err error) {
	Error(w, http.StatusInternalServerError, err)
}

// FromError maps a service error onto the response: caller mistakes are
// 400, upstream failures keep their kind, provider, and retry hint, and
// anything unrecognized is a 500.
func FromError(w http.ResponseWriter, err error) {
	if deckbuilder.IsInputError(err) || identity.IsInvalid(err) {
		BadRequest(w, err)
		return
	}

	ue, ok := upstream.As(err)
	if !ok {
		InternalError(w, err)
		return
	}

	slog.Warn("upstream failure",
		"provider", ue.Provider,
		"kind", string(ue.Kind),
		"status", ue.StatusCode,
		"error", ue.Error())

	switch ue.Kind {
	case upstream.KindNotFound:
		upstreamError(w, http.StatusNotFound, ue)
	case upstream.KindRateLimited:
		if secs := retrySeconds(ue.RetryAfter); secs > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		upstreamError(w, http.StatusTooManyRequests, ue)
	case upstream.KindUnavailable:
		upstreamError(w, http.StatusServiceUnavailable, ue)
	case upstream.KindDataError, upstream.KindPartialFailure:
		upstreamError(w, http.StatusBadGateway, ue)
	default:
		InternalError(w, err)
	}
}

func upstreamError(w http.ResponseWriter, status int, ue *upstream.Error) {
	JSON(w, status, ErrorResponse{
		Error:      http.StatusText(status),
		Message:    ue.Error(),
		Code:       status,
		Kind:       string(ue.Kind),
		Provider:   ue.Provider,
		RetryAfter: retrySeconds(ue.RetryAfter),
		Partial:    ue.Kind == upstream.KindPartialFailure,
	})
}

// retrySeconds reports a retry delay in whole seconds, rounding short
// delays up so a positive hint never becomes zero.
func retrySeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
