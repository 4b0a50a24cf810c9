// Package upstream defines the error taxonomy shared by the external
// provider adapters. Adapters classify every failure into one of the
// kinds below; handlers may convert a kind into a more specific one but
// never swallow an error into an empty result.
package upstream

import (
	"errors"
	"time"
)

// Kind classifies an upstream failure.
type Kind string

// Failure kinds surfaced by the provider adapters.
const (
	KindNotFound       Kind = "not_found"
	KindRateLimited    Kind = "rate_limited"
	KindUnavailable    Kind = "upstream_unavailable"
	KindDataError      Kind = "upstream_data_error"
	KindPartialFailure Kind = "partial_upstream_failure"
)

// Error represents a failure talking to or interpreting an external provider.
type Error struct {
	Kind       Kind
	Provider   string        // "edhrec", "deckstats", "scryfall"
	StatusCode int           // upstream HTTP status, 0 for transport failures
	RetryAfter time.Duration // suggested delay when Kind is KindRateLimited
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that the provider has no data for the requested key.
func NotFound(provider, message string) *Error {
	return &Error{Kind: KindNotFound, Provider: provider, StatusCode: 404, Message: message}
}

// RateLimited reports that the provider throttled us even after the
// adapter's single retry. RetryAfter carries the provider-suggested delay.
func RateLimited(provider string, retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimited,
		Provider:   provider,
		StatusCode: 429,
		RetryAfter: retryAfter,
		Message:    "rate limited",
	}
}

// Unavailable reports a 5xx response or a transport-level failure.
// statusCode is 0 when the request never produced a response.
func Unavailable(provider string, statusCode int, err error) *Error {
	return &Error{
		Kind:       KindUnavailable,
		Provider:   provider,
		StatusCode: statusCode,
		Message:    "upstream unavailable",
		Err:        err,
	}
}

// DataError reports a response body the adapter could not interpret.
func DataError(provider string, err error) *Error {
	return &Error{Kind: KindDataError, Provider: provider, Message: "malformed upstream response", Err: err}
}

// PartialFailure reports that one branch of a multi-provider operation
// failed while another succeeded. Provider names the failed branch.
func PartialFailure(provider, message string, err error) *Error {
	return &Error{Kind: KindPartialFailure, Provider: provider, Message: message, Err: err}
}

// As unwraps err into an *Error if one is in its chain.
func As(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err carries no upstream error.
func KindOf(err error) Kind {
	if ue, ok := As(err); ok {
		return ue.Kind
	}
	return ""
}

// IsNotFound reports whether err is an upstream not-found.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsRateLimited reports whether err is an upstream rate limit.
func IsRateLimited(err error) bool {
	return KindOf(err) == KindRateLimited
}
