package upstream

import (
	"context"
	"strings"
	"time"
)

// DefaultUserAgent identifies this service to the upstream providers.
// Operators should override it with a contact address via configuration.
const DefaultUserAgent = "Mightstone-GPT/2.0 (+https://github.com/Knack117/Mightstone-GPT)"

// RetryDelay converts a Retry-After header value into a wait duration.
// Providers send integer seconds; anything unparseable yields fallback.
// The result never exceeds max.
func RetryDelay(header string, fallback, max time.Duration) time.Duration {
	delay := fallback
	if header != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(header) + "s"); err == nil && parsed >= 0 {
			delay = parsed
		}
	}
	if delay > max {
		delay = max
	}
	return delay
}

// Wait sleeps for d or until ctx is canceled, whichever comes first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
