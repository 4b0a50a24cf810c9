// Package identity canonicalizes free-text commander names into the
// lookup keys the upstream providers expect.
package identity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Identity is the canonical form of a commander name.
type Identity struct {
	// Raw is the input as received.
	Raw string `json:"raw"`
	// Key is the canonical lookup key. For partner pairs it is the two
	// sub-keys sorted lexicographically and joined with a hyphen.
	Key string `json:"key"`
	// PartnerKeys holds the individual keys of a partner pair.
	PartnerKeys []string `json:"partner_keys,omitempty"`
	// Partner reports whether the identity is a partner pair.
	Partner bool `json:"partner,omitempty"`
}

// InvalidIdentityError reports input that cannot name a commander.
type InvalidIdentityError struct {
	Input  string
	Reason string
}

func (e *InvalidIdentityError) Error() string {
	return fmt.Sprintf("invalid commander identity %q: %s", e.Input, e.Reason)
}

// IsInvalid reports whether err is an InvalidIdentityError.
func IsInvalid(err error) bool {
	var ie *InvalidIdentityError
	return errors.As(err, &ie)
}

// partnerSeparator splits partner pairs. "+" appears in no card name,
// unlike "//" (double-faced cards) and "&" (Minsc & Boo, Timeless Heroes).
const partnerSeparator = "+"

// Normalize canonicalizes a free-text commander name. It is deterministic
// and idempotent: normalizing an already-normalized key yields the same key.
func Normalize(name string) (Identity, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Identity{}, &InvalidIdentityError{Input: name, Reason: "empty name"}
	}

	parts := splitPartners(trimmed)
	if len(parts) > 2 {
		return Identity{}, &InvalidIdentityError{Input: name, Reason: "more than two partner names"}
	}

	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		key := Slug(part)
		if !hasLetter(key) {
			return Identity{}, &InvalidIdentityError{Input: name, Reason: "no alphabetic characters"}
		}
		keys = append(keys, key)
	}

	if len(keys) == 1 {
		return Identity{Raw: name, Key: keys[0]}, nil
	}

	sort.Strings(keys)
	return Identity{
		Raw:         name,
		Key:         strings.Join(keys, "-"),
		PartnerKeys: keys,
		Partner:     true,
	}, nil
}

// Slug converts a card, commander, or theme name into its URL form:
// lower case, apostrophes and other punctuation erased in place, word
// separators collapsed to single hyphens. For a double-faced name the
// front face names the page.
func Slug(name string) string {
	if i := strings.Index(name, "//"); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingSep = true
		default:
			// Punctuation is erased without leaving a gap: "Sol'kanar"
			// becomes "solkanar", not "sol-kanar".
		}
	}
	return b.String()
}

func splitPartners(s string) []string {
	if !strings.Contains(s, partnerSeparator) {
		return []string{s}
	}
	var out []string
	for _, part := range strings.Split(s, partnerSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) < 2 {
		return []string{s}
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// colorOrder is the canonical WUBRG ordering of mana colors.
var colorOrder = []rune{'W', 'U', 'B', 'R', 'G'}

// CanonicalColors converts a color list into the canonical color-identity
// string: symbols in WUBRG order, "C" for colorless, "WUBRG" for five-color.
// Unknown symbols are ignored.
func CanonicalColors(colors []string) string {
	present := make(map[rune]bool, len(colors))
	for _, c := range colors {
		for _, r := range strings.ToUpper(strings.TrimSpace(c)) {
			present[r] = true
		}
	}

	var b strings.Builder
	for _, r := range colorOrder {
		if present[r] {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "C"
	}
	return b.String()
}

// ParseColors validates a user-supplied color-identity string such as "UR"
// or "wbg" and returns the individual symbols. "C" alone means colorless
// and yields an empty list.
func ParseColors(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.EqualFold(s, "C") {
		return []string{}, nil
	}

	colors := make([]string, 0, len(s))
	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'W', 'U', 'B', 'R', 'G':
			colors = append(colors, string(r))
		default:
			return nil, fmt.Errorf("invalid color symbol %q: must be one of W, U, B, R, G", string(r))
		}
	}
	return colors, nil
}
