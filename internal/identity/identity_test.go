package identity

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Sol Ring", "sol-ring"},
		{"commas stripped", "Atraxa, Praetors' Voice", "atraxa-praetors-voice"},
		{"apostrophe erased in place", "Sol'kanar the Swamp King", "solkanar-the-swamp-king"},
		{"leading apostrophe word", "K'rrik, Son of Yawgmoth", "krrik-son-of-yawgmoth"},
		{"mixed case collapsed", "  URZA, LORD HIGH ARTIFICER  ", "urza-lord-high-artificer"},
		{"interior whitespace run", "Niv-Mizzet,   Parun", "niv-mizzet-parun"},
		{"double-faced front face", "Esika, God of the Tree // The Prismatic Bridge", "esika-god-of-the-tree"},
		{"already normalized", "atraxa-praetors-voice", "atraxa-praetors-voice"},
		{"period erased", "Mr. Orfeo, the Boulder", "mr-orfeo-the-boulder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tt.input, err)
			}
			if id.Key != tt.expected {
				t.Errorf("Normalize(%q).Key = %q, want %q", tt.input, id.Key, tt.expected)
			}
			if id.Raw != tt.input {
				t.Errorf("Normalize(%q).Raw = %q, want input preserved", tt.input, id.Raw)
			}
			if id.Partner {
				t.Errorf("Normalize(%q).Partner = true, want false", tt.input)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Atraxa, Praetors' Voice",
		"Thrasios, Triton Hero + Tymna the Weaver",
		"Esika, God of the Tree // The Prismatic Bridge",
	}

	for _, input := range inputs {
		first, err := Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", input, err)
		}
		second, err := Normalize(first.Key)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", first.Key, err)
		}
		if second.Key != first.Key {
			t.Errorf("Normalize(%q).Key = %q, want %q (not idempotent)", first.Key, second.Key, first.Key)
		}
	}
}

func TestNormalizePartnerPair(t *testing.T) {
	id, err := Normalize("Thrasios, Triton Hero + Tymna the Weaver")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if !id.Partner {
		t.Error("Partner = false, want true")
	}
	if len(id.PartnerKeys) != 2 {
		t.Fatalf("len(PartnerKeys) = %d, want 2", len(id.PartnerKeys))
	}
	if id.PartnerKeys[0] != "thrasios-triton-hero" {
		t.Errorf("PartnerKeys[0] = %q, want %q", id.PartnerKeys[0], "thrasios-triton-hero")
	}
	if id.PartnerKeys[1] != "tymna-the-weaver" {
		t.Errorf("PartnerKeys[1] = %q, want %q", id.PartnerKeys[1], "tymna-the-weaver")
	}
	if id.Key != "thrasios-triton-hero-tymna-the-weaver" {
		t.Errorf("Key = %q, want %q", id.Key, "thrasios-triton-hero-tymna-the-weaver")
	}
}

func TestNormalizePartnerOrderInsensitive(t *testing.T) {
	forward, err := Normalize("Thrasios, Triton Hero + Tymna the Weaver")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	reversed, err := Normalize("Tymna the Weaver + Thrasios, Triton Hero")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if forward.Key != reversed.Key {
		t.Errorf("partner key depends on order: %q != %q", forward.Key, reversed.Key)
	}
}

func TestNormalizeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"digits only", "123"},
		{"punctuation only", "!!!"},
		{"three partners", "Thrasios + Tymna + Kraum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			if err == nil {
				t.Fatalf("Normalize(%q) succeeded, want error", tt.input)
			}
			if !IsInvalid(err) {
				t.Errorf("Normalize(%q) error = %v, want InvalidIdentityError", tt.input, err)
			}
			if !strings.Contains(err.Error(), "invalid commander identity") {
				t.Errorf("error message %q missing identity context", err.Error())
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"theme with underscores", "counters_matter", "counters-matter"},
		{"theme with spaces", "Group Hug", "group-hug"},
		{"slashes erased in place", "+1/+1 Counters", "11-counters"},
		{"trailing punctuation", "Voltron!", "voltron"},
		{"hyphens preserved", "mono-red", "mono-red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slug(tt.input)
			if result != tt.expected {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCanonicalColors(t *testing.T) {
	tests := []struct {
		name     string
		colors   []string
		expected string
	}{
		{"nil is colorless", nil, "C"},
		{"empty is colorless", []string{}, "C"},
		{"single color", []string{"G"}, "G"},
		{"two colors reordered", []string{"R", "U"}, "UR"},
		{"five colors", []string{"B", "W", "U", "G", "R"}, "WUBRG"},
		{"lower case input", []string{"u", "r"}, "UR"},
		{"unknown symbols ignored", []string{"U", "X"}, "U"},
		{"duplicates collapsed", []string{"W", "W", "B"}, "WB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanonicalColors(tt.colors)
			if result != tt.expected {
				t.Errorf("CanonicalColors(%v) = %q, want %q", tt.colors, result, tt.expected)
			}
		})
	}
}

func TestParseColors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		wantErr  bool
	}{
		{"upper case pair", "UR", []string{"U", "R"}, false},
		{"lower case triple", "wbg", []string{"W", "B", "G"}, false},
		{"colorless", "C", []string{}, false},
		{"empty absent", "", nil, false},
		{"invalid letter", "X", nil, true},
		{"digit rejected", "W1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colors, err := ParseColors(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseColors(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColors(%q) returned error: %v", tt.input, err)
			}
			if len(colors) != len(tt.expected) {
				t.Fatalf("ParseColors(%q) = %v, want %v", tt.input, colors, tt.expected)
			}
			for i := range colors {
				if colors[i] != tt.expected[i] {
					t.Errorf("ParseColors(%q)[%d] = %q, want %q", tt.input, i, colors[i], tt.expected[i])
				}
			}
		})
	}
}
