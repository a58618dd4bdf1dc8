package artikel

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, canonical, base string
	}{
		{"Mädchen", "mädchen", "mädchen"},
		{"  Fräulein\t", "fräulein", "fräulein"},
		{"Lehrerinnen", "lehrerinnen", "lehrerin"},
		{"Station", "station", "station"},
		{"Stationen", "stationen", "station"},
		{"Mission", "mission", "mission"},
		{"Hunde", "hunde", "hund"},
		{"Frauen", "frauen", "frau"},
		{"Straße", "strasse", "strass"},
		{"FUßBALL", "fussball", "fussball"},
		{"Bäume", "bäume", "bäum"},
		{"Eﬀekt", "effekt", "effekt"},
		{"Ma\u0308dchen", "mädchen", "mädchen"},
		{"innen", "innen", "in"},
		{"en", "en", "en"},
		{"den", "den", "den"},
		{"ee", "ee", "ee"},
		{"xyz", "xyz", "xyz"},
	}
	for _, tt := range tests {
		f, err := Normalize(tt.input)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", tt.input, err)
		}
		if f.Canonical != tt.canonical {
			t.Errorf("Normalize(%q).Canonical = %q, want %q", tt.input, f.Canonical, tt.canonical)
		}
		if f.Base != tt.base {
			t.Errorf("Normalize(%q).Base = %q, want %q", tt.input, f.Base, tt.base)
		}
	}
}

func TestNormalize_Blank(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n  "} {
		_, err := Normalize(input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Normalize(%q) err = %v, want ErrInvalidInput", input, err)
		}
	}
}

func TestNormalize_BaseLength(t *testing.T) {
	words := []string{"Tee", "Seen", "Ehe", "Eier", "Ideen", "Knie", "Uhren", "Ei", "innen", "Arbeiterinnen"}
	for _, w := range words {
		f, err := Normalize(w)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", w, err)
		}
		if f.Base != f.Canonical && utf8.RuneCountInString(f.Base) < 2 {
			t.Errorf("Normalize(%q).Base = %q, stripped below 2 runes", w, f.Base)
		}
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	for _, w := range []string{"Mädchen", "STRAẞE", "Fußgänger", "Eﬃzienz", "  Lehrerinnen ", "Ärger"} {
		once := Canonical(w)
		twice := Canonical(once)
		if once != twice {
			t.Errorf("Canonical not idempotent for %q: %q then %q", w, once, twice)
		}
	}
}

func TestCanonical_CapitalEszett(t *testing.T) {
	if got := Canonical("STRAẞE"); got != "strasse" {
		t.Errorf("Canonical(STRAẞE) = %q, want strasse", got)
	}
}
