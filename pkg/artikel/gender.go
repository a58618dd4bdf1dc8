// Package artikel determines the grammatical gender of German nouns.
//
// Classification is a two-stage pipeline: a curated exception dictionary
// is consulted first, then an ordered cascade of morphological rules is
// applied to the canonical form. The first matching rule wins. Everything
// in this package is pure and safe for concurrent use.
package artikel

import (
	"fmt"
	"strings"
)

// Gender is a grammatical gender marker. The zero value is Unknown.
type Gender int

const (
	Unknown Gender = iota
	Masculine
	Feminine
	Neuter
)

// Article returns the definite article token: der, die, das or unknown.
func (g Gender) Article() string {
	switch g {
	case Masculine:
		return "der"
	case Feminine:
		return "die"
	case Neuter:
		return "das"
	default:
		return "unknown"
	}
}

func (g Gender) String() string {
	switch g {
	case Masculine:
		return "masculine"
	case Feminine:
		return "feminine"
	case Neuter:
		return "neuter"
	default:
		return "unknown"
	}
}

// MarshalText encodes the gender as its article token.
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.Article()), nil
}

// UnmarshalText accepts anything ParseGender accepts.
func (g *Gender) UnmarshalText(b []byte) error {
	v, err := ParseGender(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGender reads an article token (der/die/das), a genus code (m/f/n),
// or an English or German gender name. "unknown" and "" parse to Unknown.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "der", "m", "masc", "masculine", "maskulinum":
		return Masculine, nil
	case "die", "f", "fem", "feminine", "femininum":
		return Feminine, nil
	case "das", "n", "neut", "neuter", "neutrum":
		return Neuter, nil
	case "", "unknown":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("artikel: unrecognised gender %q", s)
}
