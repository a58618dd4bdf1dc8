package artikel

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidInput is returned by Normalize for empty or blank words.
var ErrInvalidInput = errors.New("artikel: empty word")

// Form is the normalised view of a word.
type Form struct {
	// Canonical is the trimmed, NFKC-composed, lower-cased word with ß folded to ss.
	Canonical string `json:"canonical"`
	// Base is Canonical with a plural or inflection ending stripped, best effort.
	Base string `json:"base"`
}

// Normalize computes the canonical and base forms of word.
func Normalize(word string) (Form, error) {
	c := Canonical(word)
	if c == "" {
		return Form{}, ErrInvalidInput
	}
	return Form{Canonical: c, Base: baseForm(c)}, nil
}

// Canonical trims, composes (NFKC folds ligatures such as ﬀ), lower-cases
// with German rules and folds ß to ss. It is idempotent.
func Canonical(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	// Casers carry state; build one per call.
	t := transform.Chain(norm.NFKC, cases.Lower(language.German))
	s, _, err := transform.String(t, word)
	if err != nil {
		s = strings.ToLower(word)
	}
	return strings.ReplaceAll(s, "ß", "ss")
}

// baseForm applies the first matching plural/inflection reduction.
// Diminutive and Latin endings are tested before the generic -en/-e
// strips so that words like mädchen or station stay intact.
func baseForm(c string) string {
	n := utf8.RuneCountInString(c)
	switch {
	case strings.HasSuffix(c, "innen"):
		return strings.TrimSuffix(c, "innen") + "in"
	case strings.HasSuffix(c, "chen"), strings.HasSuffix(c, "lein"):
		return c
	case strings.HasSuffix(c, "tion"), strings.HasSuffix(c, "sion"):
		return c
	case strings.HasSuffix(c, "en") && n-2 >= 2:
		return strings.TrimSuffix(c, "en")
	case strings.HasSuffix(c, "e") && n-1 >= 2:
		return strings.TrimSuffix(c, "e")
	}
	return c
}
