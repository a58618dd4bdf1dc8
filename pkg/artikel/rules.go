package artikel

import (
	"strings"
	"unicode/utf8"
)

// Rule is a named predicate over a Form. Rules are evaluated in Priority
// order and the first match decides; later rules are never consulted.
type Rule struct {
	Name     string `json:"name"`
	Gender   Gender `json:"article"`
	Priority int    `json:"priority"`
	match    func(Form) bool
}

// Match reports whether the rule applies to f.
func (r Rule) Match(f Form) bool {
	return r.match != nil && r.match(f)
}

// cascade is the ordered rule list. Order is load-bearing: the narrow,
// high-precision endings come before the broad -e and -er rules of the
// same gender. Do not reorder.
var cascade = numbered([]Rule{
	// neuter
	{Name: "-chen/-lein", Gender: Neuter, match: endsWith("chen", "lein")},
	{Name: "-tum", Gender: Neuter, match: all(longer(3), endsWith("tum"))},
	{Name: "-um", Gender: Neuter, match: all(longer(3), endsWith("um"), not(endsWith("tum")))},
	{Name: "-ment", Gender: Neuter, match: endsWith("ment")},
	{Name: "-nis", Gender: Neuter, match: endsWith("nis")},
	{Name: "-sal/-sel", Gender: Neuter, match: endsWith("sal", "sel")},
	{Name: "ge-", Gender: Neuter, match: all(longer(4), startsWith("ge"))},

	// feminine
	{Name: "-ung", Gender: Feminine, match: endsWith("ung")},
	{Name: "-heit/-keit", Gender: Feminine, match: endsWith("heit", "keit")},
	{Name: "-schaft", Gender: Feminine, match: endsWith("schaft")},
	{Name: "-ion", Gender: Feminine, match: endsWith("ion", "tion", "sion")},
	{Name: "-tät", Gender: Feminine, match: endsWith("tät", "ität")},
	{Name: "-ik", Gender: Feminine, match: all(longer(3), endsWith("ik"))},
	{Name: "-ur", Gender: Feminine, match: all(longer(3), endsWith("ur"), not(endsWith("atur")))},
	{Name: "-ei", Gender: Feminine, match: all(longer(3), endsWith("ei"), not(endsWith("erei")))},
	{Name: "-in", Gender: Feminine, match: all(longer(2), endsWith("in"), not(endsWith("chin")))},
	{Name: "-ade/-age/-anz/-enz", Gender: Feminine, match: endsWith("ade", "age", "anz", "enz")},
	{Name: "-e", Gender: Feminine, match: all(longer(2), endsWith("e"), not(eException))},

	// masculine
	{Name: "-er", Gender: Masculine, match: all(longer(3), endsWith("er"), not(endsWith("ier", "chen", "lein")))},
	{Name: "-ling", Gender: Masculine, match: endsWith("ling")},
	{Name: "-ismus", Gender: Masculine, match: endsWith("ismus")},
	{Name: "-or", Gender: Masculine, match: all(longer(3), endsWith("or"))},
	{Name: "-eur/-är", Gender: Masculine, match: endsWith("eur", "är")},
	{Name: "-ig/-ich", Gender: Masculine, match: endsWith("ig", "ich")},
	{Name: "-us", Gender: Masculine, match: all(longer(3), endsWith("us"), not(endsWith("mus")))},
	{Name: "calendar/compass", Gender: Masculine, match: closedVocabulary},
	{Name: "tree", Gender: Masculine, match: treeSpecies},
	{Name: "berg/fluss", Gender: Masculine, match: contains("berg", "fluss")},
})

// Rules returns a copy of the cascade in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(cascade))
	copy(out, cascade)
	return out
}

func numbered(rules []Rule) []Rule {
	for i := range rules {
		rules[i].Priority = i + 1
	}
	return rules
}

func endsWith(suffixes ...string) func(Form) bool {
	return func(f Form) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(f.Canonical, s) {
				return true
			}
		}
		return false
	}
}

func startsWith(prefix string) func(Form) bool {
	return func(f Form) bool { return strings.HasPrefix(f.Canonical, prefix) }
}

func contains(subs ...string) func(Form) bool {
	return func(f Form) bool {
		for _, s := range subs {
			if strings.Contains(f.Canonical, s) {
				return true
			}
		}
		return false
	}
}

// longer holds when the canonical form has more than n runes.
func longer(n int) func(Form) bool {
	return func(f Form) bool { return utf8.RuneCountInString(f.Canonical) > n }
}

func not(p func(Form) bool) func(Form) bool {
	return func(f Form) bool { return !p(f) }
}

func all(ps ...func(Form) bool) func(Form) bool {
	return func(f Form) bool {
		for _, p := range ps {
			if !p(f) {
				return false
			}
		}
		return true
	}
}

func eException(f Form) bool {
	return in(eExceptions, f.Base) || in(eExceptions, f.Canonical)
}

func closedVocabulary(f Form) bool {
	c := f.Canonical
	return in(weekdays, c) || in(months, c) || in(seasons, c) || in(compass, c)
}

func treeSpecies(f Form) bool {
	return in(trees, f.Base) || in(trees, f.Canonical)
}
