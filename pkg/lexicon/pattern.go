package lexicon

import (
	"fmt"
	"regexp"

	"github.com/hazyhaar/artikel/pkg/artikel"
)

// compiledPattern is a single named regex bound to an article.
type compiledPattern struct {
	name   string
	re     *regexp.Regexp
	gender artikel.Gender
}

// patternMatcher holds compiled patterns for a pattern-based lexicon.
type patternMatcher struct {
	patterns []compiledPattern
}

// compilePatterns builds a patternMatcher from manifest pattern specs.
func compilePatterns(specs []PatternSpec) (*patternMatcher, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no patterns defined")
	}

	pm := &patternMatcher{patterns: make([]compiledPattern, 0, len(specs))}
	for _, spec := range specs {
		re, err := regexp.Compile(spec.Regex)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", spec.Name, err)
		}
		g, err := artikel.ParseGender(spec.Gender)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", spec.Name, err)
		}
		if g == artikel.Unknown {
			return nil, fmt.Errorf("pattern %q: missing gender", spec.Name)
		}
		pm.patterns = append(pm.patterns, compiledPattern{name: spec.Name, re: re, gender: g})
	}
	return pm, nil
}

// match tests a canonical form against all patterns. First match wins.
func (pm *patternMatcher) match(canonical string) (string, artikel.Gender, bool) {
	for _, p := range pm.patterns {
		if p.re.MatchString(canonical) {
			return p.name, p.gender, true
		}
	}
	return "", artikel.Unknown, false
}
