package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/artikel/pkg/artikel"
)

func TestCompilePatterns_Errors(t *testing.T) {
	tests := map[string][]PatternSpec{
		"empty":       nil,
		"bad regex":   {{Name: "broken", Regex: "([a-z", Gender: "m"}},
		"bad gender":  {{Name: "plural", Regex: "e$", Gender: "pl"}},
		"missing gen": {{Name: "nogender", Regex: "e$"}},
	}
	for name, specs := range tests {
		if _, err := compilePatterns(specs); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestPatternMatch_FirstWins(t *testing.T) {
	pm, err := compilePatterns([]PatternSpec{
		{Name: "wagen", Regex: "wagen$", Gender: "der"},
		{Name: "-en", Regex: "en$", Gender: "das"},
	})
	if err != nil {
		t.Fatalf("compilePatterns: %v", err)
	}

	tests := []struct {
		canonical string
		name      string
		want      artikel.Gender
		ok        bool
	}{
		{"lastwagen", "wagen", artikel.Masculine, true},
		{"essen", "-en", artikel.Neuter, true},
		{"tisch", "", artikel.Unknown, false},
	}
	for _, tt := range tests {
		name, g, ok := pm.match(tt.canonical)
		if ok != tt.ok || name != tt.name || g != tt.want {
			t.Errorf("match(%q) = %q/%s/%v, want %q/%s/%v", tt.canonical, name, g.Article(), ok, tt.name, tt.want.Article(), tt.ok)
		}
	}
}

func TestLoadLexicon_PatternMethod(t *testing.T) {
	dir := t.TempDir()
	lexDir := filepath.Join(dir, "compounds")
	os.MkdirAll(lexDir, 0o755)

	manifest := `id: compounds
version: "1.0"
source: regex
method: pattern
patterns:
  - name: wagen
    regex: "wagen$"
    gender: m
  - name: zeug
    regex: "zeug$"
    gender: n
`
	os.WriteFile(filepath.Join(lexDir, "manifest.yaml"), []byte(manifest), 0o644)

	l, err := LoadLexicon(lexDir)
	if err != nil {
		t.Fatalf("LoadLexicon pattern: %v", err)
	}
	if !l.IsPattern() {
		t.Fatal("expected a pattern lexicon")
	}
	if len(l.Entries) != 0 {
		t.Errorf("entries = %d, want 0 for pattern lexicon", len(l.Entries))
	}

	f, _ := artikel.Normalize("Werkzeug")
	if name, g, ok := l.Match(f); !ok || name != "zeug" || g != artikel.Neuter {
		t.Errorf("Match(Werkzeug) = %q/%s/%v, want zeug/das/true", name, g.Article(), ok)
	}
}

func TestLexicon_MatchOnListLexicon(t *testing.T) {
	dir := writeTestLexicon(t, "list", "wort;genus;frequenz\nKaffee;m;1\n")
	l, err := LoadLexicon(filepath.Join(dir, "list"))
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	f, _ := artikel.Normalize("Kaffee")
	if _, _, ok := l.Match(f); ok {
		t.Error("list lexicon should never pattern-match")
	}
}
