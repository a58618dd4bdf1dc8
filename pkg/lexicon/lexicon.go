// Package lexicon loads on-disk noun lexicons that layer over the
// built-in artikel exception dictionary, and serves classification
// queries across all of them.
package lexicon

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/artikel/pkg/artikel"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Entry is a single noun in a lexicon, with optional metadata.
type Entry struct {
	Gender   artikel.Gender    `json:"article"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Lexicon is one loaded lexicon with its manifest and in-memory hashmap.
type Lexicon struct {
	Manifest *Manifest        `json:"manifest"`
	Entries  map[string]*Entry `json:"-"`
	patterns *patternMatcher
	skipped  int
}

// LoadLexicon reads a manifest.yaml and loads data from gob, csv, or patterns.
func LoadLexicon(dir string) (*Lexicon, error) {
	manifest, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}

	l := &Lexicon{
		Manifest: manifest,
		Entries:  make(map[string]*Entry),
	}

	if manifest.Method == MethodPattern {
		pm, err := compilePatterns(manifest.Patterns)
		if err != nil {
			return nil, fmt.Errorf("lexicon %s: %w", manifest.ID, err)
		}
		l.patterns = pm
		return l, nil
	}

	// Gob takes priority over CSV.
	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		if err := l.loadGob(gobPath); err != nil {
			return nil, fmt.Errorf("lexicon %s: %w", manifest.ID, err)
		}
		return l, nil
	}

	if err := l.loadCSV(filepath.Join(dir, manifest.DataFile)); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", manifest.ID, err)
	}
	return l, nil
}

// IsPattern reports whether the lexicon is pattern based.
func (l *Lexicon) IsPattern() bool {
	return l.patterns != nil
}

// Lookup searches the canonical form, then the base form.
func (l *Lexicon) Lookup(f artikel.Form) (*Entry, bool) {
	if e, ok := l.Entries[f.Canonical]; ok {
		return e, true
	}
	e, ok := l.Entries[f.Base]
	return e, ok
}

// Match tests the canonical form against the lexicon's patterns in order.
func (l *Lexicon) Match(f artikel.Form) (string, artikel.Gender, bool) {
	if l.patterns == nil {
		return "", artikel.Unknown, false
	}
	return l.patterns.match(f.Canonical)
}

func (l *Lexicon) loadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Transcode non-UTF-8 encodings declared in the manifest.
	var reader io.Reader = f
	if enc := l.Manifest.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if delim := l.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	if l.Manifest.Format.HasHeader {
		header, err = r.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	keyIdx, err := columnIndex(header, l.Manifest.Format.KeyColumn, 0)
	if err != nil {
		return fmt.Errorf("key column: %w", err)
	}
	genderIdx, err := columnIndex(header, l.Manifest.Format.GenderColumn, 1)
	if err != nil {
		return fmt.Errorf("gender column: %w", err)
	}

	metaIdx := make(map[string]int)
	for _, mc := range l.Manifest.MetadataCols {
		for i, h := range header {
			if h == mc.Column {
				metaIdx[mc.Name] = i
				break
			}
		}
	}

	var collisions int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if keyIdx >= len(record) || genderIdx >= len(record) {
			l.skipped++
			continue
		}

		key := artikel.Canonical(record[keyIdx])
		if key == "" {
			continue
		}
		g, err := artikel.ParseGender(record[genderIdx])
		if err != nil || g == artikel.Unknown {
			l.skipped++
			continue
		}

		entry := &Entry{Gender: g}
		if len(metaIdx) > 0 {
			entry.Metadata = make(map[string]string, len(metaIdx))
			for name, idx := range metaIdx {
				if idx < len(record) {
					if v := strings.TrimSpace(record[idx]); v != "" {
						entry.Metadata[name] = v
					}
				}
			}
		}
		if _, exists := l.Entries[key]; exists {
			collisions++
		}
		l.Entries[key] = entry
	}

	if collisions > 0 {
		slog.Warn("key collisions after normalization", "lexicon", l.Manifest.ID, "collisions", collisions)
	}
	if l.skipped > 0 {
		slog.Warn("rows skipped", "lexicon", l.Manifest.ID, "skipped", l.skipped)
	}
	return nil
}

// columnIndex resolves a named column against the header, or falls back to def.
func columnIndex(header []string, name string, def int) (int, error) {
	if name == "" || header == nil {
		return def, nil
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q not found in header %v", name, header)
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
