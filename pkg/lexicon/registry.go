package lexicon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/hazyhaar/artikel/pkg/artikel"
)

// Stages added on top of the artikel pipeline.
const (
	StageLexicon = "lexicon"
	StagePattern = "pattern"
)

// Registry holds all loaded lexicons and serves classification queries.
type Registry struct {
	mu       sync.RWMutex
	lexicons map[string]*Lexicon
	dir      string
}

// NewRegistry creates a new empty registry for the given directory.
func NewRegistry(dir string) *Registry {
	return &Registry{
		lexicons: make(map[string]*Lexicon),
		dir:      dir,
	}
}

// Load scans the lexicon directory and loads every lexicon. A missing
// directory leaves the registry empty; only the built-in data is used then.
func (r *Registry) Load() error {
	newLexicons := make(map[string]*Lexicon)

	entries, err := os.ReadDir(r.dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read lexicon dir %s: %w", r.dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		l, err := LoadLexicon(filepath.Join(r.dir, entry.Name()))
		if errors.Is(err, ErrNoManifest) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load lexicon %s: %w", entry.Name(), err)
		}
		newLexicons[l.Manifest.ID] = l
	}

	r.mu.Lock()
	r.lexicons = newLexicons
	r.mu.Unlock()
	return nil
}

// Reload reloads all lexicons from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// Result is the response for a single word.
type Result struct {
	Word      string            `json:"word"`
	Canonical string            `json:"canonical"`
	Base      string            `json:"base"`
	Gender    artikel.Gender    `json:"article"`
	Stage     string            `json:"stage"`
	Rule      string            `json:"rule,omitempty"`
	Priority  int               `json:"priority,omitempty"`
	Lexicon   string            `json:"lexicon,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Options are optional filters for classification.
type Options struct {
	// Lexicons restricts the on-disk lexicons consulted. Empty means all.
	Lexicons []string
	// BuiltinOnly skips every on-disk lexicon.
	BuiltinOnly bool
}

// Determine classifies word. List lexicons are consulted first, then the
// built-in dictionary and rule cascade, then pattern lexicons. Lexicons
// are iterated in sorted ID order, so results are deterministic.
func (r *Registry) Determine(word string, opts *Options) *Result {
	result := &Result{Word: word, Stage: string(artikel.StageNone)}

	form, err := artikel.Normalize(word)
	if err != nil {
		return result
	}
	result.Canonical = form.Canonical
	result.Base = form.Base

	r.mu.RLock()
	defer r.mu.RUnlock()

	var lists, patterns []*Lexicon
	if opts == nil || !opts.BuiltinOnly {
		for _, id := range r.sortedIDs() {
			l := r.lexicons[id]
			if opts != nil && len(opts.Lexicons) > 0 && !slices.Contains(opts.Lexicons, id) {
				continue
			}
			if l.IsPattern() {
				patterns = append(patterns, l)
			} else {
				lists = append(lists, l)
			}
		}
	}

	for _, l := range lists {
		if e, ok := l.Lookup(form); ok {
			result.Gender = e.Gender
			result.Stage = StageLexicon
			result.Lexicon = l.Manifest.ID
			result.Metadata = e.Metadata
			return result
		}
	}

	d := artikel.Explain(form)
	if d.Gender != artikel.Unknown {
		result.Gender = d.Gender
		result.Stage = string(d.Stage)
		result.Rule = d.Rule
		result.Priority = d.Priority
		return result
	}

	for _, l := range patterns {
		if name, g, ok := l.Match(form); ok {
			result.Gender = g
			result.Stage = StagePattern
			result.Rule = name
			result.Lexicon = l.Manifest.ID
			return result
		}
	}
	return result
}

// LexiconInfo is the public metadata for a loaded lexicon.
type LexiconInfo struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	Method    string `json:"method"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url,omitempty"`
	License   string `json:"license"`
	Entries   int    `json:"entries"`
	Patterns  int    `json:"patterns,omitempty"`
}

// ListLexicons returns metadata for all loaded lexicons, sorted by ID.
func (r *Registry) ListLexicons() []LexiconInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]LexiconInfo, 0, len(r.lexicons))
	for _, id := range r.sortedIDs() {
		l := r.lexicons[id]
		info := LexiconInfo{
			ID:        l.Manifest.ID,
			Version:   l.Manifest.Version,
			Method:    l.Manifest.Method,
			Source:    l.Manifest.Source,
			SourceURL: l.Manifest.SourceURL,
			License:   l.Manifest.License,
			Entries:   len(l.Entries),
		}
		if l.patterns != nil {
			info.Patterns = len(l.patterns.patterns)
		}
		infos = append(infos, info)
	}
	return infos
}

// LexiconCount returns the number of loaded lexicons.
func (r *Registry) LexiconCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lexicons)
}

// TotalEntries returns the total number of entries across all lexicons.
func (r *Registry) TotalEntries() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, l := range r.lexicons {
		total += len(l.Entries)
	}
	return total
}

// sortedIDs must be called with r.mu held.
func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.lexicons))
	for id := range r.lexicons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
