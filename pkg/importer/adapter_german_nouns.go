package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/artikel/pkg/artikel"
	"github.com/hazyhaar/artikel/pkg/lexicon"
)

func init() {
	Register(&germanNounsAdapter{})
}

type germanNounsAdapter struct{}

func (a *germanNounsAdapter) ID() string        { return "german-nouns" }
func (a *germanNounsAdapter) LexiconID() string { return "nouns-de" }
func (a *germanNounsAdapter) Description() string {
	return "German nouns with genus and plural, extracted from Wiktionary"
}
func (a *germanNounsAdapter) DefaultURL() string {
	return "https://raw.githubusercontent.com/gambolputty/german-nouns/main/german_nouns/nouns.csv"
}
func (a *germanNounsAdapter) License() string { return "CC BY-SA 4.0" }

func (a *germanNounsAdapter) Import(ctx context.Context, sourceURL, outputDir string) error {
	dlDir := filepath.Join(outputDir, "_download")
	if err := ensureDir(dlDir); err != nil {
		return err
	}
	defer os.RemoveAll(dlDir)

	logger := slog.With("adapter", a.ID())

	target := filepath.Join(dlDir, "nouns.csv")
	isZip := strings.HasSuffix(strings.ToLower(sourceURL), ".zip")
	if isZip {
		target = filepath.Join(dlDir, "nouns.zip")
	}
	logger.Info("downloading", "url", sourceURL)
	if err := downloadFile(ctx, sourceURL, target); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	csvPath := target
	if isZip {
		files, err := unzipFile(target, dlDir)
		if err != nil {
			return fmt.Errorf("unzip: %w", err)
		}
		if csvPath = findCSV(files, "nouns.csv"); csvPath == "" {
			return fmt.Errorf("no CSV found in ZIP")
		}
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, stats, err := parseGermanNouns(f)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	logger.Info("parsed",
		"rows", stats.rows,
		"entries", len(entries),
		"ambiguous", stats.ambiguous,
		"no_genus", stats.noGenus,
	)

	lexDir := filepath.Join(outputDir, a.LexiconID())
	if err := ensureDir(lexDir); err != nil {
		return err
	}
	if err := lexicon.SaveGob(entries, filepath.Join(lexDir, "data.gob")); err != nil {
		return fmt.Errorf("save gob: %w", err)
	}

	return writeManifest(lexDir, &lexicon.Manifest{
		ID:        a.LexiconID(),
		Version:   time.Now().UTC().Format("2006-01"),
		Source:    "german-nouns (Wiktionary extract)",
		SourceURL: sourceURL,
		License:   a.License(),
		DataFile:  "data.gob",
		Method:    lexicon.MethodList,
	})
}

type nounStats struct {
	rows      int
	ambiguous int
	noGenus   int
}

// parseGermanNouns reads the german-nouns CSV. A lemma is kept only when
// every genus column across all of its rows agrees on one gender.
func parseGermanNouns(r io.Reader) (map[string]*lexicon.Entry, nounStats, error) {
	var stats nounStats

	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(strings.ToLower(h))] = i
	}

	lemmaCol, ok := colIdx["lemma"]
	if !ok {
		return nil, stats, fmt.Errorf("column 'lemma' not found in header %v", header)
	}
	var genusCols []int
	for _, name := range []string{"genus", "genus 1", "genus 2", "genus 3", "genus 4"} {
		if i, ok := colIdx[name]; ok {
			genusCols = append(genusCols, i)
		}
	}
	if len(genusCols) == 0 {
		return nil, stats, fmt.Errorf("no genus column in header %v", header)
	}
	pluralCol := -1
	for _, name := range []string{"nominativ plural", "nominativ plural 1"} {
		if i, ok := colIdx[name]; ok {
			pluralCol = i
			break
		}
	}

	entries := make(map[string]*lexicon.Entry)
	conflicts := make(map[string]bool)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		stats.rows++

		if lemmaCol >= len(record) {
			continue
		}
		key := artikel.Canonical(record[lemmaCol])
		if key == "" {
			continue
		}

		g, ambiguous := rowGender(record, genusCols)
		switch {
		case ambiguous:
			conflicts[key] = true
			continue
		case g == artikel.Unknown:
			stats.noGenus++
			continue
		}

		if prev, exists := entries[key]; exists {
			if prev.Gender != g {
				conflicts[key] = true
			}
			continue
		}

		entry := &lexicon.Entry{Gender: g}
		if pluralCol >= 0 && pluralCol < len(record) {
			if p := strings.TrimSpace(record[pluralCol]); p != "" {
				entry.Metadata = map[string]string{"plural": p}
			}
		}
		entries[key] = entry
	}

	for key := range conflicts {
		delete(entries, key)
	}
	stats.ambiguous = len(conflicts)
	return entries, stats, nil
}

// rowGender collapses the genus columns of one row. Differing values make
// the row ambiguous.
func rowGender(record []string, cols []int) (artikel.Gender, bool) {
	g := artikel.Unknown
	for _, i := range cols {
		if i >= len(record) {
			continue
		}
		v, err := artikel.ParseGender(strings.TrimSpace(record[i]))
		if err != nil || v == artikel.Unknown {
			continue
		}
		if g != artikel.Unknown && g != v {
			return artikel.Unknown, true
		}
		g = v
	}
	return g, false
}
