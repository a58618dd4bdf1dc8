package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/artikel/pkg/importer"
	"github.com/hazyhaar/artikel/pkg/lexicon"
)

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	source := fs.String("source", "", "adapter ID to import (e.g. german-nouns)")
	all := fs.Bool("all", false, "import all available sources")
	outputDir := fs.String("output-dir", "lexicons", "output directory for lexicons")
	fs.Parse(args)

	logger := newLogger("info")

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fatal(logger, "create output dir", err)
	}
	sdb, err := importer.OpenSourceDB(filepath.Join(*outputDir, "sources.db"))
	if err != nil {
		fatal(logger, "open sources.db", err)
	}
	defer sdb.Close()

	if err := sdb.Seed(importer.All()); err != nil {
		fatal(logger, "seed sources", err)
	}

	if !*all && *source == "" {
		listSources(sdb)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if *all {
		failed := 0
		for _, a := range importer.All() {
			if err := runImport(ctx, sdb, a, *outputDir, logger); err != nil {
				logger.Error("import failed", "source", a.ID(), "error", err)
				failed++
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	a, err := importer.Get(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\nAvailable sources:\n", err)
		for _, a := range importer.All() {
			fmt.Fprintf(os.Stderr, "  %s\n", a.ID())
		}
		os.Exit(1)
	}
	if err := runImport(ctx, sdb, a, *outputDir, logger); err != nil {
		fatal(logger, "import failed", err)
	}
}

// runImport imports one source, reloads the result to count its entries
// and records the import.
func runImport(ctx context.Context, sdb *importer.SourceDB, a importer.Adapter, outputDir string, logger *slog.Logger) error {
	url, err := sdb.GetURL(a.ID())
	if err != nil {
		return err
	}
	logger.Info("importing", "source", a.ID(), "url", url)
	if err := a.Import(ctx, url, outputDir); err != nil {
		return err
	}

	dir := filepath.Join(outputDir, a.LexiconID())
	l, err := lexicon.LoadLexicon(dir)
	if err != nil {
		return fmt.Errorf("verify %s: %w", dir, err)
	}
	if err := sdb.RecordImport(a.ID(), len(l.Entries)); err != nil {
		return err
	}
	logger.Info("import done", "source", a.ID(), "lexicon", dir, "entries", len(l.Entries))
	return nil
}

func listSources(sdb *importer.SourceDB) {
	sources, err := sdb.ListSources()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list sources: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Available sources:")
	fmt.Println()
	for _, src := range sources {
		status := ""
		if src.LastStatus != nil {
			status = fmt.Sprintf("  [HTTP %d]", *src.LastStatus)
		}
		if src.Entries != nil {
			status += fmt.Sprintf("  [%d entries]", *src.Entries)
		}
		fmt.Printf("  %-20s  %s  (-> %s, %s)%s\n", src.AdapterID, src.Description, src.LexiconID, src.License, status)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  artikel import -source <id> [-output-dir <dir>]")
	fmt.Println("  artikel import -all [-output-dir <dir>]")
}
