package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/artikel/pkg/api"
	"github.com/hazyhaar/artikel/pkg/artikel"
	"github.com/hazyhaar/artikel/pkg/kit"
	"github.com/hazyhaar/artikel/pkg/lexicon"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func cmdClassify(args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	remote := fs.Bool("remote", false, "ask Wiktionary when the local result is unknown")
	builtin := fs.Bool("builtin", false, "ignore on-disk lexicons")
	locale := fs.String("locale", "", "preferred voice locale (de-DE, de-AT, de-CH)")
	verbose := fs.Bool("v", false, "show which stage decided")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)
	loc, err := api.ParseLocale(*locale)
	if err != nil {
		fatal(logger, "invalid -locale", err)
	}

	var reg *lexicon.Registry
	if *builtin {
		reg = lexicon.NewRegistry("")
	} else {
		reg = loadRegistry(cfg, logger)
	}
	if *remote {
		cfg.Remote.Enabled = true
	}
	src, closeRemote := openRemote(cfg, logger)
	defer closeRemote()

	res := api.NewResolver(reg, src, logger)
	opts := api.Options{BuiltinOnly: *builtin, Remote: *remote, Locale: loc}
	ctx := kit.WithTransport(context.Background(), "cli")

	words := fs.Args()
	if len(words) > 0 {
		for _, w := range words {
			fmt.Println(formatResolution(res.Resolve(ctx, w, opts), *verbose))
		}
		return
	}
	if err := classifyLines(ctx, os.Stdin, os.Stdout, res, opts, *verbose); err != nil {
		fatal(logger, "read stdin", err)
	}
}

// classifyLines classifies one word per non-blank input line.
func classifyLines(ctx context.Context, r io.Reader, w io.Writer, res *api.Resolver, opts api.Options, verbose bool) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		word := strings.TrimSpace(sc.Text())
		if word == "" {
			continue
		}
		fmt.Fprintln(w, formatResolution(res.Resolve(ctx, word, opts), verbose))
	}
	return sc.Err()
}

// formatResolution renders "das Mädchen", or a soft negative for unknown
// words. verbose appends the deciding stage.
func formatResolution(r *api.Resolution, verbose bool) string {
	word := strings.TrimSpace(r.Word)
	if r.Gender == artikel.Unknown {
		return fmt.Sprintf("unknown: %q (try a dictionary)", word)
	}
	line := r.Gender.Article() + " " + cases.Title(language.German, cases.NoLower).String(word)
	if !verbose {
		return line
	}
	switch r.Stage {
	case string(artikel.StageRule), lexicon.StagePattern:
		line += fmt.Sprintf("  [%s %s", r.Stage, r.Rule)
		if r.Priority > 0 {
			line += fmt.Sprintf(" #%d", r.Priority)
		}
		line += "]"
	case lexicon.StageLexicon:
		line += fmt.Sprintf("  [lexicon %s]", r.Lexicon)
	case api.StageRemote:
		line += fmt.Sprintf("  [remote %s, %s]", r.Source, r.Confidence)
	default:
		line += fmt.Sprintf("  [%s]", r.Stage)
	}
	return line
}
