package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hazyhaar/artikel/pkg/artikel"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultWiktionaryURL = "https://de.wiktionary.org/w/api.php"
	userAgent            = "artikel/1.0 (https://github.com/hazyhaar/artikel)"
	sourceWiktionary     = "wiktionary"
	maxBody              = 4 << 20
)

// Wiktionary reads genus and plural from German Wiktionary entries.
type Wiktionary struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	retryDelay time.Duration
}

// NewWiktionary creates a Wiktionary source against de.wiktionary.org.
func NewWiktionary(logger *slog.Logger) *Wiktionary {
	return NewWiktionaryWithURL(defaultWiktionaryURL, logger)
}

// NewWiktionaryWithURL creates a Wiktionary source with a custom API URL (for testing).
func NewWiktionaryWithURL(baseURL string, logger *slog.Logger) *Wiktionary {
	return &Wiktionary{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", sourceWiktionary),
		retryDelay: 500 * time.Millisecond,
	}
}

type parseResponse struct {
	Parse *struct {
		Title    string `json:"title"`
		Wikitext string `json:"wikitext"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Lookup fetches the wikitext of the entry titled after word.
// Returns nil, nil when the page is missing or has no German noun section.
func (w *Wiktionary) Lookup(ctx context.Context, word string) (*Annotation, error) {
	title := pageTitle(word)
	if title == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("action", "parse")
	q.Set("page", title)
	q.Set("prop", "wikitext")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("redirects", "1")

	w.log.DebugContext(ctx, "wiktionary request", slog.String("title", title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wiktionary: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.doWithRetry(ctx, req, title)
	if err != nil {
		w.log.WarnContext(ctx, "wiktionary request failed", slog.String("title", title), slog.String("error", err.Error()))
		return nil, fmt.Errorf("wiktionary: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiktionary: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("wiktionary: read body: %w", err)
	}

	var pr parseResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("wiktionary: decode json: %w", err)
	}
	if pr.Error != nil {
		if pr.Error.Code == "missingtitle" {
			return nil, nil
		}
		return nil, fmt.Errorf("wiktionary: api error %s: %s", pr.Error.Code, pr.Error.Info)
	}
	if pr.Parse == nil {
		return nil, nil
	}

	g, plural := parseWikitext(pr.Parse.Wikitext)
	w.log.DebugContext(ctx, "wiktionary response",
		slog.String("title", pr.Parse.Title),
		slog.String("article", g.Article()),
		slog.String("plural", plural),
	)
	if g == artikel.Unknown {
		return nil, nil
	}
	return &Annotation{
		Word:       pr.Parse.Title,
		Gender:     g,
		Plural:     plural,
		Source:     sourceWiktionary,
		Confidence: ConfidenceUnverified,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (w *Wiktionary) doWithRetry(ctx context.Context, req *http.Request, title string) (*http.Response, error) {
	resp, err := w.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	w.log.WarnContext(ctx, "wiktionary retry", slog.String("title", title), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(w.retryDelay):
	}
	return w.httpClient.Do(req)
}

// pageTitle capitalizes the first letter and leaves the rest as typed,
// so "haus" becomes "Haus" and "LKW" stays "LKW".
func pageTitle(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	return cases.Title(language.German, cases.NoLower).String(word)
}

var (
	germanHeading = regexp.MustCompile(`(?m)^==[^=].*\{\{Sprache\|Deutsch\}\}.*==\s*$`)
	nextLanguage  = regexp.MustCompile(`(?m)^==[^=].*\{\{Sprache\|[^}]+\}\}.*==\s*$`)
	genusField    = regexp.MustCompile(`\|\s*Genus(?:\s*1)?\s*=\s*([mfn])\b`)
	genusTemplate = regexp.MustCompile(`\{\{Wortart\|Substantiv\|Deutsch\}\}\s*,\s*\{\{([mfn])\}\}`)
	pluralField   = regexp.MustCompile(`\|\s*Nominativ Plural(?:\s*1)?\s*=\s*([^\n|}]*)`)
)

// parseWikitext extracts genus and nominative plural from the German
// section of a Wiktionary page.
func parseWikitext(text string) (artikel.Gender, string) {
	section := germanSection(text)
	if section == "" {
		return artikel.Unknown, ""
	}

	var code string
	if m := genusField.FindStringSubmatch(section); m != nil {
		code = m[1]
	} else if m := genusTemplate.FindStringSubmatch(section); m != nil {
		code = m[1]
	}
	g, err := artikel.ParseGender(code)
	if err != nil {
		g = artikel.Unknown
	}

	var plural string
	if m := pluralField.FindStringSubmatch(section); m != nil {
		plural = strings.TrimSpace(m[1])
		if plural == "—" || plural == "-" {
			plural = ""
		}
	}
	return g, plural
}

func germanSection(text string) string {
	loc := germanHeading.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	if next := nextLanguage.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return rest
}
