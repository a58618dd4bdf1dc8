// Package api exposes the classifier over HTTP and MCP. Both transports
// dispatch to the same kit.Endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/artikel/pkg/artikel"
	"github.com/hazyhaar/artikel/pkg/lexicon"
	"github.com/hazyhaar/artikel/pkg/lookup"
	"golang.org/x/text/language"
)

// StageRemote marks a gender taken from a remote dictionary.
const StageRemote = "remote"

// BatchRemoteTimeout bounds the total time a batch spends on remote lookups.
const BatchRemoteTimeout = 15 * time.Second

// ErrUnsupportedLocale is returned for locales other than German variants.
var ErrUnsupportedLocale = errors.New("unsupported locale")

var supportedLocales = map[string]bool{
	"de-DE": true,
	"de-AT": true,
	"de-CH": true,
}

// ParseLocale canonicalizes a BCP 47 tag and checks it is a supported
// German variant. An empty string is accepted and returned unchanged.
// The locale is echoed back only; classification does not vary with it.
func ParseLocale(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, s)
	}
	if !supportedLocales[tag.String()] {
		return "", fmt.Errorf("%w: %q (want de-DE, de-AT or de-CH)", ErrUnsupportedLocale, s)
	}
	return tag.String(), nil
}

// Options controls a single resolution.
type Options struct {
	Lexicons    []string
	BuiltinOnly bool
	Remote      bool
	Locale      string
}

// Resolution is a lexicon.Result optionally enriched by a remote lookup.
type Resolution struct {
	*lexicon.Result
	Locale     string `json:"locale,omitempty"`
	Plural     string `json:"plural,omitempty"`
	Source     string `json:"source,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// Resolver runs the local pipeline and, on request, falls back to a remote source.
type Resolver struct {
	reg          *lexicon.Registry
	remote       lookup.Source
	logger       *slog.Logger
	batchTimeout time.Duration
}

// NewResolver creates a Resolver. remote may be nil to disable lookups.
func NewResolver(reg *lexicon.Registry, remote lookup.Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		reg:          reg,
		remote:       remote,
		logger:       logger.With("component", "resolver"),
		batchTimeout: BatchRemoteTimeout,
	}
}

// Registry returns the lexicon registry backing the resolver.
func (r *Resolver) Registry() *lexicon.Registry { return r.reg }

// RemoteEnabled reports whether a remote source is configured.
func (r *Resolver) RemoteEnabled() bool { return r.remote != nil }

// Resolve classifies word. Remote failures are logged and leave the
// result unknown.
func (r *Resolver) Resolve(ctx context.Context, word string, opts Options) *Resolution {
	res := r.reg.Determine(word, &lexicon.Options{
		Lexicons:    opts.Lexicons,
		BuiltinOnly: opts.BuiltinOnly,
	})
	out := &Resolution{Result: res, Locale: opts.Locale}

	if res.Gender != artikel.Unknown || !opts.Remote || r.remote == nil || res.Canonical == "" {
		return out
	}

	ann, err := r.remote.Lookup(ctx, word)
	if err != nil {
		r.logger.WarnContext(ctx, "remote lookup failed", "word", word, "error", err)
		return out
	}
	if ann == nil || ann.Gender == artikel.Unknown {
		return out
	}
	res.Gender = ann.Gender
	res.Stage = StageRemote
	out.Plural = ann.Plural
	out.Source = ann.Source
	out.Confidence = ann.Confidence
	return out
}

// ResolveBatch classifies words in order. Remote lookups share one
// deadline of BatchRemoteTimeout; once it passes, the remaining words are
// resolved locally only.
func (r *Resolver) ResolveBatch(ctx context.Context, words []string, opts Options) []*Resolution {
	remoteCtx := ctx
	if opts.Remote && r.remote != nil {
		var cancel context.CancelFunc
		remoteCtx, cancel = context.WithTimeout(ctx, r.batchTimeout)
		defer cancel()
	}

	out := make([]*Resolution, len(words))
	for i, w := range words {
		if opts.Remote && remoteCtx.Err() != nil {
			r.logger.WarnContext(ctx, "batch remote deadline reached, continuing locally",
				"resolved", i, "remaining", len(words)-i)
			opts.Remote = false
		}
		if opts.Remote {
			out[i] = r.Resolve(remoteCtx, w, opts)
		} else {
			out[i] = r.Resolve(ctx, w, opts)
		}
	}
	return out
}
