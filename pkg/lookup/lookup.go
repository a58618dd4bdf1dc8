// Package lookup queries remote dictionaries for nouns the local
// classifier cannot decide. Results are annotations, never authoritative.
package lookup

import (
	"context"
	"time"

	"github.com/hazyhaar/artikel/pkg/artikel"
)

// ConfidenceUnverified marks every remotely sourced annotation.
const ConfidenceUnverified = "unverified"

// Annotation is what a remote source knows about a noun.
type Annotation struct {
	Word       string         `json:"word"`
	Gender     artikel.Gender `json:"article"`
	Plural     string         `json:"plural,omitempty"`
	Source     string         `json:"source"`
	Confidence string         `json:"confidence"`
	FetchedAt  time.Time      `json:"fetched_at"`
}

// Source fetches an annotation for a single word.
// Returns nil, nil if the word is not found.
type Source interface {
	Lookup(ctx context.Context, word string) (*Annotation, error)
}
