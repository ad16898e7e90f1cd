// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider queries the newspaper archive's full-text search API and
// returns raw hit records. Query semantics (phrase vs. keyword matching)
// are the archive's contract, not something this package interprets.
// See docs/ARCHITECTURE.md § Search Provider.
package provider

import (
	"context"
	"fmt"

	"github.com/pdiddy/archive-trends/pkg/types"
)

// SearchMode selects how the archive matches the search term.
type SearchMode string

const (
	// ModeFullText searches all OCR'd text.
	ModeFullText SearchMode = "fulltext"

	// ModeFreeText searches the indexed free-text field.
	ModeFreeText SearchMode = "freetext"

	// ModeExactPhrase searches the OCR'd text for the exact phrase. It is
	// implemented by quote-wrapping the term in a full-text query.
	ModeExactPhrase SearchMode = "exact_phrase"
)

// ParseMode validates a search mode name.
func ParseMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case ModeFullText, ModeFreeText, ModeExactPhrase:
		return SearchMode(s), nil
	}
	return "", fmt.Errorf("unknown search mode %q (use %q, %q, or %q)",
		s, ModeFullText, ModeFreeText, ModeExactPhrase)
}

// Request holds the parameters for one archive query. ToYearExclusive is
// the provider's upper bound: hits from that year are NOT included, so a
// caller wanting results through year Y passes Y+1.
type Request struct {
	DocumentType    string
	Mode            SearchMode
	Term            string
	FromYear        int
	ToYearExclusive int
	Limit           int
}

// Provider fetches raw hits for a query. Implementations must honor
// context cancellation.
type Provider interface {
	Search(ctx context.Context, req Request) ([]types.Hit, error)
}
