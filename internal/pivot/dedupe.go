// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pivot removes duplicate archive hits and aggregates the survivors
// into a publication × year count matrix.
// See docs/ARCHITECTURE.md § Counting Pipeline.
package pivot

import (
	"fmt"

	"github.com/pdiddy/archive-trends/pkg/types"
)

// Deduplicate removes duplicate hits, keeping the first occurrence in input
// order, and returns the survivors together with the number removed.
//
// Hits carrying a non-empty identifier are deduplicated by identifier. Hits
// without one fall back to full-record equality, so a batch where the
// provider omitted the identifier column entirely still collapses exact
// repeats. Deduplicating an already-deduplicated sequence returns it
// unchanged.
func Deduplicate(hits []types.Hit) ([]types.Hit, int) {
	if len(hits) == 0 {
		return nil, 0
	}

	seen := make(map[string]struct{}, len(hits))
	deduped := make([]types.Hit, 0, len(hits))

	for _, h := range hits {
		key := dedupKey(h)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, h)
	}

	return deduped, len(hits) - len(deduped)
}

// dedupKey returns the uniqueness key for a hit: the identifier when
// present, otherwise the full record.
func dedupKey(h types.Hit) string {
	if h.Identifier != "" {
		return "urn:" + h.Identifier
	}
	return fmt.Sprintf("row:%s\x1f%d\x1f%s", h.PublicationTitle, h.Year, h.Timestamp)
}
