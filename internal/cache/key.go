// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists computed count matrices keyed by the normalized
// query, so repeated queries skip the provider fetch.
// See docs/ARCHITECTURE.md § Result Cache.
package cache

import (
	"fmt"
	"strings"
)

// Key derives the deterministic, filesystem-safe cache key for a query.
// Characters are kept as-is except that spaces become underscores, quote
// characters are stripped, and path separators become hyphens. The search
// mode and year bounds are part of the key, so the same term under a
// different mode or range never collides.
func Key(term, mode string, fromYear, toYear int) string {
	return fmt.Sprintf("%s_%s_%d_%d", safeToken(term), mode, fromYear, toYear)
}

func safeToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t':
			return '_'
		case '"', '\'', '«', '»':
			return -1
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, strings.TrimSpace(s))
}
