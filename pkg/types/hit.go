// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the archive-trends pipeline.
// See docs/ARCHITECTURE.md § Data Structures.
package types

// Hit is one raw search result from the archive provider: a single article
// page that matched the query. Identifier is the archive's unique handle
// (a URN) and may be empty when the provider omits it.
type Hit struct {
	// Identifier is the unique article handle, e.g.
	// "URN:NBN:no-nb_digavis_aftenposten_null_null_20200315_161_63_1".
	Identifier string `json:"urn" yaml:"urn"`

	// PublicationTitle is the newspaper the article appeared in.
	PublicationTitle string `json:"title" yaml:"title"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Timestamp is the publication date as YYYYMMDD when the provider
	// supplies one, otherwise empty.
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}
