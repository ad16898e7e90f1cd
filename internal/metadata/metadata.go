// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata enriches publication identifiers with display metadata
// from a static reference table. Lookups are total: unknown identifiers get
// a placeholder, never an error.
// See docs/ARCHITECTURE.md § Publication Metadata.
package metadata

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder values for identifiers missing from the table. The
// coordinates are the Oslo city centre, a fixed default so map layers
// always have something to plot.
const (
	UnknownCity   = "Unknown"
	UnknownRegion = "Unknown"

	DefaultLatitude  = 59.9139
	DefaultLongitude = 10.7522
)

// Info is the display metadata for one publication.
type Info struct {
	DisplayName string  `yaml:"display_name"`
	City        string  `yaml:"city"`
	Region      string  `yaml:"region"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
}

// Table is the publication metadata reference table. It is immutable after
// Load, so concurrent lookups need no synchronization.
type Table struct {
	entries map[string]Info
}

type tableFile struct {
	Publications map[string]Info `yaml:"publications"`
}

// Load reads the YAML reference table at path. An empty path yields an
// empty table (every lookup falls back to the placeholder).
func Load(path string) (*Table, error) {
	if path == "" {
		return Empty(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata table %s: %w", path, err)
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing metadata table %s: %w", path, err)
	}

	entries := make(map[string]Info, len(tf.Publications))
	for id, info := range tf.Publications {
		entries[normalize(id)] = info
	}
	return &Table{entries: entries}, nil
}

// Empty returns a table with no entries.
func Empty() *Table {
	return &Table{entries: map[string]Info{}}
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the metadata for a publication identifier. Unknown
// identifiers get a placeholder: the identifier title-cased as the display
// name, "Unknown" city and region, and the default coordinates.
func (t *Table) Lookup(id string) Info {
	if info, ok := t.entries[normalize(id)]; ok {
		return info
	}
	return Info{
		DisplayName: cases.Title(language.Norwegian).String(id),
		City:        UnknownCity,
		Region:      UnknownRegion,
		Latitude:    DefaultLatitude,
		Longitude:   DefaultLongitude,
	}
}

// Known reports whether the identifier has a table entry.
func (t *Table) Known(id string) bool {
	_, ok := t.entries[normalize(id)]
	return ok
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
