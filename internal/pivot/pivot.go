// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pivot

import (
	"sort"

	"github.com/pdiddy/archive-trends/pkg/types"
)

// Aggregate builds the publication × year count matrix from a deduplicated
// hit sequence. Years are sorted ascending; rows are sorted by total
// descending with ties kept in first-appearance order. An empty input
// yields an empty matrix with zero totals, which callers treat as "no
// results" rather than an error.
func Aggregate(hits []types.Hit) *types.CountMatrix {
	if len(hits) == 0 {
		return &types.CountMatrix{
			Years:      []int{},
			Rows:       []types.MatrixRow{},
			YearTotals: []int{},
		}
	}

	yearSet := make(map[int]struct{})
	for _, h := range hits {
		yearSet[h.Year] = struct{}{}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	yearCol := make(map[int]int, len(years))
	for i, y := range years {
		yearCol[y] = i
	}

	// Rows in first-appearance order; absent (publication, year) cells stay zero.
	rowIdx := make(map[string]int)
	var rows []types.MatrixRow
	for _, h := range hits {
		i, ok := rowIdx[h.PublicationTitle]
		if !ok {
			i = len(rows)
			rowIdx[h.PublicationTitle] = i
			rows = append(rows, types.MatrixRow{
				Title:  h.PublicationTitle,
				Counts: make([]int, len(years)),
			})
		}
		rows[i].Counts[yearCol[h.Year]]++
		rows[i].Total++
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})

	yearTotals := make([]int, len(years))
	grand := 0
	for _, r := range rows {
		for i, c := range r.Counts {
			yearTotals[i] += c
		}
		grand += r.Total
	}

	return &types.CountMatrix{
		Years:      years,
		Rows:       rows,
		YearTotals: yearTotals,
		GrandTotal: grand,
	}
}
