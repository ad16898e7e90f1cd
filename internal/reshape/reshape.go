// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reshape derives chart-ready projections from a count matrix:
// time series, top-N rankings, and categorical breakdowns.
// See docs/ARCHITECTURE.md § Visualization Reshaper.
package reshape

import (
	"fmt"
	"sort"

	"github.com/pdiddy/archive-trends/internal/metadata"
	"github.com/pdiddy/archive-trends/pkg/types"
)

// DefaultTopN is the ranking size used when the caller does not set one.
const DefaultTopN = 10

// OtherLabel is the residual bucket for publications outside the top-N in
// the per-publication breakdown.
const OtherLabel = "Other"

// emptyDateRange is the date-range label when the matrix has no years.
const emptyDateRange = "N/A"

// Ranking selects how the top-N publications are chosen.
type Ranking string

const (
	// RankingGlobal picks the k publications with the highest totals across
	// the whole range.
	RankingGlobal Ranking = "global"

	// RankingPerPeriod takes the union of each year's own top k, which can
	// yield more than k publications overall.
	RankingPerPeriod Ranking = "per_period"
)

// ParseRanking validates a ranking policy name. Empty means global.
func ParseRanking(s string) (Ranking, error) {
	switch Ranking(s) {
	case "", RankingGlobal:
		return RankingGlobal, nil
	case RankingPerPeriod:
		return RankingPerPeriod, nil
	}
	return "", fmt.Errorf("unknown ranking policy %q (use %q or %q)", s, RankingGlobal, RankingPerPeriod)
}

// Options configures a reshape call.
type Options struct {
	// TopN is the ranking size (default 10).
	TopN int

	// Ranking is the top-N selection policy (default global).
	Ranking Ranking

	// Meta, when set, enriches series with display metadata and switches
	// the categorical breakdown from per-publication to per-region.
	Meta *metadata.Table
}

// Reshape projects a count matrix into a visualization payload. The matrix
// margins are never part of the projection; Years anchors every aligned
// slice. An empty matrix yields an empty but well-formed payload.
func Reshape(m *types.CountMatrix, opts Options) *types.VisualizationPayload {
	k := opts.TopN
	if k <= 0 {
		k = DefaultTopN
	}

	p := &types.VisualizationPayload{
		Years:             []int{},
		YearlyTotals:      []int{},
		TopN:              []types.PublicationSeries{},
		CategoryBreakdown: []types.CategoryCount{},
		Statistics: types.Statistics{
			TopPublications: []string{},
			DateRange:       emptyDateRange,
		},
	}
	if m.IsEmpty() {
		return p
	}

	p.Years = append(p.Years, m.Years...)
	p.YearlyTotals = append(p.YearlyTotals, m.YearTotals...)

	top := selectTop(m, k, opts.Ranking)
	for _, row := range top {
		s := types.PublicationSeries{
			Label: row.Title,
			Data:  append([]int(nil), row.Counts...),
			Total: row.Total,
		}
		if opts.Meta != nil {
			info := opts.Meta.Lookup(row.Title)
			s.Label = info.DisplayName
			s.City = info.City
			s.Region = info.Region
		}
		p.TopN = append(p.TopN, s)
	}

	if opts.Meta != nil {
		p.CategoryBreakdown = regionBreakdown(m, opts.Meta)
		p.Statistics.TotalCategories = len(p.CategoryBreakdown)
	} else {
		p.CategoryBreakdown = publicationBreakdown(m, top)
	}

	total := 0
	for _, c := range p.YearlyTotals {
		total += c
	}
	p.Statistics.TotalArticles = total
	p.Statistics.TotalPublications = len(m.Rows)
	p.Statistics.TopPublications = topNames(m, opts.Meta, 5)
	p.Statistics.DateRange = fmt.Sprintf("%d-%d", m.Years[0], m.Years[len(m.Years)-1])

	return p
}

// selectTop returns the ranked publications per the active policy, ordered
// by global total descending (the matrix row order).
func selectTop(m *types.CountMatrix, k int, ranking Ranking) []types.MatrixRow {
	if ranking != RankingPerPeriod {
		if k > len(m.Rows) {
			k = len(m.Rows)
		}
		return m.Rows[:k]
	}

	// Per-period: union of each year's own top k.
	member := make(map[string]struct{})
	for col := range m.Years {
		idx := make([]int, len(m.Rows))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return m.Rows[idx[a]].Counts[col] > m.Rows[idx[b]].Counts[col]
		})
		taken := 0
		for _, i := range idx {
			if taken == k || m.Rows[i].Counts[col] == 0 {
				break
			}
			member[m.Rows[i].Title] = struct{}{}
			taken++
		}
	}

	var top []types.MatrixRow
	for _, row := range m.Rows {
		if _, ok := member[row.Title]; ok {
			top = append(top, row)
		}
	}
	return top
}

// publicationBreakdown lists the top publications by total with a residual
// "Other" bucket for the rest.
func publicationBreakdown(m *types.CountMatrix, top []types.MatrixRow) []types.CategoryCount {
	inTop := make(map[string]struct{}, len(top))
	breakdown := make([]types.CategoryCount, 0, len(top)+1)
	for _, row := range top {
		inTop[row.Title] = struct{}{}
		breakdown = append(breakdown, types.CategoryCount{Label: row.Title, Value: row.Total})
	}

	other := 0
	for _, row := range m.Rows {
		if _, ok := inTop[row.Title]; !ok {
			other += row.Total
		}
	}
	if other > 0 {
		breakdown = append(breakdown, types.CategoryCount{Label: OtherLabel, Value: other})
	}
	return breakdown
}

// regionBreakdown aggregates publication totals by region. Publications
// missing from the metadata table fold into the "Unknown" bucket via the
// placeholder. Ties keep first-appearance order.
func regionBreakdown(m *types.CountMatrix, meta *metadata.Table) []types.CategoryCount {
	totals := make(map[string]int)
	var order []string
	for _, row := range m.Rows {
		region := meta.Lookup(row.Title).Region
		if _, ok := totals[region]; !ok {
			order = append(order, region)
		}
		totals[region] += row.Total
	}

	breakdown := make([]types.CategoryCount, 0, len(order))
	for _, region := range order {
		breakdown = append(breakdown, types.CategoryCount{Label: region, Value: totals[region]})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Value > breakdown[j].Value
	})
	return breakdown
}

// topNames returns up to n display names in global-total order.
func topNames(m *types.CountMatrix, meta *metadata.Table, n int) []string {
	if n > len(m.Rows) {
		n = len(m.Rows)
	}
	names := make([]string, 0, n)
	for _, row := range m.Rows[:n] {
		name := row.Title
		if meta != nil {
			name = meta.Lookup(row.Title).DisplayName
		}
		names = append(names, name)
	}
	return names
}
