// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/archive-trends/pkg/types"
)

// marginLabel is the synthetic row/column name for the matrix margins in
// the persisted pivot artifact.
const marginLabel = "TOTAL"

// writePivot encodes a count matrix as CSV: publication rows × year columns
// with a TOTAL margin row and column.
func writePivot(w io.Writer, m *types.CountMatrix) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(m.Years)+2)
	header = append(header, "")
	for _, y := range m.Years {
		header = append(header, strconv.Itoa(y))
	}
	header = append(header, marginLabel)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range m.Rows {
		rec := make([]string, 0, len(row.Counts)+2)
		rec = append(rec, row.Title)
		for _, c := range row.Counts {
			rec = append(rec, strconv.Itoa(c))
		}
		rec = append(rec, strconv.Itoa(row.Total))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	totals := make([]string, 0, len(m.YearTotals)+2)
	totals = append(totals, marginLabel)
	for _, c := range m.YearTotals {
		totals = append(totals, strconv.Itoa(c))
	}
	totals = append(totals, strconv.Itoa(m.GrandTotal))
	if err := cw.Write(totals); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// readPivot decodes a persisted pivot artifact back into a count matrix.
// Count cells are parsed tolerantly: integer totals that were serialized as
// floats (e.g. "3.0") are accepted. Any structural problem is an error, and
// the caller treats it as a cache miss.
func readPivot(r io.Reader) (*types.CountMatrix, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading pivot csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("pivot csv truncated: %d rows", len(records))
	}

	header := records[0]
	if len(header) < 2 || header[len(header)-1] != marginLabel {
		return nil, fmt.Errorf("pivot csv missing %s column", marginLabel)
	}
	years := make([]int, 0, len(header)-2)
	for _, col := range header[1 : len(header)-1] {
		y, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil {
			return nil, fmt.Errorf("pivot csv year column %q: %w", col, err)
		}
		years = append(years, y)
	}

	m := &types.CountMatrix{
		Years:      years,
		Rows:       []types.MatrixRow{},
		YearTotals: make([]int, len(years)),
	}

	sawMargin := false
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("pivot csv row width %d, want %d", len(rec), len(header))
		}
		counts := make([]int, len(years))
		for i, cell := range rec[1 : len(rec)-1] {
			c, err := parseCount(cell)
			if err != nil {
				return nil, fmt.Errorf("pivot csv cell %q: %w", cell, err)
			}
			counts[i] = c
		}
		total, err := parseCount(rec[len(rec)-1])
		if err != nil {
			return nil, fmt.Errorf("pivot csv total %q: %w", rec[len(rec)-1], err)
		}

		if rec[0] == marginLabel {
			copy(m.YearTotals, counts)
			m.GrandTotal = total
			sawMargin = true
			continue
		}
		m.Rows = append(m.Rows, types.MatrixRow{Title: rec[0], Counts: counts, Total: total})
	}
	if !sawMargin {
		return nil, fmt.Errorf("pivot csv missing %s row", marginLabel)
	}

	return m, nil
}

// parseCount parses an integer count, tolerating float-quantized values.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// writeDetail encodes the deduplicated hit list as CSV, one row per hit,
// sorted ascending by year.
func writeDetail(w io.Writer, hits []types.Hit) error {
	sorted := make([]types.Hit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year < sorted[j].Year
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "title", "urn", "timestamp"}); err != nil {
		return err
	}
	for _, h := range sorted {
		rec := []string{strconv.Itoa(h.Year), h.PublicationTitle, h.Identifier, h.Timestamp}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
