// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatrixRow is one publication's counts across the matrix years.
type MatrixRow struct {
	// Title is the publication title.
	Title string

	// Counts holds the per-year article counts, aligned with CountMatrix.Years.
	Counts []int

	// Total is the row sum.
	Total int
}

// CountMatrix is the publication × year count table produced by aggregation.
// Years are sorted ascending; Rows are sorted by Total descending with ties
// kept in first-appearance order. The margins (the TOTAL row and column of
// the persisted artifact) are carried explicitly in YearTotals and GrandTotal
// rather than as synthetic rows.
type CountMatrix struct {
	Years      []int
	Rows       []MatrixRow
	YearTotals []int
	GrandTotal int
}

// IsEmpty reports whether the matrix holds no counts at all.
func (m *CountMatrix) IsEmpty() bool {
	return len(m.Rows) == 0 || len(m.Years) == 0
}

// Cell returns the count for (title, year), or 0 when either is absent.
func (m *CountMatrix) Cell(title string, year int) int {
	col := -1
	for i, y := range m.Years {
		if y == year {
			col = i
			break
		}
	}
	if col < 0 {
		return 0
	}
	for _, row := range m.Rows {
		if row.Title == title {
			return row.Counts[col]
		}
	}
	return 0
}

// Row returns the row for title, or nil when the publication is absent.
func (m *CountMatrix) Row(title string) *MatrixRow {
	for i := range m.Rows {
		if m.Rows[i].Title == title {
			return &m.Rows[i]
		}
	}
	return nil
}
