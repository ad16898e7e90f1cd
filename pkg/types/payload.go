// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PublicationSeries is one publication's time series for charting. Data is
// aligned with VisualizationPayload.Years. City and Region are filled when
// publication metadata is available.
type PublicationSeries struct {
	Label  string `json:"label"`
	Data   []int  `json:"data"`
	Total  int    `json:"total"`
	City   string `json:"city,omitempty"`
	Region string `json:"region,omitempty"`
}

// CategoryCount is one slice of the categorical breakdown (a publication or
// a region with its aggregated article count).
type CategoryCount struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Statistics summarizes a reshaped result for display.
type Statistics struct {
	TotalArticles     int      `json:"totalArticles"`
	TotalPublications int      `json:"totalPublications"`
	TotalCategories   int      `json:"totalCategories,omitempty"`
	TopPublications   []string `json:"topPublications"`
	DateRange         string   `json:"dateRange"`
}

// VisualizationPayload is the chart-ready projection of a CountMatrix. It is
// recomputed on every reshape call and never persisted. YearlyTotals[i] is
// the total for Years[i].
type VisualizationPayload struct {
	Years             []int               `json:"years"`
	YearlyTotals      []int               `json:"yearlyTotals"`
	TopN              []PublicationSeries `json:"topN"`
	CategoryBreakdown []CategoryCount     `json:"categoryBreakdown"`
	Statistics        Statistics          `json:"statistics"`
}
