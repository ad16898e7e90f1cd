// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-trends/internal/query"
	"github.com/pdiddy/archive-trends/internal/reshape"
	"github.com/pdiddy/archive-trends/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Count phrase occurrences per publication and year",
	Long: `Search queries the archive for a phrase, deduplicates the hits, and
prints the publication-by-year count table with totals. Results are cached;
a repeated query with the same parameters is served from disk.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("mode", "", "search mode: fulltext, freetext, or exact_phrase")
	searchCmd.Flags().Int("from", 0, "first year of the range, inclusive")
	searchCmd.Flags().Int("to", 0, "last year of the range, inclusive")
	searchCmd.Flags().Int("limit", 0, "maximum hits to request from the archive (0 = configured default)")
	searchCmd.Flags().Int("top-n", 0, "ranking size for the visualization payload (0 = configured default)")
	searchCmd.Flags().String("ranking", "", "top-N policy: global or per_period")
	searchCmd.Flags().Bool("json", false, "print the visualization payload as JSON instead of the table")
	searchCmd.Flags().Bool("no-cache", false, "bypass the result cache for this query")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadAppConfig()
	req := queryRequestFromFlags(cmd, args, cfg.Query)

	noCache, _ := cmd.Flags().GetBool("no-cache")
	o, store, err := buildOrchestrator(cfg, !noCache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	res, err := o.Run(context.Background(), req)
	if err != nil {
		return searchError(err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Payload)
	}

	if res.FromCache {
		fmt.Printf("Using cached results for %q\n\n", req.Term)
	} else {
		fmt.Printf("Search results for %q (%d duplicate hits removed)\n\n", req.Term, res.DuplicatesRemoved)
	}
	renderMatrix(os.Stdout, res.Matrix)
	renderStatistics(os.Stdout, res.Payload)
	return nil
}

// queryRequestFromFlags applies flag overrides on top of the configured
// defaults. A positional argument overrides the default search term.
func queryRequestFromFlags(cmd *cobra.Command, args []string, d types.QueryDefaults) query.Request {
	req := query.Request{
		Term:         d.SearchTerm,
		Mode:         d.SearchMode,
		FromYear:     d.FromYear,
		ToYear:       d.ToYear,
		TopN:         d.TopN,
		Ranking:      reshape.Ranking(d.Ranking),
		FetchTimeout: d.FetchTimeout,
	}
	if len(args) > 0 {
		req.Term = strings.Join(args, " ")
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		req.Mode = v
	}
	if v, _ := cmd.Flags().GetInt("from"); v != 0 {
		req.FromYear = v
	}
	if v, _ := cmd.Flags().GetInt("to"); v != 0 {
		req.ToYear = v
	}
	if v, _ := cmd.Flags().GetInt("limit"); v != 0 {
		req.Limit = v
	}
	if v, _ := cmd.Flags().GetInt("top-n"); v != 0 {
		req.TopN = v
	}
	if v, _ := cmd.Flags().GetString("ranking"); v != "" {
		req.Ranking = reshape.Ranking(v)
	}
	return req
}

// searchError turns a pipeline error into a message the operator can act on.
func searchError(err error) error {
	switch query.KindOf(err) {
	case query.KindEmptyResult:
		return fmt.Errorf("no results: try another term, a different mode, or a wider year range")
	case query.KindTimeout:
		return fmt.Errorf("the archive did not answer in time: narrow the year range or retry later")
	case query.KindProviderUnavailable:
		return fmt.Errorf("the archive API is unreachable: %w", err)
	default:
		return err
	}
}

// renderMatrix prints the count table with the year and grand totals, the
// same shape as the cached pivot artifact.
func renderMatrix(out *os.File, m *types.CountMatrix) {
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)

	header := make([]string, 0, len(m.Years)+2)
	header = append(header, "")
	for _, y := range m.Years {
		header = append(header, strconv.Itoa(y))
	}
	header = append(header, "TOTAL")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range m.Rows {
		cells := make([]string, 0, len(row.Counts)+2)
		cells = append(cells, row.Title)
		for _, c := range row.Counts {
			cells = append(cells, strconv.Itoa(c))
		}
		cells = append(cells, strconv.Itoa(row.Total))
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	margin := make([]string, 0, len(m.YearTotals)+2)
	margin = append(margin, "TOTAL")
	for _, c := range m.YearTotals {
		margin = append(margin, strconv.Itoa(c))
	}
	margin = append(margin, strconv.Itoa(m.GrandTotal))
	fmt.Fprintln(w, strings.Join(margin, "\t"))

	w.Flush()
}

func renderStatistics(out *os.File, p *types.VisualizationPayload) {
	s := p.Statistics
	fmt.Fprintf(out, "\nTotal articles:     %d\n", s.TotalArticles)
	fmt.Fprintf(out, "Total publications: %d\n", s.TotalPublications)
	fmt.Fprintf(out, "Date range:         %s\n", s.DateRange)
	if len(s.TopPublications) > 0 {
		fmt.Fprintf(out, "Top publications:   %s\n", strings.Join(s.TopPublications, ", "))
	}
}
