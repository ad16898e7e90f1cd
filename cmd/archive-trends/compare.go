// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-trends/internal/provider"
	"github.com/pdiddy/archive-trends/internal/query"
)

var compareCmd = &cobra.Command{
	Use:   "compare [term]",
	Short: "Contrast full-text and exact-phrase counts for one term",
	Long: `Compare runs the same query in fulltext and exact_phrase mode and prints
the yearly totals side by side. The gap between the columns shows how many
hits match the words individually but not the exact phrase.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().Int("from", 0, "first year of the range, inclusive")
	compareCmd.Flags().Int("to", 0, "last year of the range, inclusive")
	compareCmd.Flags().Bool("no-cache", false, "bypass the result cache")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := loadAppConfig()
	base := queryRequestFromFlags(cmd, args, cfg.Query)

	noCache, _ := cmd.Flags().GetBool("no-cache")
	o, store, err := buildOrchestrator(cfg, !noCache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	totals := map[string]map[int]int{}
	grand := map[string]int{}
	yearSet := map[int]struct{}{}

	modes := []string{string(provider.ModeFullText), string(provider.ModeExactPhrase)}
	for _, mode := range modes {
		req := base
		req.Mode = mode

		res, err := o.Run(context.Background(), req)
		if err != nil {
			if query.KindOf(err) == query.KindEmptyResult {
				totals[mode] = map[int]int{}
				continue
			}
			return searchError(err)
		}

		byYear := make(map[int]int, len(res.Matrix.Years))
		for i, y := range res.Matrix.Years {
			byYear[y] = res.Matrix.YearTotals[i]
			yearSet[y] = struct{}{}
		}
		totals[mode] = byYear
		grand[mode] = res.Matrix.GrandTotal
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	fmt.Printf("Mode comparison for %q (%d-%d)\n\n", base.Term, base.FromYear, base.ToYear)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join([]string{"year", "fulltext", "exact_phrase", "diff"}, "\t"))
	for _, y := range years {
		ft := totals[modes[0]][y]
		ep := totals[modes[1]][y]
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", y, ft, ep, ft-ep)
	}
	fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\n", grand[modes[0]], grand[modes[1]], grand[modes[0]]-grand[modes[1]])
	w.Flush()

	if len(years) == 0 {
		fmt.Println("No results in either mode.")
	}
	return nil
}
