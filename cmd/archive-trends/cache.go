// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-trends/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached search results (list, invalidate, clear)",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached queries, newest first",
	RunE:  runCacheList,
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("The cache is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "key\tterm\tmode\tyears\tcached at")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\t%s\n",
			e.Key, e.Term, e.Mode, e.FromYear, e.ToYear, e.CreatedAt.Format(time.RFC3339))
	}
	w.Flush()

	fmt.Printf("\n%d cached quer%s\n", len(entries), pluralY(len(entries)))
	return nil
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate [key]",
	Short: "Remove one cached query by key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Invalidate(args[0]); err != nil {
			return err
		}
		fmt.Printf("Invalidated %s\n", args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached query",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached quer%s\n", n, pluralY(n))
		return nil
	},
}

func openCache() (*cache.Store, error) {
	cfg := loadAppConfig()
	return cache.Open(cfg.Cache, logger)
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
