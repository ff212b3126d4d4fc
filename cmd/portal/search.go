// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kominfo-muaraenim/portal/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search articles, infografis and tours",
	Long: `Search sends the term to every source enabled by the tenant's feature
flags and prints the merged results: articles first, then infografis, then
tours. A source that fails is reported only when no source returned data.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.search.Search(ctx, strings.Join(args, " "))

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return search.FormatJSON(res, os.Stdout)
	}
	search.FormatTable(res, os.Stdout)
	return nil
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
