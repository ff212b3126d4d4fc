// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <article|press-release|tour|infografis>",
	Short: "Walk a content listing page by page",
	Long: `List fetches a content listing through the query layer, following the
server's next-page cursor. By default only the first page is printed; use
--pages to walk further or --pages 0 to walk to the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	kind := types.ResourceKind(args[0])
	if !kind.Valid() {
		return fmt.Errorf("unknown listing %q", args[0])
	}
	term, _ := cmd.Flags().GetString("search")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	sortOrder, _ := cmd.Flags().GetString("order")
	maxPages, _ := cmd.Flags().GetInt("pages")

	ctx := context.Background()
	a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	q := types.ContentQuery{
		Kind:      kind,
		Search:    term,
		PageSize:  pageSize,
		SortBy:    "published_at",
		SortOrder: sortOrder,
	}
	c := a.client
	switch kind {
	case types.KindArticle:
		return walk(ctx, cache.NewPager[types.Article](a.layer, q, c.ListArticles), maxPages, func(v types.Article) (int, string, string) {
			return v.ID, v.Title, v.Slug
		})
	case types.KindPressRelease:
		return walk(ctx, cache.NewPager[types.PressRelease](a.layer, q, c.ListPressReleases), maxPages, func(v types.PressRelease) (int, string, string) {
			return v.ID, v.Title, v.Slug
		})
	case types.KindTour:
		return walk(ctx, cache.NewPager[types.Tour](a.layer, q, c.ListTours), maxPages, func(v types.Tour) (int, string, string) {
			return v.ID, v.Title, v.Slug
		})
	default:
		return walk(ctx, cache.NewPager[types.Infografis](a.layer, q, c.ListInfografis), maxPages, func(v types.Infografis) (int, string, string) {
			return v.ID, v.Title, v.Image
		})
	}
}

// walk prints up to maxPages pages (all when maxPages <= 0).
func walk[T any](ctx context.Context, p *cache.Pager[T], maxPages int, row func(T) (int, string, string)) error {
	for n := 1; p.HasNext() && (maxPages <= 0 || n <= maxPages); n++ {
		page, err := p.Next(ctx)
		if err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
		fmt.Printf("-- page %d (%d items)\n", n, len(page.Items))
		for _, item := range page.Items {
			id, title, ref := row(item)
			fmt.Printf("  %-6d  %-50s  %s\n", id, truncate(title, 50), ref)
		}
	}
	if p.HasNext() {
		fmt.Println("\nMore pages available; use --pages to fetch further.")
	}
	fmt.Printf("\n%d item(s) fetched\n", len(p.Flatten()))
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	listCmd.Flags().String("search", "", "search term")
	listCmd.Flags().Int("page-size", 9, "items per page")
	listCmd.Flags().String("order", "desc", "sort order: asc or desc")
	listCmd.Flags().Int("pages", 1, "number of pages to fetch (0 for all)")

	rootCmd.AddCommand(listCmd)
}
