// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kominfo-muaraenim/portal/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <slug>...",
	Short: "Build press-release export archives",
	Long: `Export fetches each press release by slug and writes a zip archive
holding a PDF and a DOCX rendering plus every referenced image. Archives are
written atomically to the output directory as press-release-<slug>.zip.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("output")

	ctx := context.Background()
	a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	var failed int
	for _, slug := range args {
		pr, err := a.client.GetPressRelease(ctx, slug, "category,attachments")
		if err != nil {
			fmt.Printf("  FAIL %s: %v\n", slug, err)
			failed++
			continue
		}
		bundle, err := a.exporter.Export(ctx, pr)
		if err != nil {
			fmt.Printf("  FAIL %s: %v\n", slug, err)
			failed++
			continue
		}
		path, err := export.SaveArchive(bundle, outDir)
		if err != nil {
			fmt.Printf("  FAIL %s: %v\n", slug, err)
			failed++
			continue
		}
		fmt.Printf("  OK   %s -> %s (%d entries)\n", slug, path, len(bundle.Entries))
	}

	fmt.Printf("\nExported %d/%d press release(s)\n", len(args)-failed, len(args))
	if failed > 0 {
		return fmt.Errorf("%d export(s) failed", failed)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringP("output", "o", "exports", "directory for the archives")

	rootCmd.AddCommand(exportCmd)
}
