// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/kominfo-muaraenim/portal/internal/features"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Show the tenant's resolved feature flags",
	Long: `Features reads the features-<village> setting, merges it over the
defaults and prints the landing-page sections in order with their state.
When the setting cannot be read the defaults are shown and a warning logged.`,
	RunE: runFeatures,
}

func runFeatures(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, _ := a.features.Load(ctx)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(cfg)
	}

	fmt.Printf("Press releases: %v\n\n", cfg.PressReleaseEnabled)
	fmt.Printf("%-4s  %-24s  %s\n", "#", "Section", "Enabled")
	for i, s := range cfg.SectionsOrder {
		fmt.Printf("%-4d  %-24s  %v\n", i+1, s.Key, features.IsSectionEnabled(cfg, s.Key))
	}
	return nil
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Show the tenant's dynamic HTML sections",
	Long: `Sections resolves the dynamic-sections-<village> setting and prints each
section with the size of its static-page content. Missing pages are shown
with the placeholder content.`,
	RunE: runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	sections, err := a.features.DynamicSections(ctx)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		fmt.Println("No dynamic sections configured.")
		return nil
	}
	for _, s := range sections {
		fmt.Printf("  %-3d  %-32s  %-24s  %d bytes\n", s.Config.Order, s.Config.Title, s.Config.Slug, len(s.Content))
	}
	return nil
}

func init() {
	featuresCmd.Flags().String("format", "table", "output format: table, json, yaml")

	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(sectionsCmd)
}
