// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package features resolves the tenant's feature flags and landing-page
// section layout from the `features-{village}` and `dynamic-sections-{village}`
// settings. Every lookup fails open: a missing or broken setting yields the
// defaults, never a hidden section.
package features

import (
	"slices"
	"sort"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// NonOptional lists sections that are always enabled, whatever the setting says.
var NonOptional = []types.SectionKey{types.SectionNews, types.SectionInfografis}

// DefaultSections returns the built-in landing-page layout.
func DefaultSections() []types.SectionConfig {
	return []types.SectionConfig{
		{Key: types.SectionDynamic, Enabled: true, Order: 1},
		{Key: types.SectionService, Enabled: true, Order: 2},
		{Key: types.SectionNews, Enabled: true, Order: 3},
		{Key: types.SectionInstagram, Enabled: true, Order: 4},
		{Key: types.SectionInfografis, Enabled: true, Order: 5},
		{Key: types.SectionTour, Enabled: true, Order: 6},
	}
}

// IsNonOptional reports whether key is always enabled.
func IsNonOptional(key types.SectionKey) bool {
	return slices.Contains(NonOptional, key)
}

// Resolve turns a raw setting (nil when absent) into the effective config.
// An empty section list falls back to DefaultSections. Entries without an
// enabled value are enabled, non-optional sections are forced on, and the
// list is stably sorted by Order.
func Resolve(remote *types.FeaturesSetting) types.FeatureConfig {
	cfg := types.FeatureConfig{PressReleaseEnabled: true}

	var sections []types.SectionConfig
	if remote != nil {
		if remote.PressRelease != nil {
			cfg.PressReleaseEnabled = *remote.PressRelease
		}
		for _, r := range remote.SectionsOrder {
			enabled := r.Enabled == nil || *r.Enabled
			sections = append(sections, types.SectionConfig{
				Key:     r.Key,
				Enabled: enabled || IsNonOptional(r.Key),
				Order:   r.Order,
			})
		}
	}
	if len(sections) == 0 {
		sections = DefaultSections()
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
	cfg.SectionsOrder = sections
	return cfg
}

// IsSectionEnabled reports whether key should render. Non-optional sections
// and keys absent from the config are enabled.
func IsSectionEnabled(cfg types.FeatureConfig, key types.SectionKey) bool {
	if IsNonOptional(key) {
		return true
	}
	for _, s := range cfg.SectionsOrder {
		if s.Key == key {
			return s.Enabled
		}
	}
	return true
}

// EnabledSections returns the keys that render, in display order.
func EnabledSections(cfg types.FeatureConfig) []types.SectionKey {
	var keys []types.SectionKey
	for _, s := range cfg.SectionsOrder {
		if IsSectionEnabled(cfg, s.Key) {
			keys = append(keys, s.Key)
		}
	}
	return keys
}
