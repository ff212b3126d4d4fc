// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/internal/metrics"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// EmptyContent replaces a dynamic section whose static page is missing or blank.
const EmptyContent = "<p class='text-gray-400 italic p-4'>Konten belum diatur</p>"

// SettingsSource is the part of the content client the loader needs.
type SettingsSource interface {
	GetSetting(ctx context.Context, key string, headers map[string]string) (types.Setting, error)
	GetStaticPage(ctx context.Context, slug string) (types.StaticPage, error)
	VillageID() string
}

// Loader reads the feature settings through the query layer.
type Loader struct {
	src   SettingsSource
	layer *cache.Layer
}

// NewLoader returns a Loader reading from src and caching in layer.
func NewLoader(src SettingsSource, layer *cache.Layer) *Loader {
	return &Loader{src: src, layer: layer}
}

// Load returns the resolved feature config. The config is always usable; a
// non-nil error reports that the setting could not be read and defaults were
// applied.
func (l *Loader) Load(ctx context.Context) (types.FeatureConfig, error) {
	key := "features-" + l.src.VillageID()
	raw, err := cache.Do(ctx, l.layer, key, cache.SettingsTTL, func(ctx context.Context) (*types.FeaturesSetting, error) {
		return fetchValue[types.FeaturesSetting](ctx, l.src, key)
	})
	if err != nil {
		metrics.SourceErrors.WithLabelValues("features").Inc()
		slog.Warn("feature flags unavailable, using defaults", "key", key, "error", err)
		return Resolve(nil), err
	}
	return Resolve(raw), nil
}

type dynamicSectionsSetting struct {
	Sections []types.DynamicSectionConfig `json:"sections"`
}

// DefaultDynamicSections returns the built-in welcome and program blocks for village.
func DefaultDynamicSections(village string) []types.DynamicSectionConfig {
	return []types.DynamicSectionConfig{
		{ID: "welcome", Title: "Kata Sambutan", Slug: "wellcome-message-" + village, Order: 1, Enabled: true},
		{ID: "program", Title: "Program", Slug: "village-program-" + village, Order: 2, Enabled: true},
	}
}

// DynamicSections resolves the configured static content blocks. Disabled
// blocks are dropped, the rest are ordered and their pages fetched
// concurrently. A page that fails or is blank renders EmptyContent.
func (l *Loader) DynamicSections(ctx context.Context) ([]types.DynamicSection, error) {
	village := l.src.VillageID()
	key := "dynamic-sections-" + village

	setting, err := cache.Do(ctx, l.layer, key, cache.SettingsTTL, func(ctx context.Context) (*dynamicSectionsSetting, error) {
		return fetchValue[dynamicSectionsSetting](ctx, l.src, key)
	})
	if err != nil {
		metrics.SourceErrors.WithLabelValues("dynamic_sections").Inc()
		slog.Warn("dynamic sections setting unavailable, using defaults", "key", key, "error", err)
	}

	configs := DefaultDynamicSections(village)
	if setting != nil && setting.Sections != nil {
		configs = setting.Sections
	}

	var enabled []types.DynamicSectionConfig
	for _, c := range configs {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool { return enabled[i].Order < enabled[j].Order })

	out := make([]types.DynamicSection, len(enabled))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range enabled {
		g.Go(func() error {
			out[i] = types.DynamicSection{Config: c, Content: l.sectionContent(gctx, c.Slug)}
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

func (l *Loader) sectionContent(ctx context.Context, slug string) string {
	html, err := cache.Do(ctx, l.layer, "statis-page/"+slug, cache.SettingsTTL, func(ctx context.Context) (string, error) {
		page, err := l.src.GetStaticPage(ctx, slug)
		if err != nil {
			return "", err
		}
		return page.Content, nil
	})
	if err != nil {
		slog.Debug("static page unavailable", "slug", slug, "error", err)
		return EmptyContent
	}
	if strings.TrimSpace(html) == "" {
		return EmptyContent
	}
	return html
}

// fetchValue reads a setting and decodes its value. A missing setting or a
// null value is not an error and yields nil.
func fetchValue[T any](ctx context.Context, src SettingsSource, key string) (*T, error) {
	s, err := src.GetSetting(ctx, key, nil)
	if errors.Is(err, content.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v, ok, err := content.DecodeValue[T](s)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}
