// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings resolves tenant-level site metadata from CMS settings:
// analytics id, chat widget, logo, the service list header, and the service
// list itself. Lookups are cached for cache.SettingsTTL and fall back to
// configured values or placeholders rather than failing.
package settings

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/internal/features"
	"github.com/kominfo-muaraenim/portal/internal/icons"
	"github.com/kominfo-muaraenim/portal/internal/metrics"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// Placeholders shown when the service list header is not configured.
const (
	MissingAppTitle    = "[Judul layanan belum diatur]"
	MissingAppSubTitle = "[Sub judul layanan belum diatur]"
)

const (
	defaultChatbotVillage = "21"
	lookupRetries         = 2
)

// Source is the part of the content client the resolver needs.
type Source interface {
	GetSetting(ctx context.Context, key string, headers map[string]string) (types.Setting, error)
	GetSettingWithRetry(ctx context.Context, key string, headers map[string]string, retries int) (types.Setting, error)
	VillageID() string
}

// Resolver reads site settings for one tenant.
type Resolver struct {
	src   Source
	layer *cache.Layer
	site  types.SiteConfig
}

// NewResolver returns a resolver. site supplies the fallback identifiers.
func NewResolver(src Source, layer *cache.Layer, site types.SiteConfig) *Resolver {
	if site.ChatbotVillageID == "" {
		site.ChatbotVillageID = defaultChatbotVillage
	}
	return &Resolver{src: src, layer: layer, site: site}
}

type idValue struct {
	ID string `json:"id"`
}

type logoValue struct {
	ImageURL string `json:"imageUrl"`
}

// lookup fetches and decodes a setting through the cache. An absent setting
// or null value yields the zero value and no error.
func lookup[T any](ctx context.Context, r *Resolver, key string, headers map[string]string, retries int) (T, error) {
	return cache.Do(ctx, r.layer, key, cache.SettingsTTL, func(ctx context.Context) (T, error) {
		var zero T
		var (
			s   types.Setting
			err error
		)
		if retries > 0 {
			s, err = r.src.GetSettingWithRetry(ctx, key, headers, retries)
		} else {
			s, err = r.src.GetSetting(ctx, key, headers)
		}
		if errors.Is(err, content.ErrNotFound) {
			return zero, nil
		}
		if err != nil {
			return zero, err
		}
		v, _, err := content.DecodeValue[T](s)
		return v, err
	})
}

func fallback(key string, err error) {
	metrics.SourceErrors.WithLabelValues("settings").Inc()
	slog.Warn("setting unavailable, using fallback", "key", key, "error", err)
}

// AnalyticsID returns the `google-analytics-id-{village}` id, or the
// configured one when the setting is missing or unreachable.
func (r *Resolver) AnalyticsID(ctx context.Context) string {
	key := "google-analytics-id-" + r.src.VillageID()
	v, err := lookup[idValue](ctx, r, key, nil, lookupRetries)
	if err != nil {
		fallback(key, err)
	}
	if v.ID != "" {
		return v.ID
	}
	return r.site.AnalyticsID
}

// Chatbot returns the chat widget identifiers from the shared `chatbot-token`
// setting. Each field falls back to configuration independently.
func (r *Resolver) Chatbot(ctx context.Context) types.ChatbotSettings {
	const key = "chatbot-token"
	headers := map[string]string{"x-village-id": r.site.ChatbotVillageID}
	v, err := lookup[types.ChatbotSettings](ctx, r, key, headers, lookupRetries)
	if err != nil {
		fallback(key, err)
	}
	if v.ID == "" {
		v.ID = r.site.ChatbotID
	}
	if v.URL == "" {
		v.URL = r.site.ChatbotURL
	}
	return v
}

// LogoURL returns the `logo-{village}` image URL.
func (r *Resolver) LogoURL(ctx context.Context) (string, error) {
	key := "logo-" + r.src.VillageID()
	v, err := lookup[logoValue](ctx, r, key, nil, 0)
	if err != nil {
		return "", err
	}
	if v.ImageURL == "" {
		return "", fmt.Errorf("setting %q has no imageUrl", key)
	}
	return v.ImageURL, nil
}

// App returns the service list header with placeholders for missing fields.
func (r *Resolver) App(ctx context.Context) types.AppHeader {
	key := "app-" + r.src.VillageID()
	v, err := lookup[types.AppHeader](ctx, r, key, nil, 0)
	if err != nil {
		fallback(key, err)
	}
	if v.Title == "" {
		v.Title = MissingAppTitle
	}
	if v.SubTitle == "" {
		v.SubTitle = MissingAppSubTitle
	}
	return v
}

// Services returns the `service-{village}` list ordered by Order, with
// entries linking to disabled sections removed and every icon name
// normalised to a known icon.
func (r *Resolver) Services(ctx context.Context, cfg types.FeatureConfig) ([]types.ServiceItem, error) {
	key := "service-" + r.src.VillageID()
	items, err := lookup[[]types.ServiceItem](ctx, r, key, nil, 0)
	if err != nil {
		return nil, err
	}
	return FilterServices(items, features.IsSectionEnabled(cfg, types.SectionTour), cfg.PressReleaseEnabled), nil
}

// Site resolves every site-level value. Failed lookups degrade to fallbacks
// or empty fields; Site itself never fails.
func (r *Resolver) Site(ctx context.Context, cfg types.FeatureConfig) types.SiteInfo {
	info := types.SiteInfo{
		VillageID:   r.src.VillageID(),
		AnalyticsID: r.AnalyticsID(ctx),
		Chatbot:     r.Chatbot(ctx),
		App:         r.App(ctx),
		Services:    []types.ServiceItem{},
	}
	if logo, err := r.LogoURL(ctx); err == nil {
		info.LogoURL = logo
	} else {
		fallback("logo-"+info.VillageID, err)
	}
	if services, err := r.Services(ctx, cfg); err == nil {
		info.Services = services
	} else {
		fallback("service-"+info.VillageID, err)
	}
	return info
}

// FilterServices sorts items by Order, drops links to /tour or
// /press-release when those features are off, and resolves icon names.
// The input is not modified.
func FilterServices(items []types.ServiceItem, tour, pressRelease bool) []types.ServiceItem {
	out := make([]types.ServiceItem, 0, len(items))
	for _, it := range items {
		if routeMatches(it.Link, "/tour") && !tour {
			continue
		}
		if routeMatches(it.Link, "/press-release") && !pressRelease {
			continue
		}
		out = append(out, normalise(it))
	}
	slices.SortStableFunc(out, func(a, b types.ServiceItem) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

func normalise(it types.ServiceItem) types.ServiceItem {
	if it.Image == "" || it.Icon != "" {
		it.Icon = string(icons.Resolve(it.Icon))
	}
	if len(it.Child) > 0 {
		children := make([]types.ServiceItem, len(it.Child))
		for i, c := range it.Child {
			children[i] = normalise(c)
		}
		it.Child = children
	}
	return it
}

func routeMatches(link, target string) bool {
	if link == "" {
		return false
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return link == target
}
