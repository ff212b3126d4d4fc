// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kominfo-muaraenim/portal/internal/api"
	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/internal/export"
	"github.com/kominfo-muaraenim/portal/internal/features"
	"github.com/kominfo-muaraenim/portal/internal/search"
	"github.com/kominfo-muaraenim/portal/internal/settings"
	"github.com/kominfo-muaraenim/portal/internal/social"
	"github.com/kominfo-muaraenim/portal/internal/weather"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// app wires every component for one tenant over a single query layer.
type app struct {
	cfg       types.PortalConfig
	client    *content.Client
	store     cache.Store
	layer     *cache.Layer
	features  *features.Loader
	settings  *settings.Resolver
	search    *search.Aggregator
	exporter  *export.Exporter
	weather   *weather.Service
	locations *weather.Locations
	instagram *social.Mirror

	// prefs is opened on demand; only serve needs it.
	prefs *weather.PreferenceStore
}

// newApp builds the components for cfg. The Redis store is used when
// cache.redis_addr is set; otherwise results stay in process.
func newApp(ctx context.Context, cfg types.PortalConfig) (*app, error) {
	var store cache.Store
	if cfg.Cache.RedisAddr != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		slog.Info("using Redis cache", "addr", cfg.Cache.RedisAddr, "db", cfg.Cache.RedisDB)
		store = rs
	} else {
		store = cache.NewMemoryStore(cfg.Cache.Size)
	}

	client := content.NewClient(cfg.Content)
	layer := cache.New(store, "village-"+client.VillageID())
	loader := features.NewLoader(client, layer)
	resolver := settings.NewResolver(client, layer, cfg.Site)

	return &app{
		cfg:       cfg,
		client:    client,
		store:     store,
		layer:     layer,
		features:  loader,
		settings:  resolver,
		search:    search.NewAggregator(search.FeatureGate(loader), search.DefaultSources(client, layer)...),
		exporter:  export.NewExporter(client, resolver, cfg.Export),
		weather:   weather.NewService(cfg.Weather, layer),
		locations: weather.NewLocations(client, layer, cfg.Weather.SettingsVillageID),
		instagram: social.NewMirror(social.NewInstagramClient(cfg.Social), client, layer, cfg.Social.AccessToken),
	}, nil
}

// openPrefs opens the kecamatan preference database at weather.db_path.
func (a *app) openPrefs() error {
	if a.prefs != nil {
		return nil
	}
	p, err := weather.NewPreferenceStore(a.cfg.Weather.DBPath)
	if err != nil {
		return err
	}
	a.prefs = p
	return nil
}

// handler returns the API handler over the app's components.
func (a *app) handler() *api.Handler {
	return api.NewHandler(api.Deps{
		Content:   a.client,
		Layer:     a.layer,
		Features:  a.features,
		Settings:  a.settings,
		Search:    a.search,
		Exporter:  a.exporter,
		Weather:   a.weather,
		Locations: a.locations,
		Prefs:     a.prefs,
		Instagram: a.instagram,
	})
}

func (a *app) Close() error {
	var errs []error
	if a.prefs != nil {
		errs = append(errs, a.prefs.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

// setup loads config, installs logging and builds the app.
func setup(ctx context.Context, jsonLogs bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Server.LogLevel, jsonLogs)
	return newApp(ctx, cfg)
}
