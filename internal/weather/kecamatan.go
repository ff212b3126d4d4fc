// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weather

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// LocationsSettingKey is the shared setting that lists selectable kecamatan.
const LocationsSettingKey = "weather-data"

const (
	defaultSettingsVillage = "21"
	settingsRetries        = 2
)

//go:embed kecamatan.yaml
var kecamatanYAML []byte

var parseDefaults = sync.OnceValues(func() ([]types.Kecamatan, error) {
	var list []types.Kecamatan
	if err := yaml.Unmarshal(kecamatanYAML, &list); err != nil {
		return nil, fmt.Errorf("parsing embedded kecamatan list: %w", err)
	}
	return list, nil
})

// DefaultKecamatan returns a copy of the embedded fallback list.
func DefaultKecamatan() []types.Kecamatan {
	list, err := parseDefaults()
	if err != nil {
		panic(err)
	}
	return append([]types.Kecamatan(nil), list...)
}

// SettingsSource is the part of the content client the location list needs.
type SettingsSource interface {
	GetSettingWithRetry(ctx context.Context, key string, headers map[string]string, retries int) (types.Setting, error)
}

// Locations resolves the selectable kecamatan list.
type Locations struct {
	src     SettingsSource
	layer   *cache.Layer
	village string
}

// NewLocations returns a resolver that reads the list owned by village
// ("21" when empty).
func NewLocations(src SettingsSource, layer *cache.Layer, village string) *Locations {
	if village == "" {
		village = defaultSettingsVillage
	}
	return &Locations{src: src, layer: layer, village: village}
}

// List returns the configured kecamatan, or the embedded defaults when the
// setting is absent, empty, or cannot be fetched. It never fails.
func (l *Locations) List(ctx context.Context) []types.Kecamatan {
	list, err := cache.Do(ctx, l.layer, LocationsSettingKey, cache.SettingsTTL, func(ctx context.Context) ([]types.Kecamatan, error) {
		headers := map[string]string{"x-village-id": l.village}
		s, err := l.src.GetSettingWithRetry(ctx, LocationsSettingKey, headers, settingsRetries)
		if errors.Is(err, content.ErrNotFound) {
			return DefaultKecamatan(), nil
		}
		if err != nil {
			return nil, err
		}
		v, ok, err := content.DecodeValue[[]types.Kecamatan](s)
		if err != nil {
			return nil, err
		}
		if !ok || len(v) == 0 {
			return DefaultKecamatan(), nil
		}
		return v, nil
	})
	if err != nil {
		slog.Warn("kecamatan list unavailable, using defaults", "error", err)
		return DefaultKecamatan()
	}
	return list
}

// Find returns the entry with the given adm4 code.
func Find(list []types.Kecamatan, adm4 string) (types.Kecamatan, bool) {
	for _, k := range list {
		if k.ADM4 == adm4 {
			return k, true
		}
	}
	return types.Kecamatan{}, false
}
