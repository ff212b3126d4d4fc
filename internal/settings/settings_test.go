// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/internal/features"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

type call struct {
	key     string
	headers map[string]string
	retries int
}

type fakeSource struct {
	mu     sync.Mutex
	values map[string]any
	errs   map[string]error
	calls  []call
}

func (f *fakeSource) VillageID() string { return "12" }

func (f *fakeSource) GetSetting(ctx context.Context, key string, headers map[string]string) (types.Setting, error) {
	return f.GetSettingWithRetry(ctx, key, headers, 0)
}

func (f *fakeSource) GetSettingWithRetry(_ context.Context, key string, headers map[string]string, retries int) (types.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{key: key, headers: headers, retries: retries})
	if err, ok := f.errs[key]; ok {
		return types.Setting{}, err
	}
	v, ok := f.values[key]
	if !ok {
		return types.Setting{}, fmt.Errorf("getting setting %q: %w", key, &content.StatusError{Code: 404, URL: key})
	}
	raw, _ := json.Marshal(v)
	return types.Setting{Name: key, Value: raw}, nil
}

func (f *fakeSource) callsFor(key string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.key == key {
			out = append(out, c)
		}
	}
	return out
}

var fallbackSite = types.SiteConfig{AnalyticsID: "G-ENV", ChatbotID: "bot-env", ChatbotURL: "https://chat.env"}

func TestAnalyticsIDFromSetting(t *testing.T) {
	src := &fakeSource{values: map[string]any{"google-analytics-id-12": map[string]string{"id": "G-REMOTE"}}}
	r := NewResolver(src, cache.New(nil, "settings"), fallbackSite)

	assert.Equal(t, "G-REMOTE", r.AnalyticsID(context.Background()))
	assert.Equal(t, "G-REMOTE", r.AnalyticsID(context.Background()))

	calls := src.callsFor("google-analytics-id-12")
	require.Len(t, calls, 1, "second lookup is served from cache")
	assert.Equal(t, 2, calls[0].retries)
}

func TestAnalyticsIDFallsBack(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"missing", &fakeSource{}},
		{"unreachable", &fakeSource{errs: map[string]error{"google-analytics-id-12": errors.New("timeout")}}},
		{"empty id", &fakeSource{values: map[string]any{"google-analytics-id-12": map[string]string{"id": ""}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.src, cache.New(nil, "settings"), fallbackSite)
			assert.Equal(t, "G-ENV", r.AnalyticsID(context.Background()))
		})
	}
}

func TestChatbotUsesSharedVillageAndFallsBackPerField(t *testing.T) {
	src := &fakeSource{values: map[string]any{"chatbot-token": map[string]string{"id": "bot-remote"}}}
	r := NewResolver(src, cache.New(nil, "settings"), fallbackSite)

	got := r.Chatbot(context.Background())
	assert.Equal(t, types.ChatbotSettings{ID: "bot-remote", URL: "https://chat.env"}, got)

	calls := src.callsFor("chatbot-token")
	require.Len(t, calls, 1)
	assert.Equal(t, "21", calls[0].headers["x-village-id"])
	assert.Equal(t, 2, calls[0].retries)
}

func TestLogoURL(t *testing.T) {
	src := &fakeSource{values: map[string]any{"logo-12": map[string]string{"imageUrl": "https://cdn/logo.png"}}}
	r := NewResolver(src, cache.New(nil, "settings"), fallbackSite)
	logo, err := r.LogoURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/logo.png", logo)

	r = NewResolver(&fakeSource{}, cache.New(nil, "settings"), fallbackSite)
	_, err = r.LogoURL(context.Background())
	assert.Error(t, err)
}

func TestAppPlaceholders(t *testing.T) {
	r := NewResolver(&fakeSource{values: map[string]any{"app-12": map[string]string{"title": "Layanan Publik"}}},
		cache.New(nil, "settings"), fallbackSite)
	got := r.App(context.Background())
	assert.Equal(t, "Layanan Publik", got.Title)
	assert.Equal(t, MissingAppSubTitle, got.SubTitle)
}

func TestFilterServices(t *testing.T) {
	items := []types.ServiceItem{
		{Title: "Wisata", Link: "/tour", Icon: "FaMapMarkedAlt", Order: 3},
		{Title: "Siaran Pers", Link: "press-release", Icon: "FaBullhorn", Order: 2},
		{Title: "Kesehatan", Link: "https://dinkes.example/tour", Icon: "FaStethoscope", Order: 1},
		{Title: "Foto", Image: "https://cdn/foto.png", Order: 1, Child: []types.ServiceItem{{Title: "Galeri", Icon: "nope"}}},
	}

	all := FilterServices(items, true, true)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"Kesehatan", "Foto", "Siaran Pers", "Wisata"}, titles(all))
	assert.Equal(t, "FaQuestion", all[0].Icon, "unknown icon names fall back")
	assert.Empty(t, all[1].Icon, "image entries keep no icon")
	assert.Equal(t, "FaQuestion", all[1].Child[0].Icon)
	assert.Equal(t, "nope", items[3].Child[0].Icon, "input is not modified")

	assert.Equal(t, []string{"Kesehatan", "Foto", "Siaran Pers"}, titles(FilterServices(items, false, true)))
	assert.Equal(t, []string{"Kesehatan", "Foto", "Wisata"}, titles(FilterServices(items, true, false)))
}

func titles(items []types.ServiceItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestSiteDegradesGracefully(t *testing.T) {
	src := &fakeSource{
		values: map[string]any{
			"service-12": []types.ServiceItem{
				{Title: "Wisata", Link: "/tour", Icon: "FaLeaf"},
				{Title: "Berita", Link: "/article", Icon: "FaNewspaper"},
			},
		},
		errs: map[string]error{"logo-12": errors.New("connection reset")},
	}
	r := NewResolver(src, cache.New(nil, "settings"), fallbackSite)

	disabled := false
	cfg := features.Resolve(&types.FeaturesSetting{SectionsOrder: []types.RemoteSection{
		{Key: types.SectionTour, Enabled: &disabled, Order: 1},
	}})
	site := r.Site(context.Background(), cfg)

	assert.Equal(t, "12", site.VillageID)
	assert.Equal(t, "G-ENV", site.AnalyticsID)
	assert.Equal(t, "bot-env", site.Chatbot.ID)
	assert.Empty(t, site.LogoURL)
	assert.Equal(t, MissingAppTitle, site.App.Title)
	assert.Equal(t, []string{"Berita"}, titles(site.Services))
}
