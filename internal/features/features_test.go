// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

func boolPtr(b bool) *bool { return &b }

var (
	on  = boolPtr(true)
	off = boolPtr(false)
)

func keys(sections []types.SectionConfig) []types.SectionKey {
	out := make([]types.SectionKey, len(sections))
	for i, s := range sections {
		out[i] = s.Key
	}
	return out
}

func TestResolveDefaults(t *testing.T) {
	cfg := Resolve(nil)
	assert.True(t, cfg.PressReleaseEnabled)
	assert.Equal(t, []types.SectionKey{
		types.SectionDynamic, types.SectionService, types.SectionNews,
		types.SectionInstagram, types.SectionInfografis, types.SectionTour,
	}, keys(cfg.SectionsOrder))

	empty := Resolve(&types.FeaturesSetting{SectionsOrder: []types.RemoteSection{}})
	assert.Equal(t, cfg, empty)
}

func TestResolveForcesNonOptionalAndSorts(t *testing.T) {
	cfg := Resolve(&types.FeaturesSetting{
		PressRelease: boolPtr(false),
		SectionsOrder: []types.RemoteSection{
			{Key: types.SectionTour, Enabled: on, Order: 1},
			{Key: types.SectionNews, Enabled: off, Order: 2},
			{Key: types.SectionInstagram, Enabled: off, Order: 3},
		},
	})

	assert.False(t, cfg.PressReleaseEnabled)
	assert.Equal(t, []types.SectionKey{types.SectionTour, types.SectionNews, types.SectionInstagram}, keys(cfg.SectionsOrder))
	assert.True(t, cfg.SectionsOrder[1].Enabled, "news is non-optional")

	assert.True(t, IsSectionEnabled(cfg, types.SectionNews))
	assert.False(t, IsSectionEnabled(cfg, types.SectionInstagram))
	assert.True(t, IsSectionEnabled(cfg, types.SectionService), "absent keys fail open")
	assert.Equal(t, []types.SectionKey{types.SectionTour, types.SectionNews}, EnabledSections(cfg))
}

func TestResolveStableForEqualOrder(t *testing.T) {
	cfg := Resolve(&types.FeaturesSetting{SectionsOrder: []types.RemoteSection{
		{Key: types.SectionService, Enabled: on, Order: 2},
		{Key: types.SectionTour, Enabled: on, Order: 1},
		{Key: types.SectionNews, Enabled: on, Order: 2},
	}})
	assert.Equal(t, []types.SectionKey{types.SectionTour, types.SectionService, types.SectionNews}, keys(cfg.SectionsOrder))
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	remote := &types.FeaturesSetting{SectionsOrder: []types.RemoteSection{
		{Key: types.SectionInfografis, Enabled: off, Order: 2},
		{Key: types.SectionTour, Enabled: on, Order: 1},
	}}
	Resolve(remote)
	assert.False(t, *remote.SectionsOrder[0].Enabled)
	assert.Equal(t, types.SectionInfografis, remote.SectionsOrder[0].Key)
}

func TestResolveUnsetEnabledFailsOpen(t *testing.T) {
	var remote types.FeaturesSetting
	require.NoError(t, json.Unmarshal([]byte(`{"sectionsOrder":[
		{"key":"news","order":1},
		{"key":"tour","order":2},
		{"key":"instagram","enabled":null,"order":3},
		{"key":"service","enabled":false,"order":4}]}`), &remote))

	cfg := Resolve(&remote)
	assert.True(t, IsSectionEnabled(cfg, types.SectionTour), "enabled omitted")
	assert.True(t, IsSectionEnabled(cfg, types.SectionInstagram), "enabled null")
	assert.False(t, IsSectionEnabled(cfg, types.SectionService))
	assert.Equal(t, []types.SectionKey{types.SectionNews, types.SectionTour, types.SectionInstagram}, EnabledSections(cfg))
}

type fakeSource struct {
	mu       sync.Mutex
	settings map[string]string
	pages    map[string]string
	failing  map[string]bool
	calls    map[string]int
}

func (f *fakeSource) VillageID() string { return "12" }

func (f *fakeSource) GetSetting(_ context.Context, key string, _ map[string]string) (types.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[key]++
	if f.failing[key] {
		return types.Setting{}, errors.New("bad gateway")
	}
	v, ok := f.settings[key]
	if !ok {
		return types.Setting{}, &content.StatusError{Code: 404, URL: key}
	}
	return types.Setting{Name: key, Value: json.RawMessage(v)}, nil
}

func (f *fakeSource) GetStaticPage(_ context.Context, slug string) (types.StaticPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[slug] {
		return types.StaticPage{}, errors.New("timeout")
	}
	html, ok := f.pages[slug]
	if !ok {
		return types.StaticPage{}, &content.StatusError{Code: 404, URL: slug}
	}
	return types.StaticPage{Slug: slug, Content: html}, nil
}

func TestLoaderLoadAndCache(t *testing.T) {
	src := &fakeSource{settings: map[string]string{
		"features-12": `{"pressRelease":false,"sectionsOrder":[{"key":"tour","enabled":false,"order":1},{"key":"news","enabled":true,"order":2}]}`,
	}}
	l := NewLoader(src, cache.New(nil, "12"))

	cfg, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, cfg.PressReleaseEnabled)
	assert.False(t, IsSectionEnabled(cfg, types.SectionTour))

	_, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls["features-12"])
}

func TestLoaderFailsOpen(t *testing.T) {
	src := &fakeSource{failing: map[string]bool{"features-12": true}}
	cfg, err := NewLoader(src, cache.New(nil, "12")).Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Resolve(nil), cfg)
}

func TestLoaderMissingSettingIsDefaults(t *testing.T) {
	cfg, err := NewLoader(&fakeSource{}, cache.New(nil, "12")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Resolve(nil), cfg)
}

func TestDynamicSectionsDefaults(t *testing.T) {
	src := &fakeSource{pages: map[string]string{
		"wellcome-message-12": "<p>Selamat datang</p>",
		"village-program-12":  "   ",
	}}
	sections, err := NewLoader(src, cache.New(nil, "12")).DynamicSections(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "welcome", sections[0].Config.ID)
	assert.Equal(t, "Kata Sambutan", sections[0].Config.Title)
	assert.Equal(t, "<p>Selamat datang</p>", sections[0].Content)
	assert.Equal(t, "program", sections[1].Config.ID)
	assert.Equal(t, EmptyContent, sections[1].Content)
}

func TestDynamicSectionsConfigured(t *testing.T) {
	src := &fakeSource{
		settings: map[string]string{"dynamic-sections-12": `{"sections":[
			{"id":"visi","title":"Visi Misi","slug":"visi-misi","order":3,"enabled":true},
			{"id":"old","title":"Lama","slug":"lama","order":1,"enabled":false},
			{"id":"sejarah","title":"Sejarah","slug":"sejarah","order":2,"enabled":true}]}`},
		pages:   map[string]string{"visi-misi": "<p>Visi</p>"},
		failing: map[string]bool{"sejarah": true},
	}
	sections, err := NewLoader(src, cache.New(nil, "12")).DynamicSections(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "sejarah", sections[0].Config.ID)
	assert.Equal(t, EmptyContent, sections[0].Content)
	assert.Equal(t, "visi", sections[1].Config.ID)
	assert.Equal(t, "<p>Visi</p>", sections[1].Content)
}
