// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/features"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// --- fake content listing ---

type fakeLister struct {
	mu       sync.Mutex
	queries  []types.ContentQuery
	articles map[string][]types.Article
	infog    map[string][]types.Infografis
	tours    map[string][]types.Tour
	fail     map[types.ResourceKind]error
	block    map[string]chan struct{}
}

func (f *fakeLister) record(q types.ContentQuery) error {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	err := f.fail[q.Kind]
	ch := f.block[q.Search]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return err
}

func (f *fakeLister) ListArticles(_ context.Context, q types.ContentQuery) (types.Page[types.Article], error) {
	if err := f.record(q); err != nil {
		return types.Page[types.Article]{}, err
	}
	return types.Page[types.Article]{Items: f.articles[q.Search]}, nil
}

func (f *fakeLister) ListInfografis(_ context.Context, q types.ContentQuery) (types.Page[types.Infografis], error) {
	if err := f.record(q); err != nil {
		return types.Page[types.Infografis]{}, err
	}
	return types.Page[types.Infografis]{Items: f.infog[q.Search]}, nil
}

func (f *fakeLister) ListTours(_ context.Context, q types.ContentQuery) (types.Page[types.Tour], error) {
	if err := f.record(q); err != nil {
		return types.Page[types.Tour]{}, err
	}
	return types.Page[types.Tour]{Items: f.tours[q.Search]}, nil
}

func (f *fakeLister) kinds() map[types.ResourceKind]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[types.ResourceKind]int{}
	for _, q := range f.queries {
		out[q.Kind]++
	}
	return out
}

func tamanLister() *fakeLister {
	return &fakeLister{
		articles: map[string][]types.Article{
			"taman": {{ID: 1, Title: "Taman Kota Diresmikan", Slug: "taman-kota"}},
			"":      {{ID: 1, Title: "Taman Kota Diresmikan", Slug: "taman-kota"}, {ID: 2, Title: "Pasar Baru", Slug: "pasar-baru"}},
		},
		infog: map[string][]types.Infografis{
			"taman": {{ID: 4, Title: "Peta Taman"}, {ID: 5, Title: "Jadwal Taman"}},
		},
		tours: map[string][]types.Tour{
			"taman": {{ID: 9, Title: "Taman Wisata Bukit Asam", Slug: "bukit-asam"}},
		},
	}
}

func withoutTour(context.Context) func(types.ResultType) bool {
	return func(t types.ResultType) bool { return t != types.ResultTour }
}

// --- Aggregator ---

func TestSearchMergesInSourceOrder(t *testing.T) {
	l := tamanLister()
	agg := NewAggregator(nil, DefaultSources(l, cache.New(nil, "12"))...)

	res := agg.Search(context.Background(), "taman")
	require.Len(t, res.Results, 4)
	assert.Equal(t, "article-1", res.Results[0].ID)
	assert.Equal(t, "/article/taman-kota", res.Results[0].Href)
	assert.Equal(t, "infografis-4", res.Results[1].ID)
	require.NotNil(t, res.Results[2].Lightbox)
	assert.Equal(t, 1, *res.Results[2].Lightbox)
	assert.Empty(t, res.Results[2].Href)
	assert.Equal(t, "tour-9", res.Results[3].ID)
	assert.Equal(t, "/tour/bukit-asam", res.Results[3].Href)
	assert.False(t, res.IsLoading)
	assert.False(t, res.IsFetching)
	assert.False(t, res.HasError)
}

func TestSearchArticleQueryShape(t *testing.T) {
	l := tamanLister()
	src := &ArticleSource{Lister: l, Layer: cache.New(nil, "")}
	_, err := src.Search(context.Background(), "taman")
	require.NoError(t, err)

	require.Len(t, l.queries, 1)
	q := l.queries[0]
	assert.Equal(t, 6, q.PageSize)
	assert.Equal(t, "published_at", q.SortBy)
	assert.Equal(t, "desc", q.SortOrder)
	assert.Equal(t, "taman", q.Search)
}

func TestSearchTourDisabledExcludesSource(t *testing.T) {
	l := tamanLister()
	l.fail = map[types.ResourceKind]error{types.KindTour: errors.New("must not be called")}
	agg := NewAggregator(withoutTour, DefaultSources(l, cache.New(nil, "12"))...)

	res := agg.Search(context.Background(), "taman")
	for _, r := range res.Results {
		assert.NotEqual(t, types.ResultTour, r.Type)
	}
	assert.Len(t, res.Results, 3)
	assert.False(t, res.HasError)
	assert.NotContains(t, res.SourceErrors, types.ResultTour)
	assert.Zero(t, l.kinds()[types.KindTour])
}

func TestSearchEmptyTermIsIdempotent(t *testing.T) {
	l := tamanLister()
	agg := NewAggregator(nil, DefaultSources(l, cache.New(nil, "12"))...)

	first := agg.Search(context.Background(), "")
	second := agg.Search(context.Background(), "")
	assert.Equal(t, first.Results, second.Results)
	assert.Len(t, first.Results, 2)
	for _, q := range l.queries {
		assert.Equal(t, "", q.Search, "empty term forwarded verbatim")
	}
}

func TestSearchHasErrorWhenEveryEmptySourceFailed(t *testing.T) {
	boom := errors.New("bad gateway")

	tests := []struct {
		name      string
		fail      map[types.ResourceKind]error
		gate      Gate
		term      string
		wantError bool
		wantCount int
	}{
		{"all fail", map[types.ResourceKind]error{types.KindArticle: boom, types.KindInfografis: boom, types.KindTour: boom}, nil, "taman", true, 0},
		{"every empty source failed", map[types.ResourceKind]error{types.KindArticle: boom, types.KindTour: boom}, nil, "taman", true, 2},
		{"one failure among successes", map[types.ResourceKind]error{types.KindTour: boom}, nil, "kosong", false, 0},
		{"no failures", nil, nil, "taman", false, 4},
		{"empty without error is not failure", map[types.ResourceKind]error{types.KindArticle: boom, types.KindTour: boom}, nil, "kosong", false, 0},
		{"disabled tour ignored", map[types.ResourceKind]error{types.KindArticle: boom, types.KindInfografis: boom}, withoutTour, "taman", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tamanLister()
			l.fail = tt.fail
			res := NewAggregator(tt.gate, DefaultSources(l, cache.New(nil, ""))...).Search(context.Background(), tt.term)
			assert.Equal(t, tt.wantError, res.HasError)
			assert.Len(t, res.Results, tt.wantCount)
		})
	}
}

// --- Session ---

func TestSessionLastWriteWins(t *testing.T) {
	l := tamanLister()
	release := make(chan struct{})
	l.block = map[string]chan struct{}{"lama": release}
	l.articles["lama"] = []types.Article{{ID: 77, Title: "Berita Lama", Slug: "lama"}}

	s := NewSession(context.Background(), NewAggregator(withoutTour, DefaultSources(l, cache.New(nil, "12"))...))
	s.SetTerm("lama")

	snap := s.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.True(t, snap.IsFetching)

	s.SetTerm("taman")
	res, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "taman", res.Term)
	assert.Len(t, res.Results, 3)

	close(release)
	time.Sleep(20 * time.Millisecond)

	after := s.Snapshot()
	assert.Equal(t, "taman", after.Term)
	for _, r := range after.Results {
		assert.NotEqual(t, "article-77", r.ID, "stale result must not be shown")
	}
}

func TestSessionRetryKeepsShownResults(t *testing.T) {
	l := tamanLister()
	s := NewSession(context.Background(), NewAggregator(nil, DefaultSources(l, cache.New(nil, "12"))...))
	s.SetTerm("taman")
	_, err := s.Wait(context.Background())
	require.NoError(t, err)

	release := make(chan struct{})
	l.mu.Lock()
	l.block = map[string]chan struct{}{"taman": release}
	l.mu.Unlock()

	s.Retry()
	snap := s.Snapshot()
	assert.True(t, snap.IsFetching)
	assert.False(t, snap.IsLoading)
	assert.Len(t, snap.Results, 4)

	close(release)
	res, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, res.IsFetching)
	assert.Len(t, res.Results, 4)
}

func TestSessionWaitHonoursContext(t *testing.T) {
	l := tamanLister()
	release := make(chan struct{})
	defer close(release)
	l.block = map[string]chan struct{}{"x": release}

	s := NewSession(context.Background(), NewAggregator(nil, DefaultSources(l, cache.New(nil, ""))...))
	s.SetTerm("x")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// --- feature gate ---

type flagSource struct {
	mu      sync.Mutex
	lookups int
	value   string
}

func (f *flagSource) VillageID() string { return "12" }

func (f *flagSource) GetSetting(_ context.Context, key string, _ map[string]string) (types.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.value == "" {
		return types.Setting{}, errors.New("settings endpoint down")
	}
	return types.Setting{Name: key, Value: []byte(f.value)}, nil
}

func (f *flagSource) GetStaticPage(context.Context, string) (types.StaticPage, error) {
	return types.StaticPage{}, errors.New("unused")
}

func (f *flagSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

func TestFeatureGateLoadsFlagsOncePerSearch(t *testing.T) {
	src := &flagSource{}
	gate := FeatureGate(features.NewLoader(src, cache.New(nil, "12")))
	agg := NewAggregator(gate, DefaultSources(tamanLister(), cache.New(nil, "12"))...)

	res := agg.Search(context.Background(), "taman")
	assert.Equal(t, 1, src.count())
	assert.Len(t, res.Results, 4, "failed lookup falls back to defaults")

	agg.Search(context.Background(), "taman")
	assert.Equal(t, 2, src.count(), "failures are not cached")
}

func TestFeatureGateSkipsLookupForAlwaysOnSources(t *testing.T) {
	src := &flagSource{}
	l := tamanLister()
	layer := cache.New(nil, "12")
	agg := NewAggregator(FeatureGate(features.NewLoader(src, layer)),
		&ArticleSource{Lister: l, Layer: layer}, &InfografisSource{Lister: l, Layer: layer})

	res := agg.Search(context.Background(), "taman")
	assert.Zero(t, src.count())
	assert.Len(t, res.Results, 3)
}

func TestFeatureGateHonoursDisabledTour(t *testing.T) {
	src := &flagSource{value: `{"sectionsOrder":[{"key":"tour","enabled":false,"order":1}]}`}
	l := tamanLister()
	agg := NewAggregator(FeatureGate(features.NewLoader(src, cache.New(nil, "12"))), DefaultSources(l, cache.New(nil, "12"))...)

	res := agg.Search(context.Background(), "taman")
	for _, r := range res.Results {
		assert.NotEqual(t, types.ResultTour, r.Type)
	}
	assert.Zero(t, l.kinds()[types.KindTour])
	assert.Equal(t, 1, src.count())
}

// --- formatting ---

func TestFormatTable(t *testing.T) {
	idx := 0
	res := Result{Term: "taman", Results: []types.SearchResultItem{
		{ID: "article-1", Type: types.ResultArticle, Title: "Taman Kota", Href: "/article/taman-kota"},
		{ID: "infografis-4", Type: types.ResultInfografis, Title: "Peta Taman", Lightbox: &idx},
	}}
	var buf bytes.Buffer
	FormatTable(res, &buf)
	out := buf.String()
	assert.Contains(t, out, "/article/taman-kota")
	assert.Contains(t, out, "lightbox[0]")
	assert.Contains(t, out, `Ditemukan 2 hasil untuk "taman"`)

	buf.Reset()
	FormatTable(Result{Term: "zzz"}, &buf)
	assert.True(t, strings.HasPrefix(buf.String(), "Tidak ada hasil"))
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(Result{Term: "a", Results: []types.SearchResultItem{}}, &buf))
	assert.Contains(t, buf.String(), `"hasError": false`)
}
