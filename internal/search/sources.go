// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// ArticlePageSize is the number of articles a search shows.
const ArticlePageSize = 6

// Lister is the part of the content client the sources need.
type Lister interface {
	ListArticles(ctx context.Context, q types.ContentQuery) (types.Page[types.Article], error)
	ListInfografis(ctx context.Context, q types.ContentQuery) (types.Page[types.Infografis], error)
	ListTours(ctx context.Context, q types.ContentQuery) (types.Page[types.Tour], error)
}

// firstPage loads page one of q through the layer so identical concurrent
// searches share a request.
func firstPage[T any](ctx context.Context, layer *cache.Layer, q types.ContentQuery, list func(context.Context, types.ContentQuery) (types.Page[T], error)) ([]T, error) {
	page, err := cache.Do(ctx, layer, q.Key(), 0, func(ctx context.Context) (types.Page[T], error) {
		return list(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// ArticleSource searches the newest articles.
type ArticleSource struct {
	Lister Lister
	Layer  *cache.Layer
}

func (s *ArticleSource) Type() types.ResultType { return types.ResultArticle }

// Query returns the listing query sent for term.
func (s *ArticleSource) Query(term string) types.ContentQuery {
	return types.ContentQuery{
		Kind:      types.KindArticle,
		Search:    term,
		PageSize:  ArticlePageSize,
		SortBy:    "published_at",
		SortOrder: "desc",
	}
}

func (s *ArticleSource) Search(ctx context.Context, term string) ([]types.SearchResultItem, error) {
	articles, err := firstPage(ctx, s.Layer, s.Query(term), s.Lister.ListArticles)
	if err != nil {
		return nil, fmt.Errorf("searching articles: %w", err)
	}
	items := make([]types.SearchResultItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, types.SearchResultItem{
			ID:          fmt.Sprintf("article-%d", a.ID),
			Type:        types.ResultArticle,
			Title:       a.Title,
			Description: a.Description,
			Slug:        a.Slug,
			Href:        "/article/" + a.Slug,
		})
	}
	return items, nil
}

// InfografisSource searches infographics. The listing is a single page with
// no size limit; each item opens the lightbox at its position.
type InfografisSource struct {
	Lister Lister
	Layer  *cache.Layer
}

func (s *InfografisSource) Type() types.ResultType { return types.ResultInfografis }

func (s *InfografisSource) Search(ctx context.Context, term string) ([]types.SearchResultItem, error) {
	q := types.ContentQuery{Kind: types.KindInfografis, Search: term}
	list, err := firstPage(ctx, s.Layer, q, s.Lister.ListInfografis)
	if err != nil {
		return nil, fmt.Errorf("searching infografis: %w", err)
	}
	items := make([]types.SearchResultItem, 0, len(list))
	for i, g := range list {
		idx := i
		items = append(items, types.SearchResultItem{
			ID:          fmt.Sprintf("infografis-%d", g.ID),
			Type:        types.ResultInfografis,
			Title:       g.Title,
			Description: g.Description,
			Lightbox:    &idx,
		})
	}
	return items, nil
}

// TourSource searches tourism listings.
type TourSource struct {
	Lister Lister
	Layer  *cache.Layer
}

func (s *TourSource) Type() types.ResultType { return types.ResultTour }

func (s *TourSource) Search(ctx context.Context, term string) ([]types.SearchResultItem, error) {
	q := types.ContentQuery{Kind: types.KindTour, Search: term}
	tours, err := firstPage(ctx, s.Layer, q, s.Lister.ListTours)
	if err != nil {
		return nil, fmt.Errorf("searching tours: %w", err)
	}
	items := make([]types.SearchResultItem, 0, len(tours))
	for _, t := range tours {
		items = append(items, types.SearchResultItem{
			ID:          fmt.Sprintf("tour-%d", t.ID),
			Type:        types.ResultTour,
			Title:       t.Title,
			Description: t.Description,
			Slug:        t.Slug,
			Href:        "/tour/" + t.Slug,
		})
	}
	return items, nil
}

// DefaultSources returns the article, infografis and tour sources in merge order.
func DefaultSources(l Lister, layer *cache.Layer) []Source {
	return []Source{
		&ArticleSource{Lister: l, Layer: layer},
		&InfografisSource{Lister: l, Layer: layer},
		&TourSource{Lister: l, Layer: layer},
	}
}
