// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// ErrNoMorePages is returned by Pager.Next after the last page.
var ErrNoMorePages = errors.New("no more pages")

// PageFetcher loads one page of a listing.
type PageFetcher[T any] func(ctx context.Context, q types.ContentQuery) (types.Page[T], error)

// Pager walks a cursor-paginated listing one page at a time and keeps every
// page it has seen, in order. Each page goes through the Layer, so two pagers
// on the same query share in-flight page fetches.
type Pager[T any] struct {
	mu     sync.Mutex
	layer  *Layer
	query  types.ContentQuery
	fetch  PageFetcher[T]
	pages  []types.Page[T]
	cursor string
	done   bool
}

// NewPager returns a pager positioned before the first page of q.
func NewPager[T any](layer *Layer, q types.ContentQuery, fetch PageFetcher[T]) *Pager[T] {
	return &Pager[T]{layer: layer, query: q.WithCursor(""), fetch: fetch}
}

// Next fetches and appends the next page. On error nothing is appended and
// the same page is requested again on the following call.
func (p *Pager[T]) Next(ctx context.Context) (types.Page[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return types.Page[T]{}, ErrNoMorePages
	}

	q := p.query.WithCursor(p.cursor)
	page, err := Do(ctx, p.layer, q.Key(), 0, func(ctx context.Context) (types.Page[T], error) {
		return p.fetch(ctx, q)
	})
	if err != nil {
		return types.Page[T]{}, err
	}

	p.pages = append(p.pages, page)
	p.cursor = page.NextCursor
	p.done = !page.HasNext()
	return page, nil
}

// Done reports whether the last page has been fetched.
func (p *Pager[T]) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// HasNext reports whether Next can fetch another page.
func (p *Pager[T]) HasNext() bool { return !p.Done() }

// Pages returns a copy of the fetched pages, first to last.
func (p *Pager[T]) Pages() []types.Page[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]types.Page[T](nil), p.pages...)
}

// Flatten concatenates the items of every fetched page in order.
func (p *Pager[T]) Flatten() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []T
	for _, pg := range p.pages {
		out = append(out, pg.Items...)
	}
	return out
}

// Reset discards fetched pages and starts over from the first page.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = nil
	p.cursor = ""
	p.done = false
}
