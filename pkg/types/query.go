// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ResourceKind identifies a content listing.
type ResourceKind string

const (
	KindArticle      ResourceKind = "article"
	KindPressRelease ResourceKind = "press-release"
	KindTour         ResourceKind = "tour"
	KindInfografis   ResourceKind = "infografis"
)

// Valid reports whether k is one of the known kinds.
func (k ResourceKind) Valid() bool {
	switch k {
	case KindArticle, KindPressRelease, KindTour, KindInfografis:
		return true
	}
	return false
}

// ContentQuery describes one list request. It is a value: two queries with the
// same fields have the same Key and share cache entries and in-flight fetches.
type ContentQuery struct {
	Kind       ResourceKind
	Search     string
	PageSize   int
	SortBy     string
	SortOrder  string
	CategoryID int
	DateFrom   string
	DateTo     string
	With       string

	// Cursor is the opaque continuation token of the page to fetch.
	Cursor string
}

// WithCursor returns a copy of q addressing the page at cursor.
func (q ContentQuery) WithCursor(cursor string) ContentQuery {
	q.Cursor = cursor
	return q
}

// Params renders the query string sent to the content API. Search is always
// sent, even when empty, so the backend decides what an empty search means.
func (q ContentQuery) Params() url.Values {
	v := url.Values{}
	v.Set("search", q.Search)
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.SortBy != "" {
		v.Set("by", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("order", q.SortOrder)
	}
	if q.CategoryID != 0 {
		v.Set("category", strconv.Itoa(q.CategoryID))
	}
	if q.DateFrom != "" {
		v.Set("from", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("to", q.DateTo)
	}
	if q.With != "" {
		v.Set("with", q.With)
	}
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}
	return v
}

// Key is the serialized identity of q. url.Values.Encode sorts by key, so
// equal queries always produce equal keys.
func (q ContentQuery) Key() string {
	return fmt.Sprintf("%s?%s", q.Kind, q.Params().Encode())
}

// Page is one page of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// HasNext reports whether another page can be requested.
func (p Page[T]) HasNext() bool {
	return p.NextCursor != ""
}

// CursorFromURL extracts the `cursor` parameter of a server-provided next page
// URL. An empty or unparsable URL yields "" (no more pages).
func CursorFromURL(nextPageURL string) string {
	nextPageURL = strings.TrimSpace(nextPageURL)
	if nextPageURL == "" {
		return ""
	}
	u, err := url.Parse(nextPageURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("cursor")
}
