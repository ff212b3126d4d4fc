// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResultType is the source a search result came from.
type ResultType string

const (
	ResultArticle    ResultType = "article"
	ResultInfografis ResultType = "infografis"
	ResultTour       ResultType = "tour"
)

// SearchResultItem is the normalized projection of one source record. ID is
// globally unique because it is prefixed with the source type.
type SearchResultItem struct {
	ID          string     `json:"id" yaml:"id"`
	Type        ResultType `json:"type" yaml:"type"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Slug        string     `json:"slug,omitempty" yaml:"slug,omitempty"`
	Href        string     `json:"href,omitempty" yaml:"href,omitempty"`

	// Lightbox is the index into the infografis list to open, or nil when the
	// item navigates by Href instead.
	Lightbox *int `json:"lightbox,omitempty" yaml:"lightbox,omitempty"`
}
