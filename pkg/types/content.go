// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the portal backend: content
// records returned by the CMS, query and page values used by the cache layer,
// feature flags, search results, export bundles, weather readings, and the
// configuration structs handed to each component.
package types

import (
	"encoding/json"
	"time"
)

// Category is a content category as returned with `with=category`.
type Category struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// Author is the CMS user that published a record.
type Author struct {
	Name string `json:"name" yaml:"name"`
}

// Attachment is a file attached to a press release.
type Attachment struct {
	URL          string `json:"url" yaml:"url"`
	OriginalName string `json:"original_name" yaml:"original_name"`
}

// Article is a news article.
type Article struct {
	ID          int       `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Slug        string    `json:"slug" yaml:"slug"`
	Content     string    `json:"content,omitempty" yaml:"content,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	CategoryID  string    `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Category    *Category `json:"category,omitempty" yaml:"category,omitempty"`
	PublishedAt string    `json:"published_at,omitempty" yaml:"published_at,omitempty"`
}

// PressRelease is an official press release. Content is raw HTML.
type PressRelease struct {
	ID          int          `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Slug        string       `json:"slug" yaml:"slug"`
	Content     string       `json:"content" yaml:"content"`
	CategoryID  string       `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Category    *Category    `json:"category,omitempty" yaml:"category,omitempty"`
	Status      string       `json:"status,omitempty" yaml:"status,omitempty"`
	PublishedAt string       `json:"published_at" yaml:"published_at"`
	User        Author       `json:"user" yaml:"user"`
	Thumbnail   string       `json:"thumbnail" yaml:"thumbnail"`
	Attachments []Attachment `json:"attachments" yaml:"attachments"`
	VillageID   int          `json:"village_id,omitempty" yaml:"village_id,omitempty"`
}

// PublishedTime parses PublishedAt. The CMS emits either RFC 3339 or
// "2006-01-02 15:04:05"; a zero time is returned for anything else.
func (p PressRelease) PublishedTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, p.PublishedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Tour is a tourism destination listing.
type Tour struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Slug        string `json:"slug" yaml:"slug"`
	Thumbnail   string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// Infografis is an infographic image with caption.
type Infografis struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Meta is the pagination block of a list response.
type Meta struct {
	NextPageURL string `json:"next_page_url" yaml:"next_page_url"`
	PrevPageURL string `json:"prev_page_url,omitempty" yaml:"prev_page_url,omitempty"`
	PerPage     int    `json:"per_page,omitempty" yaml:"per_page,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ListResponse is the envelope of every list endpoint.
type ListResponse[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// ItemResponse is the envelope of every detail endpoint.
type ItemResponse[T any] struct {
	Data T `json:"data"`
}

// Setting is a tenant-scoped key/value configuration record.
type Setting struct {
	ID        int             `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Value     json.RawMessage `json:"value" yaml:"-"`
	VillageID int             `json:"village_id,omitempty" yaml:"village_id,omitempty"`
}

// StaticPage is a CMS-managed HTML page.
type StaticPage struct {
	Title   string `json:"title" yaml:"title"`
	Slug    string `json:"slug" yaml:"slug"`
	Content string `json:"content" yaml:"content"`
}
