// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// ImageRef is one image to fetch into the archive. Name is fixed when the
// reference is collected, so archive order never depends on fetch timing.
type ImageRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Name  string `json:"name"`
}

// resolveRef makes a relative or protocol-relative reference absolute
// against base. Anything unparsable is returned unchanged.
func resolveRef(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// CollectImageRefs lists the thumbnail, then every <img src> in the body in
// document order, then the attachments, named image_1.jpg onwards. URLs are
// resolved against base, the content API root; an empty base leaves them as
// they are.
func CollectImageRefs(pr types.PressRelease, base string) []ImageRef {
	var baseURL *url.URL
	if u, err := url.Parse(base); err == nil && u.IsAbs() {
		baseURL = u
	}

	var refs []ImageRef
	add := func(title, ref string) {
		refs = append(refs, ImageRef{
			Title: title,
			URL:   resolveRef(baseURL, ref),
			Name:  fmt.Sprintf("image_%d.jpg", len(refs)+1),
		})
	}

	if pr.Thumbnail != "" {
		add("Thumbnail", pr.Thumbnail)
	}

	if strings.TrimSpace(pr.Content) != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(pr.Content)); err == nil {
			n := 0
			doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
				src := strings.TrimSpace(s.AttrOr("src", ""))
				if src == "" {
					return
				}
				n++
				add(fmt.Sprintf("Image %d from content", n), src)
			})
		}
	}

	for i, a := range pr.Attachments {
		title := a.OriginalName
		if title == "" {
			title = fmt.Sprintf("Attachment %d from content", i+1)
		}
		add(title, a.URL)
	}
	return refs
}
