// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
)

var (
	blockTags = map[string]bool{
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"p": true, "div": true, "ul": true, "ol": true,
	}
	skipTags = map[string]bool{
		"img": true, "table": true, "br": true, "hr": true,
		"script": true, "style": true,
	}

	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	inlineSpace    = regexp.MustCompile(`[ \t\r\f\v\x{00a0}]+`)

	strictPolicy = bluemonday.StrictPolicy()
)

// ExtractParagraphs converts press-release HTML into plain-text paragraphs.
// Headings, p, div and lists are blocks; images, tables, br and hr are
// dropped; links keep their text only. Entities are decoded and empty
// paragraphs removed.
func ExtractParagraphs(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		walkText(n, &b)
	}

	var out []string
	for _, p := range paragraphBreak.Split(b.String(), -1) {
		p = tidyLines(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func walkText(n *nethtml.Node, b *strings.Builder) {
	switch n.Type {
	case nethtml.TextNode:
		b.WriteString(inlineSpace.ReplaceAllString(n.Data, " "))
		return
	case nethtml.ElementNode:
		if skipTags[n.Data] {
			return
		}
	}

	block := n.Type == nethtml.ElementNode && blockTags[n.Data]
	if block {
		b.WriteString("\n\n")
	}
	if n.Type == nethtml.ElementNode && n.Data == "li" {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b)
	}
	if block {
		b.WriteString("\n\n")
	}
}

func tidyLines(p string) string {
	lines := strings.Split(p, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// StripTags removes any markup left in a paragraph, e.g. tags that arrived
// entity-encoded in the source HTML.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
