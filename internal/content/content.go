// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content wraps a fetched page as an immutable, already-parsed
// node tree. Scrapers query it with CSS selectors and never touch the raw
// HTML again after parsing.
package content

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tree is the parsed content of a single page, tagged with the URL it was
// loaded from so relative references can be made absolute.
type Tree struct {
	doc *goquery.Document

	// URL is the address the page was fetched from, after redirects.
	URL string
}

// Parse reads HTML from r into a Tree. baseURL is the address the page was
// fetched from.
func Parse(r io.Reader, baseURL string) (*Tree, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Tree{doc: doc, URL: baseURL}, nil
}

// ParseString parses an HTML string, mainly for tests and fixtures.
func ParseString(html, baseURL string) (*Tree, error) {
	return Parse(strings.NewReader(html), baseURL)
}

// Find returns all nodes matching the CSS selector, in document order.
func (t *Tree) Find(selector string) *goquery.Selection {
	return t.doc.Find(selector)
}

// First returns the first node matching any of the selectors, trying them
// in order. ok is false when none match.
func (t *Tree) First(selectors ...string) (*goquery.Selection, bool) {
	for _, sel := range selectors {
		if s := t.doc.Find(sel).First(); s.Length() > 0 {
			return s, true
		}
	}
	return nil, false
}

// Has reports whether any node matches the selector.
func (t *Tree) Has(selector string) bool {
	return t.doc.Find(selector).Length() > 0
}

// AbsoluteURL resolves ref against the tree's page URL. Protocol-relative
// references ("//host/path") get the page's scheme. Empty or data: refs
// are returned unchanged.
func (t *Tree) AbsoluteURL(ref string) string {
	return ResolveURL(t.URL, ref)
}

// ResolveURL resolves ref against base. It tolerates an empty base, in
// which case only already-absolute refs survive.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		if strings.HasPrefix(ref, "//") {
			return "https:" + ref
		}
		return ref
	}
	return b.ResolveReference(u).String()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CollapseSpace collapses runs of whitespace (including newlines from
// pretty-printed markup and non-breaking spaces) into single spaces
// without trimming the ends.
func CollapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return whitespaceRun.ReplaceAllString(s, " ")
}

// CleanText collapses whitespace and trims the ends.
func CleanText(s string) string {
	return strings.TrimSpace(CollapseSpace(s))
}

// Text returns the selection's text content with whitespace normalized.
func Text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return CleanText(sel.Text())
}

// FirstAttr returns the first non-empty attribute among names. Lazy-load
// markup often carries the real image URL in a data attribute and a
// placeholder in src, so callers list data attributes first.
func FirstAttr(sel *goquery.Selection, names ...string) string {
	if sel == nil {
		return ""
	}
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
