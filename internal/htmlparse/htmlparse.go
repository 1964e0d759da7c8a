// Package htmlparse wraps a parsed HTML document and its base URL with the
// uniform extraction primitives every template and data-type parser is
// built on, grounded on the goquery-based extraction idioms in the
// teacher's internal/scraper/scraper.go.
package htmlparse

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document wraps a goquery document and its resolution base.
type Document struct {
	doc  *goquery.Document
	base *url.URL
	html string
}

// Parse builds a Document from raw HTML and its base URL.
func Parse(html string, base *url.URL) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc, base: base, html: html}, nil
}

// Selection exposes the underlying goquery selection for callers (template
// detectors, data-type parsers) that need operations this package does not
// wrap directly.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// RawHTML returns the original HTML this document was parsed from.
func (d *Document) RawHTML() string {
	return d.html
}

// ExtractTitle returns <title> text, else the first <h1> text, else "".
func (d *Document) ExtractTitle() string {
	if t := strings.TrimSpace(d.doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(d.doc.Find("h1").First().Text())
}

// ExtractMeta tries <meta name=...> then <meta property=...>.
func (d *Document) ExtractMeta(name string) string {
	if v, ok := d.doc.Find("meta[name=" + name + "]").Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := d.doc.Find("meta[property=" + name + "]").Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// ExtractLinks enumerates matches for each selector in order and resolves
// each href to absolute, skipping anchors/mailto/tel/javascript, returning
// a deduplicated list preserving first-occurrence order.
func (d *Document) ExtractLinks(selectors []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, sel := range selectors {
		d.doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			resolved := d.resolveSkippable(href)
			if resolved == "" {
				return
			}
			if _, dup := seen[resolved]; dup {
				return
			}
			seen[resolved] = struct{}{}
			out = append(out, resolved)
		})
	}
	return out
}

func (d *Document) resolveSkippable(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if d.base != nil && !u.IsAbs() {
		u = d.base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

// Resolve resolves a possibly-relative href against the document base.
func (d *Document) Resolve(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if d.base != nil && !u.IsAbs() {
		u = d.base.ResolveReference(u)
	}
	return u.String()
}

// ExtractText returns the first selector whose match yields non-empty
// text, whitespace collapsed.
func (d *Document) ExtractText(selectors []string) string {
	for _, sel := range selectors {
		text := collapseWhitespace(d.doc.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// CountWords tokenizes the first content-area selector hit on whitespace.
func (d *Document) CountWords(contentSelectors []string) int {
	text := d.ExtractText(contentSelectors)
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// ExtractCategories unions text across all matches of all tag/category
// selectors, deduplicated, preserving first-occurrence order.
func (d *Document) ExtractCategories(selectors []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, sel := range selectors {
		d.doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return
			}
			if _, dup := seen[text]; dup {
				return
			}
			seen[text] = struct{}{}
			out = append(out, text)
		})
	}
	return out
}

// FirstMatchText returns the text of the first selector (in order) that
// yields a non-empty result, implementing the "selector lookup is ordered,
// first non-empty wins" rule of §4.7/§4.8 for an arbitrary field.
func (d *Document) FirstMatchText(selectors []string) (string, bool) {
	for _, sel := range selectors {
		text := collapseWhitespace(d.doc.Find(sel).First().Text())
		if text != "" {
			return text, true
		}
	}
	return "", false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
