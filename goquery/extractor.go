// Package goquery extracts readable text and links from business site
// pages using CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitechat/sitechat"
)

// Ensure Extractor implements sitechat.Extractor at compile time.
var _ sitechat.Extractor = (*Extractor)(nil)

// boilerplateSelector matches elements removed before reading content
// text. Links are collected first, so anchors inside these elements
// still feed the crawl.
const boilerplateSelector = `script, style, nav, footer, header, noscript, iframe, svg, form, ` +
	`[hidden], [aria-hidden="true"], [role="navigation"], [role="banner"]`

// mainContentSelectors are tried in order; the first match wins. The
// whole body is the fallback.
var mainContentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	"#content",
	".content",
	"#main",
}

// Extractor extracts title, readable text, and links from raw HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the HTML fetched from pageURL and returns its title,
// collapsed main-content text, and resolved links.
func (e *Extractor) Extract(pageURL, html string) (*sitechat.ExtractResult, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, sitechat.Errorf(sitechat.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitechat.Errorf(sitechat.EINVALID, "failed to parse HTML: %v", err)
	}

	title := collapseWhitespace(doc.Find("title").First().Text())
	if title == "" {
		title = collapseWhitespace(doc.Find("h1").First().Text())
	}

	links := extractLinks(doc, base)

	// Strip boilerplate only after links and title are captured.
	doc.Find(boilerplateSelector).Remove()

	var content string
	for _, sel := range mainContentSelectors {
		if region := doc.Find(sel).First(); region.Length() > 0 {
			content = region.Text()
			break
		}
	}
	if content == "" {
		content = doc.Find("body").Text()
	}

	return &sitechat.ExtractResult{
		Title: title,
		Text:  collapseWhitespace(content),
		Links: links,
	}, nil
}

// ExtractLinks collects every anchor href from raw HTML in document
// order, resolved against pageURL. It is shared by extractors that
// delegate content extraction elsewhere but still need crawlable links.
func ExtractLinks(pageURL, html string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, sitechat.Errorf(sitechat.EINVALID, "invalid page URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitechat.Errorf(sitechat.EINVALID, "failed to parse HTML: %v", err)
	}
	return extractLinks(doc, base), nil
}

// extractLinks collects every anchor href in document order, resolved
// against the page URL. Non-HTTP schemes, unparseable hrefs, and
// self-references are skipped; duplicates keep their first position.
func extractLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}

// resolveURL resolves a relative href against the page URL. Returns an
// empty string if the href cannot be parsed or resolves back to the
// page itself (anchor-only links). Fragments are stripped.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// collapseWhitespace trims text and folds all whitespace runs into
// single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
