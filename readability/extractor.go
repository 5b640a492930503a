// Package readability extracts readable text from HTML using the
// go-readability port of Mozilla's Readability. It suits article-heavy
// sites where a single main content block dominates the page.
package readability

import (
	"errors"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/sitechat/sitechat"
	sitegoquery "github.com/sitechat/sitechat/goquery"
)

// Ensure Extractor implements sitechat.Extractor at compile time.
var _ sitechat.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability for content extraction. Link
// collection still runs over the raw document so navigation links
// survive for the crawl.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML fetched from pageURL.
func (e *Extractor) Extract(pageURL, rawHTML string) (*sitechat.ExtractResult, error) {
	if rawHTML == "" {
		return nil, errors.New("empty HTML input")
	}

	original, err := url.Parse(pageURL)
	if err != nil {
		return nil, sitechat.Errorf(sitechat.EINVALID, "invalid page URL: %v", err)
	}

	links, err := sitegoquery.ExtractLinks(pageURL, rawHTML)
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), original)
	if err != nil {
		return nil, err
	}

	return &sitechat.ExtractResult{
		Title: collapseWhitespace(article.Title),
		Text:  collapseWhitespace(article.TextContent),
		Links: links,
	}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
