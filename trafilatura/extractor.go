// Package trafilatura extracts readable text from HTML using the
// go-trafilatura content extraction library. It is an alternative to
// the goquery extractor for sites whose markup defeats CSS-selector
// based extraction.
package trafilatura

import (
	"errors"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/sitechat/sitechat"
	sitegoquery "github.com/sitechat/sitechat/goquery"
)

// Ensure Extractor implements sitechat.Extractor at compile time.
var _ sitechat.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura for content extraction. Link
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

	opts := trafilatura.Options{
		EnableFallback: true,
		OriginalURL:    original,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &sitechat.ExtractResult{
		Title: collapseWhitespace(result.Metadata.Title),
		Text:  collapseWhitespace(result.ContentText),
		Links: links,
	}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
