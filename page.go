package sitechat

import "context"

// Page represents a crawled page reduced to its readable text.
type Page struct {
	URL     string
	Title   string
	Content string
}

// Crawler fetches a site's pages up to a configured page budget.
// Implementations hide frontier management, rate limiting, and
// sitemap discovery.
type Crawler interface {
	// Crawl visits the site rooted at baseURL and returns the pages
	// that yielded usable text. Returns at most the configured number
	// of pages.
	Crawl(ctx context.Context, baseURL string) ([]*Page, error)
}
