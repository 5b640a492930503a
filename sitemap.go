package sitechat

import "context"

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds page URLs from a site's sitemaps, trying the
	// well-known sitemap locations and resolving sitemap indexes
	// recursively. A site without a sitemap yields no URLs and no
	// error.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
