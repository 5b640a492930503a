package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of sitechat.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, baseURL string) ([]*sitechat.Page, error)
}

func (c *Crawler) Crawl(ctx context.Context, baseURL string) ([]*sitechat.Page, error) {
	return c.CrawlFn(ctx, baseURL)
}
