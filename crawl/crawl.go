// Package crawl provides site crawling orchestration. It coordinates
// seeding, sitemap discovery, batched parallel fetching, and link
// expansion under a page budget.
package crawl

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sitechat/sitechat"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the number of URLs fetched per batch.
	DefaultConcurrency = 4

	// MinPageTextLen is the minimum extracted text length, in runes,
	// for a page to count. Shorter pages are redirect or interstitial
	// noise.
	MinPageTextLen = 20

	// MaxContentLen caps stored page content, in runes.
	MaxContentLen = 8000

	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// seedPaths are relative paths tried on every site before any link
// discovery. Small-business sites keep their identity on these pages
// even when nothing links to them prominently.
var seedPaths = []string{
	"/",
	"/about",
	"/about-us",
	"/contact",
	"/contact-us",
	"/services",
	"/about/team",
}

// assetExtensions are path extensions that never contain page text.
var assetExtensions = map[string]bool{
	".avif": true, ".css": true, ".doc": true, ".docx": true,
	".eot": true, ".gif": true, ".gz": true, ".ico": true,
	".jpeg": true, ".jpg": true, ".js": true, ".json": true,
	".mov": true, ".mp3": true, ".mp4": true, ".pdf": true,
	".png": true, ".ppt": true, ".pptx": true, ".rar": true,
	".svg": true, ".tar": true, ".ttf": true, ".wav": true,
	".webm": true, ".webp": true, ".woff": true, ".woff2": true,
	".xls": true, ".xlsx": true, ".xml": true, ".zip": true,
}

// Ensure Crawler implements sitechat.Crawler at compile time.
var _ sitechat.Crawler = (*Crawler)(nil)

// Crawler walks a single site breadth-first and returns the pages that
// yielded usable text. Individual page failures reduce coverage but
// never fail the crawl.
type Crawler struct {
	Fetcher     sitechat.Fetcher
	Extractor   sitechat.Extractor
	Sitemaps    sitechat.SitemapService
	RateLimiter sitechat.DomainLimiter

	// MaxPages bounds the number of returned pages. Zero means unbounded.
	MaxPages int

	// Concurrency is the number of URLs fetched per batch.
	// Defaults to DefaultConcurrency.
	Concurrency int

	// FetchTimeout bounds each page fetch. Zero leaves the fetcher's
	// own timeout in charge.
	FetchTimeout time.Duration

	// ExtraSeeds are operator-supplied URLs queued alongside the
	// built-in seeds. Relative values are resolved against the base URL.
	ExtraSeeds []string
}

// fetchOutcome holds the result of fetching one URL. A nil page with
// non-nil links means the page was fetched but its text was too short
// to keep; its links still feed the frontier.
type fetchOutcome struct {
	page  *sitechat.Page
	links []string
}

// Crawl visits the site rooted at baseURL breadth-first: seeds and
// sitemap URLs first, then links discovered along the way, batch by
// batch, until the frontier is empty or the page budget is reached.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) ([]*sitechat.Page, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, sitechat.Errorf(sitechat.EINVALID, "invalid base URL: %v", err)
	}
	if base.Host == "" {
		return nil, sitechat.Errorf(sitechat.EINVALID, "base URL %q has no host", baseURL)
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	c.seed(frontier, base)

	if c.Sitemaps != nil {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, baseURL)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Discovery failures never fail the crawl; the seeds remain.
		for _, raw := range urls {
			if norm, ok := normalizeURL(base, raw); ok {
				frontier.Push(norm)
			}
		}
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var pages []*sitechat.Page

	for frontier.Len() > 0 {
		if c.MaxPages > 0 && len(pages) >= c.MaxPages {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch := popBatch(frontier, concurrency)

		outcomes := make([]*fetchOutcome, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, pageURL := range batch {
			g.Go(func() error {
				outcomes[i] = c.fetchOne(gctx, base, pageURL)
				return nil
			})
		}
		_ = g.Wait()

		// Collect surviving pages in batch order, then enqueue what the
		// batch discovered.
		var discovered []string
		for _, out := range outcomes {
			if out == nil {
				continue
			}
			if out.page != nil {
				pages = append(pages, out.page)
			}
			discovered = append(discovered, out.links...)
		}

		enqueueDiscovered(frontier, base, discovered)
	}

	if c.MaxPages > 0 && len(pages) > c.MaxPages {
		pages = pages[:c.MaxPages]
	}

	return pages, nil
}

// seed queues the crawl starting points: the site root, the built-in
// high-value paths, and any operator-supplied extras.
func (c *Crawler) seed(frontier *Frontier, base *url.URL) {
	for _, p := range seedPaths {
		ref := base.ResolveReference(&url.URL{Path: p})
		if norm, ok := normalizeURL(base, ref.String()); ok {
			frontier.Push(norm)
		}
	}
	for _, extra := range c.ExtraSeeds {
		ref, err := url.Parse(strings.TrimSpace(extra))
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if norm, ok := normalizeURL(base, resolved.String()); ok {
			frontier.Push(norm)
		}
	}
}

// fetchOne fetches and extracts a single URL. Failures of any kind
// yield nil; the page is simply not counted.
func (c *Crawler) fetchOne(ctx context.Context, base *url.URL, pageURL string) *fetchOutcome {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, base.Host); err != nil {
			return nil
		}
	}

	if c.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.FetchTimeout)
		defer cancel()
	}

	html, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil
	}

	extracted, err := c.Extractor.Extract(pageURL, html)
	if err != nil {
		return nil
	}

	out := &fetchOutcome{links: extracted.Links}

	text := extracted.Text
	if utf8.RuneCountInString(text) < MinPageTextLen {
		return out
	}

	if runes := []rune(text); len(runes) > MaxContentLen {
		text = string(runes[:MaxContentLen])
	}

	out.page = &sitechat.Page{
		URL:     pageURL,
		Title:   extracted.Title,
		Content: text,
	}
	return out
}

// popBatch pops up to n URLs from the frontier.
func popBatch(frontier *Frontier, n int) []string {
	var batch []string
	for len(batch) < n {
		u, ok := frontier.Pop()
		if !ok {
			break
		}
		batch = append(batch, u)
	}
	return batch
}

// enqueueDiscovered normalizes and queues links found by a batch,
// about/contact/services paths ahead of the rest so a budget-limited
// crawl reaches them first.
func enqueueDiscovered(frontier *Frontier, base *url.URL, links []string) {
	var rest []string
	for _, raw := range links {
		norm, ok := normalizeURL(base, raw)
		if !ok {
			continue
		}
		if isHighValuePath(norm) {
			frontier.Push(norm)
		} else {
			rest = append(rest, norm)
		}
	}
	for _, u := range rest {
		frontier.Push(u)
	}
}

// isHighValuePath reports whether a URL looks like an about, contact,
// or services page.
func isHighValuePath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	return strings.Contains(p, "about") ||
		strings.Contains(p, "contact") ||
		strings.Contains(p, "service")
}

// normalizeURL canonicalizes a URL for crawling: fragment and query
// stripped, scheme and host lowercased, trailing slash trimmed on
// non-root paths. Returns false for URLs out of crawl scope: other
// origins, non-HTTP schemes, and binary/asset extensions.
func normalizeURL(base *url.URL, raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	if assetExtensions[strings.ToLower(path.Ext(u.Path))] {
		return "", false
	}

	p := u.Path
	if p != "/" {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		p = "/"
	}

	norm := &url.URL{
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Host),
		Path:   p,
	}
	return norm.String(), true
}
