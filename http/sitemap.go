package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/sitechat/sitechat"
)

// MaxSitemapVisits caps how many distinct sitemap documents a single
// discovery run will fetch. Sitemap indexes can nest arbitrarily (or
// cyclically), so the walk is breadth-first with a hard stop.
const MaxSitemapVisits = 40

// Ensure SitemapService implements sitechat.SitemapService.
var _ sitechat.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs finds page URLs from a site's sitemaps. It tries the
// conventional /sitemap.xml and WordPress /wp-sitemap.xml locations,
// follows nested sitemap references breadth-first up to
// MaxSitemapVisits documents, and returns every <loc> entry that is
// not itself a sitemap. A site whose sitemaps are missing, broken, or
// unreachable yields an empty slice, not an error.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	root := &url.URL{Scheme: base.Scheme, Host: base.Host}
	queue := []string{
		root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String(),
		root.ResolveReference(&url.URL{Path: "/wp-sitemap.xml"}).String(),
	}

	visited := make(map[string]bool)
	seenPages := make(map[string]bool)
	pages := []string{}

	for len(queue) > 0 && len(visited) < MaxSitemapVisits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sitemapURL := queue[0]
		queue = queue[1:]
		if visited[sitemapURL] {
			continue
		}
		visited[sitemapURL] = true

		locs, ok := s.fetchSitemap(ctx, sitemapURL)
		if !ok {
			continue
		}

		for _, loc := range locs {
			if isSitemapURL(loc) {
				if !visited[loc] {
					queue = append(queue, loc)
				}
				continue
			}
			if !seenPages[loc] {
				seenPages[loc] = true
				pages = append(pages, loc)
			}
		}
	}

	return pages, nil
}

// fetchSitemap retrieves and parses one sitemap document, returning
// the text of every <loc> element in document order. Any failure
// (network, non-2xx, non-XML content type, malformed XML) reports
// ok=false so the caller moves on.
func (s *SitemapService) fetchSitemap(ctx context.Context, sitemapURL string) ([]string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "xml") {
		return nil, false
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, false
	}

	var locs []string
	for _, el := range doc.FindElements("//loc") {
		if text := strings.TrimSpace(el.Text()); text != "" {
			locs = append(locs, text)
		}
	}
	return locs, true
}

// isSitemapURL reports whether a <loc> entry points at another sitemap
// rather than a page.
func isSitemapURL(loc string) bool {
	lower := strings.ToLower(loc)
	return strings.HasSuffix(lower, ".xml") || strings.Contains(lower, "sitemap")
}
