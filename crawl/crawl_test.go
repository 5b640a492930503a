package crawl_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/crawl"
	"github.com/sitechat/sitechat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "Acme Plumbing has served Springfield homeowners with repairs, installations, and emergency callouts since 1994."

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("visits built-in seed paths when no sitemap is configured", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var fetched []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched = append(fetched, url)
					mu.Unlock()
					return "", errors.New("HTTP 404")
				},
			},
			Extractor:   &mock.Extractor{},
			Concurrency: 2,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, pages)
		assert.ElementsMatch(t, []string{
			"https://example.com/",
			"https://example.com/about",
			"https://example.com/about-us",
			"https://example.com/contact",
			"https://example.com/contact-us",
			"https://example.com/services",
			"https://example.com/about/team",
		}, fetched)
	})

	t.Run("returns pages with extracted title and content", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/" {
						return "<html><body>Acme</body></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{Title: "Acme Plumbing", Text: sampleText}, nil
				},
			},
			Concurrency: 1,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "https://example.com/", pages[0].URL)
		assert.Equal(t, "Acme Plumbing", pages[0].Title)
		assert.Equal(t, sampleText, pages[0].Content)
	})

	t.Run("follows links discovered on fetched pages", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					switch url {
					case "https://example.com/", "https://example.com/pricing":
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(pageURL, _ string) (*sitechat.ExtractResult, error) {
					if pageURL == "https://example.com/" {
						return &sitechat.ExtractResult{
							Title: "Home",
							Text:  sampleText,
							Links: []string{"https://example.com/pricing"},
						}, nil
					}
					return &sitechat.ExtractResult{Title: "Pricing", Text: sampleText}, nil
				},
			},
			Concurrency: 2,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		urls := pageURLs(pages)
		assert.Contains(t, urls, "https://example.com/")
		assert.Contains(t, urls, "https://example.com/pricing")
	})

	t.Run("merges sitemap URLs into the crawl", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return []string{"https://example.com/hidden/specials"}, nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/hidden/specials" {
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{Title: "Specials", Text: sampleText}, nil
				},
			},
			Concurrency: 4,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "https://example.com/hidden/specials", pages[0].URL)
	})

	t.Run("continues with seeds when sitemap discovery fails", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
					return nil, errors.New("connection refused")
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/" {
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{Title: "Home", Text: sampleText}, nil
				},
			},
			Concurrency: 2,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		require.Len(t, pages, 1)
	})

	t.Run("drops pages with too little text but follows their links", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					switch url {
					case "https://example.com/", "https://example.com/history":
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(pageURL, _ string) (*sitechat.ExtractResult, error) {
					if pageURL == "https://example.com/" {
						return &sitechat.ExtractResult{
							Title: "Home",
							Text:  "Welcome.",
							Links: []string{"https://example.com/history"},
						}, nil
					}
					return &sitechat.ExtractResult{Title: "Our History", Text: sampleText}, nil
				},
			},
			Concurrency: 1,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "https://example.com/history", pages[0].URL)
	})

	t.Run("skips links pointing outside the site origin", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var fetched []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched = append(fetched, url)
					mu.Unlock()
					if url == "https://example.com/" {
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{
						Title: "Home",
						Text:  sampleText,
						Links: []string{
							"https://elsewhere.com/about",
							"https://example.com/team-bios",
						},
					}, nil
				},
			},
			Concurrency: 1,
		}

		_, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Contains(t, fetched, "https://example.com/team-bios")
		assert.NotContains(t, fetched, "https://elsewhere.com/about")
	})

	t.Run("skips links to binary assets", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var fetched []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched = append(fetched, url)
					mu.Unlock()
					if url == "https://example.com/" {
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{
						Title: "Home",
						Text:  sampleText,
						Links: []string{
							"https://example.com/brochure.pdf",
							"https://example.com/logo.png",
							"https://example.com/faq",
						},
					}, nil
				},
			},
			Concurrency: 1,
		}

		_, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Contains(t, fetched, "https://example.com/faq")
		assert.NotContains(t, fetched, "https://example.com/brochure.pdf")
		assert.NotContains(t, fetched, "https://example.com/logo.png")
	})

	t.Run("fetches each URL once despite duplicate and decorated links", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		counts := map[string]int{}
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					counts[url]++
					mu.Unlock()
					switch url {
					case "https://example.com/", "https://example.com/menu":
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(pageURL, _ string) (*sitechat.ExtractResult, error) {
					if pageURL == "https://example.com/" {
						return &sitechat.ExtractResult{
							Title: "Home",
							Text:  sampleText,
							Links: []string{
								"https://example.com/",
								"https://example.com/menu#hours",
								"https://example.com/menu?utm_source=qr",
								"https://example.com/menu/",
							},
						}, nil
					}
					return &sitechat.ExtractResult{Title: "Menu", Text: sampleText}, nil
				},
			},
			Concurrency: 1,
		}

		_, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, 1, counts["https://example.com/"])
		assert.Equal(t, 1, counts["https://example.com/menu"])
	})

	t.Run("prioritizes about and contact links within a batch", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var fetched []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched = append(fetched, url)
					mu.Unlock()
					return "<html></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(pageURL, _ string) (*sitechat.ExtractResult, error) {
					if pageURL == "https://example.com/" {
						return &sitechat.ExtractResult{
							Title: "Home",
							Text:  sampleText,
							Links: []string{
								"https://example.com/gallery",
								"https://example.com/contact-plumbers",
							},
						}, nil
					}
					return &sitechat.ExtractResult{Title: "Page", Text: sampleText}, nil
				},
			},
			Concurrency: 1,
		}

		_, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		ci := slices.Index(fetched, "https://example.com/contact-plumbers")
		gi := slices.Index(fetched, "https://example.com/gallery")
		require.NotEqual(t, -1, ci)
		require.NotEqual(t, -1, gi)
		assert.Less(t, ci, gi, "contact link should be scheduled before the gallery link")
	})

	t.Run("stops when the page budget is reached", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					calls.Add(1)
					return "<html></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{Title: "Page", Text: sampleText}, nil
				},
			},
			MaxPages:    2,
			Concurrency: 4,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Len(t, pages, 2)
		// One full batch runs before the budget check stops the loop.
		assert.EqualValues(t, 4, calls.Load())
	})

	t.Run("truncates page content to the maximum length", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/" {
						return "<html></html>", nil
					}
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{Title: "Home", Text: strings.Repeat("é", 9000)}, nil
				},
			},
			Concurrency: 1,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, crawl.MaxContentLen, utf8.RuneCountInString(pages[0].Content))
	})

	t.Run("waits on the rate limiter for each fetch", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var waited []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("HTTP 404")
				},
			},
			Extractor: &mock.Extractor{},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					mu.Lock()
					waited = append(waited, domain)
					mu.Unlock()
					return nil
				},
			},
			Concurrency: 2,
		}

		_, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		require.Len(t, waited, 7)
		for _, domain := range waited {
			assert.Equal(t, "example.com", domain)
		}
	})

	t.Run("applies the per-fetch timeout", func(t *testing.T) {
		t.Parallel()

		var sawDeadline atomic.Bool
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, _ string) (string, error) {
					_, ok := ctx.Deadline()
					sawDeadline.Store(ok)
					return "", errors.New("HTTP 404")
				},
			},
			Extractor:    &mock.Extractor{},
			FetchTimeout: 5 * time.Second,
			Concurrency:  1,
			MaxPages:     1,
		}

		_, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.True(t, sawDeadline.Load())
	})

	t.Run("honors extra seed URLs", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var fetched []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched = append(fetched, url)
					mu.Unlock()
					return "", errors.New("HTTP 404")
				},
			},
			Extractor:   &mock.Extractor{},
			ExtraSeeds:  []string{"/specials/holiday", "https://example.com/booking"},
			Concurrency: 2,
		}

		_, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Contains(t, fetched, "https://example.com/specials/holiday")
		assert.Contains(t, fetched, "https://example.com/booking")
	})

	t.Run("returns no pages when no page yields enough text", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(_, _ string) (*sitechat.ExtractResult, error) {
					return &sitechat.ExtractResult{Title: "Stub", Text: "OK"}, nil
				},
			},
			Concurrency: 2,
		}

		pages, err := c.Crawl(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, pages)
	})

	t.Run("rejects a base URL without scheme or host", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: &mock.Fetcher{}, Extractor: &mock.Extractor{}}

		_, err := c.Crawl(context.Background(), "example.com")

		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := &crawl.Crawler{Fetcher: &mock.Fetcher{}, Extractor: &mock.Extractor{}}

		pages, err := c.Crawl(ctx, "https://example.com")

		assert.Nil(t, pages)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func pageURLs(pages []*sitechat.Page) []string {
	urls := make([]string, len(pages))
	for i, p := range pages {
		urls[i] = p.URL
	}
	return urls
}
