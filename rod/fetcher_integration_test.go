//go:build integration

package rod_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sitechat/sitechat/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Integration_JSRenderedSite(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(25 * time.Second))
	require.NoError(t, err)
	defer fetcher.Close()

	// Squarespace marketing pages render most content client-side, the
	// kind of small-business hosting this fetcher exists for.
	html, err := fetcher.Fetch(ctx, "https://www.squarespace.com")
	require.NoError(t, err)
	assert.NotEmpty(t, html, "expected non-empty HTML response")

	// Verify HTML document structure
	lower := strings.TrimSpace(strings.ToLower(html))
	assert.True(t, strings.HasPrefix(lower, "<!doctype html>") || strings.HasPrefix(lower, "<html"),
		"expected valid HTML document start")
	assert.Contains(t, html, "</head>", "expected closing head tag")
	assert.Contains(t, html, "<body", "expected body tag")
	assert.Contains(t, html, "</html>", "expected closing html tag")

	t.Logf("Fetched %d bytes from squarespace.com", len(html))
}
