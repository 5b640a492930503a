package trafilatura_test

import (
	"testing"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements sitechat.Extractor at compile time.
var _ sitechat.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>About Us - Acme Plumbing</title>
<meta property="og:title" content="About Acme Plumbing">
</head>
<body>
<nav><a href="/">Home</a><a href="/services">Services</a></nav>
<main>
<h1>About Acme Plumbing</h1>
<p>Acme Plumbing has served the Springfield area for over twenty years,
handling everything from routine drain cleaning to full repiping jobs.</p>
<p>Our licensed technicians are available around the clock for emergency
calls, and every repair is backed by a twelve month workmanship guarantee.</p>
</main>
<footer>Copyright 2024 Acme Plumbing</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://acmeplumbing.com/about", html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.Text, "served the Springfield area")
		assert.Contains(t, result.Text, "twelve month workmanship guarantee")
	})

	t.Run("removes navigation and footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Services - Acme Plumbing</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
<li><a href="/services">Services</a></li>
</ul>
</nav>
<article>
<h1>Our Services</h1>
<p>We install and repair water heaters, sump pumps, and garbage
disposals for homes across the county.</p>
<p>Commercial clients can schedule recurring maintenance visits at a
discounted hourly rate.</p>
</article>
<footer>
<p>Copyright 2024 Acme Plumbing Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://acmeplumbing.com/services", html)

		require.NoError(t, err)
		assert.Contains(t, result.Text, "water heaters")
		assert.NotContains(t, result.Text, "Copyright 2024 Acme Plumbing Example Corp")
	})

	t.Run("collects links from the raw document", func(t *testing.T) {
		t.Parallel()

		// Navigation is boilerplate to the text extractor but the crawl
		// still needs its links.
		html := `<!DOCTYPE html>
<html>
<head><title>Home - Acme Plumbing</title></head>
<body>
<nav>
<a href="/about">About</a>
<a href="/contact">Contact</a>
<a href="mailto:office@acmeplumbing.com">Email us</a>
</nav>
<main>
<h1>Acme Plumbing</h1>
<p>Fast, friendly plumbing repairs for Springfield homeowners, with
upfront pricing and same day scheduling for most jobs.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://acmeplumbing.com/", html)

		require.NoError(t, err)
		assert.Contains(t, result.Links, "https://acmeplumbing.com/about")
		assert.Contains(t, result.Links, "https://acmeplumbing.com/contact")
		for _, link := range result.Links {
			assert.NotContains(t, link, "mailto:")
		}
	})

	t.Run("collapses whitespace in extracted text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Hours - Acme Plumbing</title></head>
<body>
<main>
<h1>Business Hours</h1>
<p>We answer    the phone
		from eight in the morning until six in the evening, Monday through
Saturday, and keep an on call technician available for emergencies.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://acmeplumbing.com/hours", html)

		require.NoError(t, err)
		assert.Contains(t, result.Text, "We answer the phone from eight in the morning")
		assert.NotContains(t, result.Text, "\n")
		assert.NotContains(t, result.Text, "\t")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("https://acmeplumbing.com/", "")

		require.Error(t, err)
	})

	t.Run("returns invalid error for unparseable page URL", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("://missing-scheme", "<html><body><p>Text</p></body></html>")

		require.Error(t, err)
		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content about pipe fitting work.</p></body></html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://acmeplumbing.com/", html)

		require.NoError(t, err)
		assert.Contains(t, result.Text, "Simple content")
	})
}
