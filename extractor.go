package sitechat

// ExtractResult holds the content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title, from <title> or the first heading.
	Title string

	// Text is the readable page text with boilerplate removed and
	// whitespace collapsed to single spaces.
	Text string

	// Links are absolute same-scheme URLs found on the page, in
	// document order. Collected before boilerplate removal so that
	// navigation links survive.
	Links []string
}

// Extractor extracts readable text and links from HTML pages.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL.
	// Relative links are resolved against pageURL.
	Extract(pageURL, html string) (*ExtractResult, error)
}
