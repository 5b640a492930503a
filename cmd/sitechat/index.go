package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	// Preview mode: show sitemap URLs without building anything
	if c.Preview {
		baseURL := c.URL
		if baseURL == "" {
			baseURL = "https://" + cfg.Domain
		}

		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, baseURL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
			return err
		}
		if len(urls) == 0 {
			fmt.Fprintf(deps.Stdout, "No sitemap URLs found for %s. The crawl will discover pages by following links.\n", baseURL)
			return nil
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	meta, built, err := deps.Builder.Ensure(deps.Ctx, cfg.Domain, cfg.SiteName, c.Force)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	if !built {
		fmt.Fprintf(deps.Stdout, "Index for %s already has %d pages and %d chunks. Use --force to rebuild.\n",
			meta.Domain, meta.PageCount, meta.ChunkCount)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Indexed %s: %d pages, %d chunks.\n",
		meta.Domain, meta.PageCount, meta.ChunkCount)
	return nil
}
