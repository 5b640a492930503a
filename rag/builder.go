package rag

import (
	"context"

	"github.com/sitechat/sitechat"
)

// Compile-time interface verification.
var _ sitechat.IndexBuilder = (*Builder)(nil)

// Builder implements sitechat.IndexBuilder. A rebuild crawls the site,
// replaces the stored chunk set, and refreshes the extracted facts.
type Builder struct {
	Crawler sitechat.Crawler
	Index   sitechat.IndexService
	Facts   sitechat.FactsService

	// BaseURL overrides the https://{domain} crawl root, for sites
	// served over plain HTTP or from a different host.
	BaseURL string
}

// NewBuilder creates a Builder over the given crawler and stores.
func NewBuilder(crawler sitechat.Crawler, index sitechat.IndexService, facts sitechat.FactsService) *Builder {
	return &Builder{
		Crawler: crawler,
		Index:   index,
		Facts:   facts,
	}
}

// Build runs a full rebuild for the domain. The chunk replacement is
// atomic, so a failed crawl or an empty page set never clobbers a
// previously good index.
func (b *Builder) Build(ctx context.Context, domain, siteName string) (*sitechat.IndexMeta, error) {
	if domain == "" {
		return nil, sitechat.Errorf(sitechat.EINVALID, "domain required")
	}

	baseURL := b.BaseURL
	if baseURL == "" {
		baseURL = "https://" + domain
	}

	pages, err := b.Crawler.Crawl(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, sitechat.Errorf(sitechat.ECRAWLEMPTY, "no pages scraped from %s", baseURL)
	}

	meta, err := b.Index.ReplaceChunks(ctx, domain, siteName, pages)
	if err != nil {
		return nil, err
	}

	facts := sitechat.ExtractFacts(pages)
	if err := b.Facts.PutFacts(ctx, domain, facts); err != nil {
		return nil, err
	}

	return meta, nil
}

// Ensure returns the existing index metadata unless the domain has no
// usable index or force is set, in which case it rebuilds. The second
// return reports whether a build ran.
func (b *Builder) Ensure(ctx context.Context, domain, siteName string, force bool) (*sitechat.IndexMeta, bool, error) {
	if !force {
		meta, err := b.Index.FindIndexMeta(ctx, domain)
		if err != nil && sitechat.ErrorCode(err) != sitechat.ENOTFOUND {
			return nil, false, err
		}
		if meta != nil && meta.ChunkCount > 0 {
			return meta, false, nil
		}
	}

	meta, err := b.Build(ctx, domain, siteName)
	if err != nil {
		return nil, false, err
	}
	return meta, true, nil
}
