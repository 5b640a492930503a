package sitechat

import (
	"context"
	"time"
)

// IndexMeta describes the indexed state of a domain. One record per
// domain, upserted after every successful rebuild. A zero ChunkCount
// means the domain has no usable index.
type IndexMeta struct {
	Domain     string    `json:"domain"`
	SiteName   string    `json:"siteName"`
	PageCount  int       `json:"pageCount"`
	ChunkCount int       `json:"chunkCount"`
	IndexedAt  time.Time `json:"indexedAt"`
}

// IndexService persists chunks and index metadata keyed by domain.
type IndexService interface {
	// ReplaceChunks atomically replaces a domain's chunk set with chunks
	// split from the given pages and upserts the domain's IndexMeta. A
	// partial failure leaves the previous chunk set intact.
	// Returns EINDEXEMPTY if the pages yield no chunks.
	ReplaceChunks(ctx context.Context, domain, siteName string, pages []*Page) (*IndexMeta, error)

	// FindChunksByDomain returns all chunks for a domain ordered by
	// (url, chunkId). A domain with no index yields an empty slice.
	FindChunksByDomain(ctx context.Context, domain string) ([]*Chunk, error)

	// FindIndexMeta retrieves index metadata for a domain.
	// Returns ENOTFOUND if the domain has never been indexed.
	FindIndexMeta(ctx context.Context, domain string) (*IndexMeta, error)
}

// IndexBuilder orchestrates the crawl, chunk, and fact pipeline for a site.
type IndexBuilder interface {
	// Build runs a full rebuild: crawl the domain, extract facts, and
	// replace the stored index. Returns ECRAWLEMPTY if the crawl yields
	// no pages and EINDEXEMPTY if the pages yield no chunks; neither
	// leaves a partial index behind.
	Build(ctx context.Context, domain, siteName string) (*IndexMeta, error)

	// Ensure returns the existing index metadata unless the domain has
	// no usable index or force is set, in which case it rebuilds.
	// Reports whether a build ran.
	Ensure(ctx context.Context, domain, siteName string, force bool) (*IndexMeta, bool, error)
}

// Index build states reported to the serving layer.
const (
	StateIdle     = "idle"
	StateBuilding = "building"
	StateReady    = "ready"
	StateFailed   = "failed"
)

// IndexStatus reports the build state of a domain's index.
type IndexStatus struct {
	Domain     string    `json:"domain"`
	State      string    `json:"state"`
	PageCount  int       `json:"pageCount,omitempty"`
	ChunkCount int       `json:"chunkCount,omitempty"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
