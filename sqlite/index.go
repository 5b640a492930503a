package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sitechat/sitechat"
)

// Compile-time interface verification.
var _ sitechat.IndexService = (*IndexService)(nil)

// IndexService implements sitechat.IndexService using SQLite.
type IndexService struct {
	db *DB

	// ChunkSize and ChunkOverlap control how page text is split.
	ChunkSize    int
	ChunkOverlap int
}

// NewIndexService creates a new IndexService with default chunking
// parameters.
func NewIndexService(db *DB) *IndexService {
	return &IndexService{
		db:           db,
		ChunkSize:    sitechat.DefaultChunkSize,
		ChunkOverlap: sitechat.DefaultChunkOverlap,
	}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// ReplaceChunks atomically replaces a domain's chunk set with chunks
// split from pages and upserts the domain's index metadata. The
// previous chunk set stays intact when anything fails.
func (s *IndexService) ReplaceChunks(ctx context.Context, domain, siteName string, pages []*sitechat.Page) (*sitechat.IndexMeta, error) {
	if domain == "" {
		return nil, sitechat.Errorf(sitechat.EINVALID, "domain required")
	}

	chunks, pageCount := s.buildChunks(domain, pages)
	if len(chunks) == 0 {
		return nil, sitechat.Errorf(sitechat.EINDEXEMPTY, "no indexable text for domain %s", domain)
	}

	meta := &sitechat.IndexMeta{
		Domain:     domain,
		SiteName:   siteName,
		PageCount:  pageCount,
		ChunkCount: len(chunks),
		IndexedAt:  time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE domain = ?", domain); err != nil {
		return nil, err
	}

	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, domain, url, title, chunk_id, content, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, chunk.ID, chunk.Domain, chunk.URL, chunk.Title, chunk.ChunkID, chunk.Content, chunk.ContentHash); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO index_meta (domain, site_name, page_count, chunk_count, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			site_name = excluded.site_name,
			page_count = excluded.page_count,
			chunk_count = excluded.chunk_count,
			indexed_at = excluded.indexed_at
	`, meta.Domain, meta.SiteName, meta.PageCount, meta.ChunkCount,
		meta.IndexedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return meta, nil
}

// buildChunks splits page text into persistable chunks. Pages without
// text are skipped; chunk IDs restart at zero on every page.
func (s *IndexService) buildChunks(domain string, pages []*sitechat.Page) ([]*sitechat.Chunk, int) {
	var chunks []*sitechat.Chunk
	pageCount := 0
	for _, page := range pages {
		if strings.TrimSpace(page.Content) == "" {
			continue
		}
		pageCount++
		for i, part := range sitechat.SplitText(page.Content, s.ChunkSize, s.ChunkOverlap) {
			chunks = append(chunks, &sitechat.Chunk{
				ID:          uuid.New().String(),
				Domain:      domain,
				URL:         page.URL,
				Title:       page.Title,
				ChunkID:     i,
				Content:     part,
				ContentHash: hashContent(part),
			})
		}
	}
	return chunks, pageCount
}

// FindChunksByDomain returns all chunks for a domain ordered by URL and
// chunk position. A domain with no index yields an empty slice.
func (s *IndexService) FindChunksByDomain(ctx context.Context, domain string) ([]*sitechat.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, domain, url, title, chunk_id, content, content_hash
		FROM chunks
		WHERE domain = ?
		ORDER BY url, chunk_id
	`, domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chunks := []*sitechat.Chunk{}
	for rows.Next() {
		var chunk sitechat.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.Domain, &chunk.URL, &chunk.Title,
			&chunk.ChunkID, &chunk.Content, &chunk.ContentHash); err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}

	return chunks, rows.Err()
}

// FindIndexMeta retrieves index metadata for a domain.
func (s *IndexService) FindIndexMeta(ctx context.Context, domain string) (*sitechat.IndexMeta, error) {
	var meta sitechat.IndexMeta
	var indexedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT domain, site_name, page_count, chunk_count, indexed_at
		FROM index_meta
		WHERE domain = ?
	`, domain).Scan(&meta.Domain, &meta.SiteName, &meta.PageCount, &meta.ChunkCount, &indexedAt)

	if err == sql.ErrNoRows {
		return nil, sitechat.Errorf(sitechat.ENOTFOUND, "domain %s has not been indexed", domain)
	}
	if err != nil {
		return nil, err
	}

	meta.IndexedAt, err = parseRFC3339(indexedAt, "indexed_at")
	if err != nil {
		return nil, err
	}

	return &meta, nil
}
