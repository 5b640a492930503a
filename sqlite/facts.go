package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sitechat/sitechat"
)

// Compile-time interface verification.
var _ sitechat.FactsService = (*FactsService)(nil)

// FactsService implements sitechat.FactsService using SQLite. Facts are
// stored as one JSON blob per domain.
type FactsService struct {
	db *DB
}

// NewFactsService creates a new FactsService.
func NewFactsService(db *DB) *FactsService {
	return &FactsService{db: db}
}

// PutFacts upserts the facts for a domain, overwriting any previous
// record.
func (s *FactsService) PutFacts(ctx context.Context, domain string, facts *sitechat.SiteFacts) error {
	if domain == "" {
		return sitechat.Errorf(sitechat.EINVALID, "domain required")
	}
	if facts == nil {
		facts = &sitechat.SiteFacts{}
	}

	blob, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("failed to encode facts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_facts (domain, facts, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			facts = excluded.facts,
			updated_at = excluded.updated_at
	`, domain, string(blob), time.Now().UTC().Format(time.RFC3339))

	return err
}

// FindFacts retrieves the stored facts for a domain.
func (s *FactsService) FindFacts(ctx context.Context, domain string) (*sitechat.SiteFacts, error) {
	var blob string

	err := s.db.QueryRowContext(ctx,
		"SELECT facts FROM site_facts WHERE domain = ?", domain).Scan(&blob)

	if err == sql.ErrNoRows {
		return nil, sitechat.Errorf(sitechat.ENOTFOUND, "no facts stored for domain %s", domain)
	}
	if err != nil {
		return nil, err
	}

	var facts sitechat.SiteFacts
	if err := json.Unmarshal([]byte(blob), &facts); err != nil {
		return nil, fmt.Errorf("failed to decode facts: %w", err)
	}

	return &facts, nil
}
