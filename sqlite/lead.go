package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sitechat/sitechat"
)

// Compile-time interface verification.
var _ sitechat.LeadService = (*LeadService)(nil)

// LeadService implements sitechat.LeadService using SQLite.
type LeadService struct {
	db *DB
}

// NewLeadService creates a new LeadService.
func NewLeadService(db *DB) *LeadService {
	return &LeadService{db: db}
}

// CreateLead stores a new lead.
func (s *LeadService) CreateLead(ctx context.Context, lead *sitechat.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}

	lead.ID = uuid.New().String()
	lead.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, domain, name, email, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.Domain, lead.Name, lead.Email, lead.Phone, lead.Message,
		lead.CreatedAt.Format(time.RFC3339))

	return err
}

// FindLeadsByDomain returns all leads for a domain, newest first.
func (s *LeadService) FindLeadsByDomain(ctx context.Context, domain string) ([]*sitechat.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, domain, name, email, phone, message, created_at
		FROM leads
		WHERE domain = ?
		ORDER BY created_at DESC, rowid DESC
	`, domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*sitechat.Lead
	for rows.Next() {
		var lead sitechat.Lead
		var createdAt string

		if err := rows.Scan(&lead.ID, &lead.Domain, &lead.Name, &lead.Email,
			&lead.Phone, &lead.Message, &createdAt); err != nil {
			return nil, err
		}

		lead.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		leads = append(leads, &lead)
	}

	return leads, rows.Err()
}
