package sitechat

import (
	"context"
	"time"
)

// Lead is a contact request left by a site visitor through the chat
// widget.
type Lead struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the lead contains invalid fields.
func (l *Lead) Validate() error {
	if l.Domain == "" {
		return Errorf(EINVALID, "lead domain required")
	}
	if l.Name == "" {
		return Errorf(EINVALID, "lead name required")
	}
	if l.Email == "" && l.Phone == "" {
		return Errorf(EINVALID, "lead email or phone required")
	}
	return nil
}

// LeadService persists visitor contact requests.
type LeadService interface {
	// CreateLead stores a new lead.
	CreateLead(ctx context.Context, lead *Lead) error

	// FindLeadsByDomain returns all leads for a domain, newest first.
	FindLeadsByDomain(ctx context.Context, domain string) ([]*Lead, error)
}
