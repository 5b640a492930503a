package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.LeadService = (*LeadService)(nil)

// LeadService is a mock implementation of sitechat.LeadService.
type LeadService struct {
	CreateLeadFn        func(ctx context.Context, lead *sitechat.Lead) error
	FindLeadsByDomainFn func(ctx context.Context, domain string) ([]*sitechat.Lead, error)
}

func (s *LeadService) CreateLead(ctx context.Context, lead *sitechat.Lead) error {
	return s.CreateLeadFn(ctx, lead)
}

func (s *LeadService) FindLeadsByDomain(ctx context.Context, domain string) ([]*sitechat.Lead, error) {
	return s.FindLeadsByDomainFn(ctx, domain)
}
