package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.FactsService = (*FactsService)(nil)

// FactsService is a mock implementation of sitechat.FactsService.
type FactsService struct {
	PutFactsFn  func(ctx context.Context, domain string, facts *sitechat.SiteFacts) error
	FindFactsFn func(ctx context.Context, domain string) (*sitechat.SiteFacts, error)
}

func (s *FactsService) PutFacts(ctx context.Context, domain string, facts *sitechat.SiteFacts) error {
	return s.PutFactsFn(ctx, domain, facts)
}

func (s *FactsService) FindFacts(ctx context.Context, domain string) (*sitechat.SiteFacts, error) {
	return s.FindFactsFn(ctx, domain)
}
