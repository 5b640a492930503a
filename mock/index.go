package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of sitechat.IndexService.
type IndexService struct {
	ReplaceChunksFn      func(ctx context.Context, domain, siteName string, pages []*sitechat.Page) (*sitechat.IndexMeta, error)
	FindChunksByDomainFn func(ctx context.Context, domain string) ([]*sitechat.Chunk, error)
	FindIndexMetaFn      func(ctx context.Context, domain string) (*sitechat.IndexMeta, error)
}

func (s *IndexService) ReplaceChunks(ctx context.Context, domain, siteName string, pages []*sitechat.Page) (*sitechat.IndexMeta, error) {
	return s.ReplaceChunksFn(ctx, domain, siteName, pages)
}

func (s *IndexService) FindChunksByDomain(ctx context.Context, domain string) ([]*sitechat.Chunk, error) {
	return s.FindChunksByDomainFn(ctx, domain)
}

func (s *IndexService) FindIndexMeta(ctx context.Context, domain string) (*sitechat.IndexMeta, error) {
	return s.FindIndexMetaFn(ctx, domain)
}

var _ sitechat.IndexBuilder = (*IndexBuilder)(nil)

// IndexBuilder is a mock implementation of sitechat.IndexBuilder.
type IndexBuilder struct {
	BuildFn  func(ctx context.Context, domain, siteName string) (*sitechat.IndexMeta, error)
	EnsureFn func(ctx context.Context, domain, siteName string, force bool) (*sitechat.IndexMeta, bool, error)
}

func (b *IndexBuilder) Build(ctx context.Context, domain, siteName string) (*sitechat.IndexMeta, error) {
	return b.BuildFn(ctx, domain, siteName)
}

func (b *IndexBuilder) Ensure(ctx context.Context, domain, siteName string, force bool) (*sitechat.IndexMeta, bool, error) {
	return b.EnsureFn(ctx, domain, siteName, force)
}
