package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of sitechat.Retriever.
type Retriever struct {
	RetrieveContextFn func(ctx context.Context, domain, query string, opts sitechat.RetrieveOptions) (*sitechat.RetrievedContext, error)
	OnTopicFn         func(ctx context.Context, domain, query string) (bool, error)
}

func (r *Retriever) RetrieveContext(ctx context.Context, domain, query string, opts sitechat.RetrieveOptions) (*sitechat.RetrievedContext, error) {
	return r.RetrieveContextFn(ctx, domain, query, opts)
}

func (r *Retriever) OnTopic(ctx context.Context, domain, query string) (bool, error) {
	return r.OnTopicFn(ctx, domain, query)
}
