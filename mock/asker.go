package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.Asker = (*Asker)(nil)

// Asker is a mock implementation of sitechat.Asker.
type Asker struct {
	AnswerFn func(ctx context.Context, req sitechat.AnswerRequest) (string, error)
}

func (a *Asker) Answer(ctx context.Context, req sitechat.AnswerRequest) (string, error) {
	return a.AnswerFn(ctx, req)
}
