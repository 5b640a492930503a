package mock

import "github.com/sitechat/sitechat"

var _ sitechat.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitechat.Extractor.
type Extractor struct {
	ExtractFn func(pageURL, html string) (*sitechat.ExtractResult, error)
}

func (e *Extractor) Extract(pageURL, html string) (*sitechat.ExtractResult, error) {
	return e.ExtractFn(pageURL, html)
}
