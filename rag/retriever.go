// Package rag composes the stored index into retrieval and rebuild
// operations: lexical chunk retrieval with an on-topic gate, and the
// crawl-extract-store build pipeline.
package rag

import (
	"context"

	"github.com/sitechat/sitechat"
)

// Compile-time interface verification.
var _ sitechat.Retriever = (*Retriever)(nil)

// Retriever implements sitechat.Retriever over an IndexService using
// pure lexical scoring.
type Retriever struct {
	index sitechat.IndexService

	// MinTopicScore is the minimum best score for a query to count as
	// on-topic. Defaults to sitechat.DefaultMinTopicScore.
	MinTopicScore int
}

// NewRetriever creates a Retriever over the given index.
func NewRetriever(index sitechat.IndexService) *Retriever {
	return &Retriever{
		index:         index,
		MinTopicScore: sitechat.DefaultMinTopicScore,
	}
}

// RetrieveContext scores the domain's stored chunks against the query
// and assembles the best ones into a bounded context string. A domain
// with no stored chunks yields an empty context and a zero best score.
func (r *Retriever) RetrieveContext(ctx context.Context, domain, query string, opts sitechat.RetrieveOptions) (*sitechat.RetrievedContext, error) {
	chunks, err := r.index.FindChunksByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}

	terms := sitechat.TokenizeQuery(query)
	ranked := sitechat.RankChunks(chunks, terms)
	selected := sitechat.SelectChunks(ranked, opts.TopK)
	text, sources := sitechat.BuildContext(selected, opts.MaxChars)

	rc := &sitechat.RetrievedContext{
		Context: text,
		Sources: sources,
	}
	if len(ranked) > 0 {
		rc.BestScore = ranked[0].Score
	}
	return rc, nil
}

// OnTopic reports whether the query shares enough vocabulary with the
// domain's stored content to be answerable from it. Stopwords do not
// count as overlap.
func (r *Retriever) OnTopic(ctx context.Context, domain, query string) (bool, error) {
	terms := sitechat.TokenizeTopic(query)
	if len(terms) == 0 {
		return false, nil
	}

	chunks, err := r.index.FindChunksByDomain(ctx, domain)
	if err != nil {
		return false, err
	}

	ranked := sitechat.RankChunks(chunks, terms)
	if len(ranked) == 0 {
		return false, nil
	}

	minScore := r.MinTopicScore
	if minScore <= 0 {
		minScore = sitechat.DefaultMinTopicScore
	}
	return ranked[0].Score >= minScore, nil
}
