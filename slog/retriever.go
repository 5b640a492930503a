package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitechat/sitechat"
)

// Ensure LoggingRetriever implements sitechat.Retriever.
var _ sitechat.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with retrieval logging.
type LoggingRetriever struct {
	next   sitechat.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next sitechat.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// RetrieveContext delegates to the wrapped retriever and logs the
// assembled context size and best score.
func (r *LoggingRetriever) RetrieveContext(ctx context.Context, domain, query string, opts sitechat.RetrieveOptions) (rc *sitechat.RetrievedContext, err error) {
	defer func(begin time.Time) {
		var chars, sources, score int
		if rc != nil {
			chars, sources, score = len(rc.Context), len(rc.Sources), rc.BestScore
		}
		r.logger.Info("retrieve",
			"domain", domain,
			"query", query,
			"chars", chars,
			"sources", sources,
			"score", score,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RetrieveContext(ctx, domain, query, opts)
}

// OnTopic delegates to the wrapped retriever and logs the gate decision.
func (r *LoggingRetriever) OnTopic(ctx context.Context, domain, query string) (ok bool, err error) {
	defer func(begin time.Time) {
		r.logger.Info("topic gate",
			"domain", domain,
			"query", query,
			"ok", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.OnTopic(ctx, domain, query)
}
