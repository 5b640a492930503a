package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitechat/sitechat"
)

// Ensure LoggingIndexBuilder implements sitechat.IndexBuilder.
var _ sitechat.IndexBuilder = (*LoggingIndexBuilder)(nil)

// LoggingIndexBuilder wraps an IndexBuilder with build logging.
type LoggingIndexBuilder struct {
	next   sitechat.IndexBuilder
	logger *slog.Logger
}

// NewLoggingIndexBuilder creates a new LoggingIndexBuilder.
func NewLoggingIndexBuilder(next sitechat.IndexBuilder, logger *slog.Logger) *LoggingIndexBuilder {
	return &LoggingIndexBuilder{next: next, logger: logger}
}

// Build delegates to the wrapped builder and logs the outcome.
func (b *LoggingIndexBuilder) Build(ctx context.Context, domain, siteName string) (meta *sitechat.IndexMeta, err error) {
	defer func(begin time.Time) {
		var pages, chunks int
		if meta != nil {
			pages, chunks = meta.PageCount, meta.ChunkCount
		}
		b.logger.Info("index build",
			"domain", domain,
			"pages", pages,
			"chunks", chunks,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Build(ctx, domain, siteName)
}

// Ensure delegates to the wrapped builder and logs whether a build ran.
func (b *LoggingIndexBuilder) Ensure(ctx context.Context, domain, siteName string, force bool) (meta *sitechat.IndexMeta, built bool, err error) {
	defer func(begin time.Time) {
		b.logger.Info("index ensure",
			"domain", domain,
			"force", force,
			"built", built,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Ensure(ctx, domain, siteName, force)
}
