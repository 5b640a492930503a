package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/mock"
	siteslog "github.com/sitechat/sitechat/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingIndexBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("logs page and chunk counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.IndexBuilder{
			BuildFn: func(ctx context.Context, domain, siteName string) (*sitechat.IndexMeta, error) {
				return &sitechat.IndexMeta{Domain: domain, PageCount: 3, ChunkCount: 12}, nil
			},
		}

		builder := siteslog.NewLoggingIndexBuilder(inner, logger)
		meta, err := builder.Build(context.Background(), "acmeplumbing.com", "Acme Plumbing")

		require.NoError(t, err)
		assert.Equal(t, 12, meta.ChunkCount)
		output := buf.String()
		assert.Contains(t, output, "index build")
		assert.Contains(t, output, "domain=acmeplumbing.com")
		assert.Contains(t, output, "pages=3")
		assert.Contains(t, output, "chunks=12")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error with zero counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.IndexBuilder{
			BuildFn: func(ctx context.Context, domain, siteName string) (*sitechat.IndexMeta, error) {
				return nil, sitechat.Errorf(sitechat.ECRAWLEMPTY, "no pages scraped for %s", domain)
			},
		}

		builder := siteslog.NewLoggingIndexBuilder(inner, logger)
		_, err := builder.Build(context.Background(), "acmeplumbing.com", "Acme Plumbing")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "index build")
		assert.Contains(t, output, "pages=0")
		assert.Contains(t, output, "chunks=0")
		assert.Contains(t, output, "no pages scraped")
	})
}

func TestLoggingIndexBuilder_Ensure(t *testing.T) {
	t.Parallel()

	t.Run("logs whether a build ran", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.IndexBuilder{
			EnsureFn: func(ctx context.Context, domain, siteName string, force bool) (*sitechat.IndexMeta, bool, error) {
				return &sitechat.IndexMeta{Domain: domain, ChunkCount: 5}, false, nil
			},
		}

		builder := siteslog.NewLoggingIndexBuilder(inner, logger)
		_, built, err := builder.Ensure(context.Background(), "acmeplumbing.com", "Acme Plumbing", false)

		require.NoError(t, err)
		assert.False(t, built)
		output := buf.String()
		assert.Contains(t, output, "index ensure")
		assert.Contains(t, output, "force=false")
		assert.Contains(t, output, "built=false")
	})
}
