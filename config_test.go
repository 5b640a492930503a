package sitechat_test

import (
	"testing"
	"time"

	"github.com/sitechat/sitechat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearSitechatEnv blanks every recognized variable so ambient shell
// configuration cannot leak into a test.
func clearSitechatEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SITECHAT_DB", "SITECHAT_DOMAIN", "SITECHAT_SITE_NAME",
		"SITECHAT_MAX_PAGES", "SITECHAT_CRAWL_CONCURRENCY",
		"SITECHAT_FETCH_TIMEOUT", "SITECHAT_CRAWL_RPS",
		"SITECHAT_EXTRA_URLS", "SITECHAT_CHUNK_SIZE",
		"SITECHAT_CHUNK_OVERLAP", "SITECHAT_TOP_K",
		"SITECHAT_MAX_CONTEXT_CHARS", "SITECHAT_MIN_TOPIC_SCORE",
		"SITECHAT_RENDER_JS", "SITECHAT_EXTRACTOR", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearSitechatEnv(t)

	cfg, err := sitechat.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, sitechat.DefaultDBPath, cfg.DBPath)
	assert.Empty(t, cfg.Domain)
	assert.Empty(t, cfg.SiteName)
	assert.Equal(t, sitechat.DefaultMaxPages, cfg.MaxPages)
	assert.Equal(t, sitechat.DefaultCrawlConcurrency, cfg.CrawlConcurrency)
	assert.Equal(t, sitechat.DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, sitechat.DefaultCrawlRPS, cfg.CrawlRPS)
	assert.Empty(t, cfg.ExtraURLs)
	assert.Equal(t, sitechat.DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, sitechat.DefaultChunkOverlap, cfg.ChunkOverlap)
	assert.Equal(t, sitechat.DefaultTopK, cfg.TopK)
	assert.Equal(t, sitechat.DefaultMaxContextChars, cfg.MaxContextChars)
	assert.Equal(t, sitechat.DefaultMinTopicScore, cfg.MinTopicScore)
	assert.False(t, cfg.RenderJS)
	assert.Equal(t, sitechat.ExtractorGoquery, cfg.Extractor)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestConfigFromEnv_ReadsOverrides(t *testing.T) {
	clearSitechatEnv(t)
	t.Setenv("SITECHAT_DB", "/var/lib/sitechat/acme.db")
	t.Setenv("SITECHAT_DOMAIN", "acmeplumbing.com")
	t.Setenv("SITECHAT_SITE_NAME", "Acme Plumbing")
	t.Setenv("SITECHAT_MAX_PAGES", "120")
	t.Setenv("SITECHAT_CRAWL_CONCURRENCY", "8")
	t.Setenv("SITECHAT_FETCH_TIMEOUT", "30s")
	t.Setenv("SITECHAT_CRAWL_RPS", "2.5")
	t.Setenv("SITECHAT_CHUNK_SIZE", "800")
	t.Setenv("SITECHAT_CHUNK_OVERLAP", "100")
	t.Setenv("SITECHAT_TOP_K", "5")
	t.Setenv("SITECHAT_MAX_CONTEXT_CHARS", "6000")
	t.Setenv("SITECHAT_MIN_TOPIC_SCORE", "3")
	t.Setenv("SITECHAT_RENDER_JS", "true")
	t.Setenv("SITECHAT_EXTRACTOR", "trafilatura")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := sitechat.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/sitechat/acme.db", cfg.DBPath)
	assert.Equal(t, "acmeplumbing.com", cfg.Domain)
	assert.Equal(t, "Acme Plumbing", cfg.SiteName)
	assert.Equal(t, 120, cfg.MaxPages)
	assert.Equal(t, 8, cfg.CrawlConcurrency)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2.5, cfg.CrawlRPS)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 6000, cfg.MaxContextChars)
	assert.Equal(t, 3, cfg.MinTopicScore)
	assert.True(t, cfg.RenderJS)
	assert.Equal(t, sitechat.ExtractorTrafilatura, cfg.Extractor)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}

func TestConfigFromEnv_SplitsExtraURLs(t *testing.T) {
	clearSitechatEnv(t)
	t.Setenv("SITECHAT_EXTRA_URLS", "https://example.com/specials, /hidden/page ,,")

	cfg, err := sitechat.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/specials", "/hidden/page"}, cfg.ExtraURLs)
}

func TestConfigFromEnv_RejectsInvalidInteger(t *testing.T) {
	clearSitechatEnv(t)
	t.Setenv("SITECHAT_MAX_PAGES", "forty")

	_, err := sitechat.ConfigFromEnv()

	require.Error(t, err)
	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	assert.Contains(t, sitechat.ErrorMessage(err), "SITECHAT_MAX_PAGES")
}

func TestConfigFromEnv_RejectsInvalidDuration(t *testing.T) {
	clearSitechatEnv(t)
	t.Setenv("SITECHAT_FETCH_TIMEOUT", "10")

	_, err := sitechat.ConfigFromEnv()

	require.Error(t, err)
	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	assert.Contains(t, sitechat.ErrorMessage(err), "SITECHAT_FETCH_TIMEOUT")
}

func TestConfigFromEnv_RejectsInvalidBool(t *testing.T) {
	clearSitechatEnv(t)
	t.Setenv("SITECHAT_RENDER_JS", "yes")

	_, err := sitechat.ConfigFromEnv()

	require.Error(t, err)
	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
}

func TestConfigFromEnv_AcceptsReadabilityExtractor(t *testing.T) {
	clearSitechatEnv(t)
	t.Setenv("SITECHAT_EXTRACTOR", "readability")

	cfg, err := sitechat.ConfigFromEnv()

	require.NoError(t, err)
	assert.Equal(t, sitechat.ExtractorReadability, cfg.Extractor)
}

func TestConfigFromEnv_RejectsUnknownExtractor(t *testing.T) {
	clearSitechatEnv(t)
	t.Setenv("SITECHAT_EXTRACTOR", "markdown")

	_, err := sitechat.ConfigFromEnv()

	require.Error(t, err)
	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	assert.Contains(t, sitechat.ErrorMessage(err), "SITECHAT_EXTRACTOR")
}
