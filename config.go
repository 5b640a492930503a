package sitechat

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Extractor names accepted by SITECHAT_EXTRACTOR.
const (
	ExtractorGoquery     = "goquery"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Config defaults, applied by ConfigFromEnv when the corresponding
// variable is unset.
const (
	DefaultDBPath           = "sitechat.db"
	DefaultMaxPages         = 40
	DefaultCrawlConcurrency = 5
	DefaultCrawlRPS         = 4.0
	DefaultFetchTimeout     = 10 * time.Second
)

// Config carries the environment-driven settings for one site
// deployment.
type Config struct {
	// DBPath is the SQLite database file, or ":memory:".
	DBPath string

	// Domain is the site being served, e.g. "example.com". It keys
	// every store read and write.
	Domain string

	// SiteName is the human-readable business name used in prompts.
	SiteName string

	MaxPages         int
	CrawlConcurrency int
	FetchTimeout     time.Duration
	CrawlRPS         float64
	ExtraURLs        []string

	ChunkSize    int
	ChunkOverlap int

	TopK            int
	MaxContextChars int
	MinTopicScore   int

	// RenderJS selects the headless-browser fetcher over the plain
	// HTTP one.
	RenderJS bool

	// Extractor is ExtractorGoquery, ExtractorTrafilatura, or
	// ExtractorReadability.
	Extractor string

	GeminiAPIKey string
}

// ConfigFromEnv reads the SITECHAT_* environment variables, applying
// defaults for anything unset. Returns EINVALID for a value that does
// not parse.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:       envOr("SITECHAT_DB", DefaultDBPath),
		Domain:       os.Getenv("SITECHAT_DOMAIN"),
		SiteName:     os.Getenv("SITECHAT_SITE_NAME"),
		ExtraURLs:    splitURLList(os.Getenv("SITECHAT_EXTRA_URLS")),
		Extractor:    envOr("SITECHAT_EXTRACTOR", ExtractorGoquery),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
	switch cfg.Extractor {
	case ExtractorGoquery, ExtractorTrafilatura, ExtractorReadability:
	default:
		return nil, Errorf(EINVALID, "SITECHAT_EXTRACTOR must be %q, %q, or %q, got %q",
			ExtractorGoquery, ExtractorTrafilatura, ExtractorReadability, cfg.Extractor)
	}

	var err error
	if cfg.MaxPages, err = envInt("SITECHAT_MAX_PAGES", DefaultMaxPages); err != nil {
		return nil, err
	}
	if cfg.CrawlConcurrency, err = envInt("SITECHAT_CRAWL_CONCURRENCY", DefaultCrawlConcurrency); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = envDuration("SITECHAT_FETCH_TIMEOUT", DefaultFetchTimeout); err != nil {
		return nil, err
	}
	if cfg.CrawlRPS, err = envFloat("SITECHAT_CRAWL_RPS", DefaultCrawlRPS); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = envInt("SITECHAT_CHUNK_SIZE", DefaultChunkSize); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = envInt("SITECHAT_CHUNK_OVERLAP", DefaultChunkOverlap); err != nil {
		return nil, err
	}
	if cfg.TopK, err = envInt("SITECHAT_TOP_K", DefaultTopK); err != nil {
		return nil, err
	}
	if cfg.MaxContextChars, err = envInt("SITECHAT_MAX_CONTEXT_CHARS", DefaultMaxContextChars); err != nil {
		return nil, err
	}
	if cfg.MinTopicScore, err = envInt("SITECHAT_MIN_TOPIC_SCORE", DefaultMinTopicScore); err != nil {
		return nil, err
	}
	if cfg.RenderJS, err = envBool("SITECHAT_RENDER_JS", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, Errorf(EINVALID, "%s: invalid integer %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, Errorf(EINVALID, "%s: invalid number %q", key, v)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, Errorf(EINVALID, "%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, Errorf(EINVALID, "%s: invalid duration %q (use forms like \"10s\")", key, v)
	}
	return d, nil
}

// splitURLList parses a comma-separated URL list, dropping empty
// entries.
func splitURLList(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}
