package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	neturl "net/url"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/crawl"
	"github.com/sitechat/sitechat/echo"
	"github.com/sitechat/sitechat/gemini"
	"github.com/sitechat/sitechat/goquery"
	schttp "github.com/sitechat/sitechat/http"
	"github.com/sitechat/sitechat/rag"
	"github.com/sitechat/sitechat/readability"
	"github.com/sitechat/sitechat/rod"
	scslog "github.com/sitechat/sitechat/slog"
	"github.com/sitechat/sitechat/sqlite"
	"github.com/sitechat/sitechat/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides SITECHAT_DB when set before calling Run().
	DBPath string

	// Parsed configuration, populated by Run().
	Config *sitechat.Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	IndexService sitechat.IndexService
	FactsService sitechat.FactsService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Pick up a .env file so local runs get GEMINI_API_KEY and the
	// SITECHAT_* variables without exporting them.
	_ = godotenv.Load()

	cfg, err := sitechat.ConfigFromEnv()
	if err != nil {
		return err
	}
	if m.DBPath != "" {
		cfg.DBPath = m.DBPath
	}
	m.Config = cfg

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: cfg,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitechat"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitechat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// "index <url>" can stand alone: derive the domain from the URL
	// when SITECHAT_DOMAIN is not set.
	if cmd == "index" && cfg.Domain == "" && cli.Index.URL != "" {
		u, err := neturl.Parse(cli.Index.URL)
		if err != nil || u.Hostname() == "" {
			return sitechat.Errorf(sitechat.EINVALID, "invalid url %q", cli.Index.URL)
		}
		cfg.Domain = strings.ToLower(u.Hostname())
	}

	if cfg.Domain == "" {
		fmt.Fprintln(stderr, "SITECHAT_DOMAIN environment variable not set. Set it to the domain this assistant answers for, e.g. example.com")
		return fmt.Errorf("SITECHAT_DOMAIN not set")
	}

	// Open database
	m.DB = sqlite.NewDB(cfg.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITECHAT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	indexSvc := sqlite.NewIndexService(m.DB)
	indexSvc.ChunkSize = cfg.ChunkSize
	indexSvc.ChunkOverlap = cfg.ChunkOverlap
	factsSvc := sqlite.NewFactsService(m.DB)

	m.IndexService = indexSvc
	m.FactsService = factsSvc

	deps.DB = m.DB
	deps.Index = indexSvc
	deps.Facts = factsSvc
	deps.Conversations = sqlite.NewConversationService(m.DB)
	deps.Leads = sqlite.NewLeadService(m.DB)

	retriever := rag.NewRetriever(indexSvc)
	retriever.MinTopicScore = cfg.MinTopicScore
	deps.Retriever = scslog.NewLoggingRetriever(retriever, logger)

	if cmd == "serve" || cmd == "index" {
		deps.Sitemaps = scslog.NewLoggingSitemapService(schttp.NewSitemapService(nil), logger)
	}

	// Wire the crawl pipeline for commands that rebuild the index.
	// Preview mode only lists sitemap URLs, so it skips the fetcher.
	if cmd == "serve" || (cmd == "index" && !cli.Index.Preview) {
		fetcher, err := newFetcher(cfg, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		crawler := &crawl.Crawler{
			Fetcher:      scslog.NewLoggingFetcher(fetcher, logger),
			Extractor:    newExtractor(cfg),
			Sitemaps:     deps.Sitemaps,
			RateLimiter:  crawl.NewDomainLimiter(cfg.CrawlRPS),
			MaxPages:     cfg.MaxPages,
			Concurrency:  cfg.CrawlConcurrency,
			FetchTimeout: cfg.FetchTimeout,
			ExtraSeeds:   cfg.ExtraURLs,
		}

		builder := rag.NewBuilder(crawler, indexSvc, factsSvc)
		if cmd == "index" && cli.Index.URL != "" {
			builder.BaseURL = cli.Index.URL
		}
		deps.Builder = scslog.NewLoggingIndexBuilder(builder, logger)
	}

	// Wire the Gemini client for commands that answer questions
	if cmd == "serve" || cmd == "ask" {
		if cfg.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Asker = gemini.NewAsker(client)
	}

	if cmd == "serve" {
		srv := echo.NewServer(logger)
		srv.Domain = cfg.Domain
		srv.SiteName = cfg.SiteName
		srv.TopK = cfg.TopK
		srv.MaxContextChars = cfg.MaxContextChars
		srv.Index = deps.Index
		srv.Facts = deps.Facts
		srv.Conversations = deps.Conversations
		srv.Leads = deps.Leads
		srv.Retriever = deps.Retriever
		srv.Asker = deps.Asker
		srv.Builder = deps.Builder
		srv.Status = rag.NewStatusTracker()
		deps.Server = srv
	}

	return kongCtx.Run(deps)
}

// newFetcher picks the page fetcher: a headless browser when the site
// needs JavaScript to render, plain HTTP otherwise.
func newFetcher(cfg *sitechat.Config, stderr io.Writer) (sitechat.Fetcher, error) {
	if cfg.RenderJS {
		fetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed when SITECHAT_RENDER_JS is on")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return fetcher, nil
	}
	return schttp.NewFetcher(schttp.WithTimeout(cfg.FetchTimeout)), nil
}

// newExtractor picks the content extractor named by SITECHAT_EXTRACTOR.
func newExtractor(cfg *sitechat.Config) sitechat.Extractor {
	switch cfg.Extractor {
	case sitechat.ExtractorTrafilatura:
		return trafilatura.NewExtractor()
	case sitechat.ExtractorReadability:
		return readability.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}
