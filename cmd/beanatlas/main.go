package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/beanatlas/beanatlas"
	"github.com/beanatlas/beanatlas/crawl"
	"github.com/beanatlas/beanatlas/gemini"
	"github.com/beanatlas/beanatlas/geocode"
	"github.com/beanatlas/beanatlas/goquery"
	"github.com/beanatlas/beanatlas/htmltomarkdown"
	beanhttp "github.com/beanatlas/beanatlas/http"
	"github.com/beanatlas/beanatlas/ratelimit"
	"github.com/beanatlas/beanatlas/rod"
	beanslog "github.com/beanatlas/beanatlas/slog"
	"github.com/beanatlas/beanatlas/sqlite"
	"github.com/beanatlas/beanatlas/trafilatura"
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
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RoasterService beanatlas.RoasterService
	CoffeeService  beanatlas.CoffeeService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("beanatlas"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'beanatlas --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BEANATLAS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.RoasterService = sqlite.NewRoasterService(m.DB)
	m.CoffeeService = sqlite.NewCoffeeService(m.DB)
	deps.DB = m.DB
	deps.Roasters = m.RoasterService
	deps.Coffees = m.CoffeeService
	deps.Sitemaps = beanslog.NewLoggingSitemapService(beanhttp.NewSitemapService(nil), logger)
	deps.Limiter = ratelimit.NewLimiter(sqlite.NewCounterStore(m.DB), 0, 0)

	// Seeding coordinates writes straight to the local cache, so it runs
	// offline like the bookkeeping commands.
	seeding := cmd == "geocode" && (cli.Geocode.Lat != nil || cli.Geocode.Lon != nil)
	if seeding {
		deps.Geocodes = sqlite.NewGeocodeCache(m.DB)
	}

	// Commands that call the extraction or geocoding oracles need an API
	// client; the rest run offline against the local database.
	if !seeding && (cmd == "crawl" || cmd == "retry" || cmd == "geocode") {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		switch cmd {
		case "crawl", "retry":
			content := trafilatura.NewExtractor()
			markdown := htmltomarkdown.NewConverter()

			renderer, err := rod.NewRenderer(content, markdown)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer renderer.Close()

			detector := goquery.NewDetector()

			crawler := &crawl.Crawler{
				Roasters:   m.RoasterService,
				Coffees:    m.CoffeeService,
				Sitemaps:   deps.Sitemaps,
				Extractor:  beanslog.NewLoggingExtractor(gemini.NewExtractor(client), logger),
				Renderer:   beanslog.NewLoggingRenderer(renderer, logger),
				Classifier: gemini.NewURLClassifier(client),
				Fetcher:    beanhttp.NewFetcher(),
				Content:    content,
				Markdown:   markdown,
				JSDetector: detector.IsJavaScriptRendered,
				Logger:     logger,
				Gate:       crawl.DefaultGateConfig(),
			}
			if endpoint := os.Getenv("BEANATLAS_GRAPH_URL"); endpoint != "" {
				crawler.Graph = beanhttp.NewGraphSyncer(nil, endpoint)
			}
			if cmd == "crawl" {
				crawler.Concurrency = cli.Crawl.Concurrency
			}
			deps.Crawler = crawler

		case "geocode":
			cache := sqlite.NewGeocodeCache(m.DB)
			deps.Geocodes = cache
			resolver := geocode.NewResolver(
				cache,
				beanhttp.NewNominatimClient(nil),
				gemini.NewGeocoder(client),
				nil, // default global 1 rps throttle
				logger,
			)
			deps.Geocoder = beanslog.NewLoggingGeocodeService(resolver, logger)
		}
	}

	return kongCtx.Run(deps)
}

// geminiClient builds a Gemini API client from the environment.
func geminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return client, nil
}

func defaultDBPath() string {
	if path := os.Getenv("BEANATLAS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "beanatlas.db"
	}
	dir := filepath.Join(home, ".beanatlas")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "beanatlas.db")
}
