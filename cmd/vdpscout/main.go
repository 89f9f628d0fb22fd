package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vdpscout/vdpscout/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// API credentials commonly live in a local .env file.
	_ = godotenv.Load()

	var (
		inputPath      string
		outputPath     string
		configPath     string
		searchProvider string
		braveKey       string
		braveCountry   string
		braveLang      string
		googleKey      string
		googleCSEID    string
		searchFile     string
		siteQueries    bool
		llmBaseURL     string
		llmModel       string
		llmKey         string
		threshold      float64
		pdfLimitMB     int
		workers        int
		perQuery       int
		maxCandidates  int
		queryDelay     time.Duration
		fetchTimeout   time.Duration
		renderTimeout  time.Duration
		enableRender   bool
		enableSitemap  bool
		userAgent      string
		verbose        bool
	)

	flag.StringVar(&inputPath, "input", "", "Path to input CSV (company_name,base_url)")
	flag.StringVar(&outputPath, "output", "", "Path to write the JSON results")
	flag.StringVar(&configPath, "config", "", "Optional YAML config file")
	flag.StringVar(&searchProvider, "search.provider", os.Getenv("SEARCH_PROVIDER"), "Search backend: brave, google or file")
	flag.StringVar(&braveKey, "brave.key", os.Getenv("BRAVE_API_KEY"), "Brave Search API key")
	flag.StringVar(&braveCountry, "brave.country", "", "Brave Search country code (default AT)")
	flag.StringVar(&braveLang, "brave.lang", "", "Brave Search language (default en)")
	flag.StringVar(&googleKey, "google.key", os.Getenv("GOOGLE_API_KEY"), "Google API key")
	flag.StringVar(&googleCSEID, "google.cse", os.Getenv("CSE_ID"), "Google Custom Search Engine ID")
	flag.StringVar(&searchFile, "search.file", os.Getenv("SEARCH_FILE"), "Path to JSON file for the offline search provider")
	flag.BoolVar(&siteQueries, "search.siteQueries", false, "Include site:-restricted keyword queries")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name (default gpt-4o)")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("OPENAI_API_KEY"), "API key for the OpenAI-compatible server")

	// Pipeline knobs default to zero here so a config file can still set
	// them; the effective defaults live with the components.
	flag.Float64Var(&threshold, "confidence.threshold", 0, "Minimum confidence a candidate must exceed (default 0.6)")
	flag.IntVar(&pdfLimitMB, "pdf.limitMB", 0, "PDF size cap in megabytes (default 1)")
	flag.IntVar(&workers, "workers", 0, "Parallel candidate fetch+score workers (default 4)")
	flag.IntVar(&perQuery, "search.perQuery", 0, "Result cap per search query (default 5)")
	flag.IntVar(&maxCandidates, "search.maxCandidates", 0, "Cap on filtered search candidates (default 5)")
	flag.DurationVar(&queryDelay, "search.delay", 0, "Delay between search queries, negative disables (default 1s)")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", 0, "Per-request fetch timeout (default 10s)")
	flag.DurationVar(&renderTimeout, "render.timeout", 0, "Headless render load timeout (default 20s)")
	flag.BoolVar(&enableRender, "render.enable", false, "Render pages in headless Chrome before static fallback")
	flag.BoolVar(&enableSitemap, "sitemap.enable", true, "Walk the site's sitemap tree for candidates")
	flag.StringVar(&userAgent, "ua", "", "User-Agent for outbound requests (default vdpscout/1.0)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	cfg := app.Config{
		InputPath:       inputPath,
		OutputPath:      outputPath,
		SearchProvider:  searchProvider,
		BraveKey:        braveKey,
		BraveCountry:    braveCountry,
		BraveLang:       braveLang,
		GoogleKey:       googleKey,
		GoogleCSEID:     googleCSEID,
		SearchFile:      searchFile,
		SiteQueries:     siteQueries,
		LLMBaseURL:      llmBaseURL,
		LLMModel:        llmModel,
		LLMAPIKey:       llmKey,
		Threshold:       threshold,
		PDFSizeLimitMB:  pdfLimitMB,
		Workers:         workers,
		PerQueryResults: perQuery,
		MaxCandidates:   maxCandidates,
		QueryDelay:      queryDelay,
		FetchTimeout:    fetchTimeout,
		RenderTimeout:   renderTimeout,
		EnableRender:    enableRender,
		EnableSitemap:   enableSitemap,
		UserAgent:       userAgent,
		Verbose:         verbose,
	}
	if configPath != "" {
		fc, err := app.LoadFileConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", configPath).Msg("config file")
		}
		cfg = fc.Merge(cfg, app.BoolFlags{
			SiteQueries:   setFlags["search.siteQueries"],
			EnableRender:  setFlags["render.enable"],
			EnableSitemap: setFlags["sitemap.enable"],
			Verbose:       setFlags["v"],
		})
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cfg.InputPath == "" || cfg.OutputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: vdpscout -input companies.csv -output results.json")
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(context.Background())
}
