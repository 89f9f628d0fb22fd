package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/vdpscout/vdpscout/internal/company"
	"github.com/vdpscout/vdpscout/internal/discover"
	"github.com/vdpscout/vdpscout/internal/fetch"
	"github.com/vdpscout/vdpscout/internal/llm"
	"github.com/vdpscout/vdpscout/internal/oracle"
	"github.com/vdpscout/vdpscout/internal/resolve"
	"github.com/vdpscout/vdpscout/internal/score"
	"github.com/vdpscout/vdpscout/internal/search"
	"github.com/vdpscout/vdpscout/internal/vocab"
)

// App wires the pipeline for a batch run. The core resolver knows
// nothing about CSV or JSON; this layer is the external collaborator
// that feeds it (company, base URL) pairs and persists records.
type App struct {
	cfg      Config
	resolver *resolve.Resolver
}

// resultRow is the per-company JSON output shape.
type resultRow struct {
	CompanyName       string         `json:"company_name"`
	BaseURL           string         `json:"base_url"`
	SecurityTxtURL    string         `json:"security_txt_url,omitempty"`
	PolicyURL         string         `json:"policy_url,omitempty"`
	Source            string         `json:"source,omitempty"`
	SearchResults     []string       `json:"search_results,omitempty"`
	HighestConfidence float64        `json:"highest_confidence,omitempty"`
	Analysis          map[string]any `json:"analysis,omitempty"`
	Error             string         `json:"error,omitempty"`
}

func New(cfg Config) (*App, error) {
	provider, err := buildSearchProvider(cfg)
	if err != nil {
		return nil, err
	}

	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	model := cfg.LLMModel
	if model == "" {
		model = "gpt-4o"
	}
	oc := &oracle.Oracle{
		Client: &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)},
		Model:  model,
	}

	v := vocab.Default()

	ua := cfg.UserAgent
	if ua == "" {
		ua = "vdpscout/1.0"
	}

	var renderer fetch.Renderer
	if cfg.EnableRender {
		renderer = &fetch.ChromeRenderer{LoadTimeout: cfg.RenderTimeout}
	}
	fetcher := &fetch.Fetcher{
		UserAgent:      ua,
		Timeout:        cfg.FetchTimeout,
		PDFSizeLimitMB: cfg.PDFSizeLimitMB,
		Renderer:       renderer,
	}

	// Zero means the 1s default; a negative delay disables pacing.
	delay := cfg.QueryDelay
	if delay == 0 {
		delay = time.Second
	}
	var limiter *rate.Limiter
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	adapters := []discover.Adapter{
		&discover.SearchAdapter{
			Provider:      provider,
			Vocab:         v,
			PerQuery:      cfg.PerQueryResults,
			MaxCandidates: cfg.MaxCandidates,
			QueryDelay:    limiter,
			SiteQueries:   cfg.SiteQueries,
		},
	}
	if cfg.EnableSitemap {
		adapters = append(adapters, &discover.Sitemap{
			Vocab:     v,
			UserAgent: ua,
		})
	}

	r := &resolve.Resolver{
		SecurityTxt: &discover.SecurityTxt{UserAgent: ua},
		Adapters:    adapters,
		Fetcher:     fetcher,
		Scorer:      &score.Scorer{Vocab: v, Oracle: oc},
		Extractor:   oc,
		Threshold:   cfg.Threshold,
		Workers:     cfg.Workers,
	}
	return &App{cfg: cfg, resolver: r}, nil
}

func buildSearchProvider(cfg Config) (search.Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.SearchProvider))
	if name == "" {
		// Default to whichever backend has credentials configured.
		switch {
		case cfg.BraveKey != "":
			name = "brave"
		case cfg.GoogleKey != "" && cfg.GoogleCSEID != "":
			name = "google"
		case cfg.SearchFile != "":
			name = "file"
		default:
			return nil, fmt.Errorf("no search backend configured")
		}
	}
	switch name {
	case "brave":
		country := cfg.BraveCountry
		if country == "" {
			country = "AT"
		}
		lang := cfg.BraveLang
		if lang == "" {
			lang = "en"
		}
		return &search.Brave{APIKey: cfg.BraveKey, Country: country, SearchLang: lang}, nil
	case "google":
		return &search.GoogleCSE{APIKey: cfg.GoogleKey, CSEID: cfg.GoogleCSEID}, nil
	case "file":
		return &search.FileProvider{Path: cfg.SearchFile}, nil
	default:
		return nil, fmt.Errorf("unknown search provider: %q", name)
	}
}

// Run processes the input CSV company by company and writes the JSON
// results. A per-company failure becomes an error record; the batch
// always continues.
func (a *App) Run(ctx context.Context) error {
	companies, err := readCompanies(a.cfg.InputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.Info().Int("companies", len(companies)).Str("input", a.cfg.InputPath).Msg("batch started")

	rows := make([]resultRow, 0, len(companies))
	for _, c := range companies {
		out := a.resolver.Resolve(ctx, c)
		row := resultRow{
			CompanyName:    c.Name,
			BaseURL:        c.BaseURL,
			SecurityTxtURL: out.SecurityTxtURL,
			PolicyURL:      out.PolicyURL,
			Source:         string(out.Source),
		}
		for _, cand := range out.Candidates {
			row.SearchResults = append(row.SearchResults, cand.CanonicalURL)
		}
		row.HighestConfidence = out.Confidence
		row.Analysis = out.Record.Fields
		if out.Err != nil {
			log.Error().Err(out.Err).Str("company", c.Name).Msg("company resolution failed")
			row.Error = out.Err.Error()
		}
		rows = append(rows, row)
	}

	if err := writeResults(a.cfg.OutputPath, rows); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("output", a.cfg.OutputPath).Msg("batch finished")
	return nil
}

// readCompanies parses a CSV of company_name,base_url rows. The first
// row is treated as a header.
func readCompanies(path string) ([]company.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var out []company.Company
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			continue
		}
		if len(rec) < 2 {
			continue
		}
		out = append(out, company.Company{
			Name:    strings.TrimSpace(rec[0]),
			BaseURL: strings.TrimSpace(rec[1]),
		})
	}
	return out, nil
}

func writeResults(path string, rows []resultRow) error {
	b, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
