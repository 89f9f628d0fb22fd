package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration schema. Nested
// sections map naturally to the flag groups in cmd/vdpscout.
type FileConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	Search struct {
		Provider    string `yaml:"provider"`
		File        string `yaml:"file"`
		SiteQueries *bool  `yaml:"siteQueries"`
	} `yaml:"search"`

	Brave struct {
		Key     string `yaml:"key"`
		Country string `yaml:"country"`
		Lang    string `yaml:"lang"`
	} `yaml:"brave"`

	Google struct {
		Key   string `yaml:"key"`
		CSEID string `yaml:"cseId"`
	} `yaml:"google"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Pipeline struct {
		Threshold      float64  `yaml:"threshold"`
		PDFSizeLimitMB int      `yaml:"pdfSizeLimitMB"`
		Workers        int      `yaml:"workers"`
		PerQuery       int      `yaml:"perQuery"`
		MaxCandidates  int      `yaml:"maxCandidates"`
		QueryDelay     duration `yaml:"queryDelay"`
		FetchTimeout   duration `yaml:"fetchTimeout"`
		RenderTimeout  duration `yaml:"renderTimeout"`
		EnableRender   *bool    `yaml:"enableRender"`
		EnableSitemap  *bool    `yaml:"enableSitemap"`
	} `yaml:"pipeline"`

	UserAgent string `yaml:"userAgent"`
	Verbose   *bool  `yaml:"verbose"`
}

// duration accepts Go duration strings ("2s", "500ms") in the YAML file;
// yaml.v3 cannot decode those into time.Duration directly.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = duration(parsed)
	return nil
}

// LoadFileConfig reads and parses a YAML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config: %w", err)
	}
	return fc, nil
}

// BoolFlags records which boolean options were set explicitly on the
// command line. A bool flag's zero value is indistinguishable from
// unset, so the flags-win precedence needs this set alongside cfg.
type BoolFlags struct {
	SiteQueries   bool
	EnableRender  bool
	EnableSitemap bool
	Verbose       bool
}

// Merge overlays file values onto cfg; values already set by flags or
// environment win over the file.
func (fc FileConfig) Merge(cfg Config, set BoolFlags) Config {
	if cfg.InputPath == "" {
		cfg.InputPath = fc.Input
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.SearchProvider == "" {
		cfg.SearchProvider = fc.Search.Provider
	}
	if cfg.SearchFile == "" {
		cfg.SearchFile = fc.Search.File
	}
	if fc.Search.SiteQueries != nil && !set.SiteQueries {
		cfg.SiteQueries = *fc.Search.SiteQueries
	}
	if cfg.BraveKey == "" {
		cfg.BraveKey = fc.Brave.Key
	}
	if cfg.BraveCountry == "" {
		cfg.BraveCountry = fc.Brave.Country
	}
	if cfg.BraveLang == "" {
		cfg.BraveLang = fc.Brave.Lang
	}
	if cfg.GoogleKey == "" {
		cfg.GoogleKey = fc.Google.Key
	}
	if cfg.GoogleCSEID == "" {
		cfg.GoogleCSEID = fc.Google.CSEID
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = fc.Pipeline.Threshold
	}
	if cfg.PDFSizeLimitMB == 0 {
		cfg.PDFSizeLimitMB = fc.Pipeline.PDFSizeLimitMB
	}
	if cfg.Workers == 0 {
		cfg.Workers = fc.Pipeline.Workers
	}
	if cfg.PerQueryResults == 0 {
		cfg.PerQueryResults = fc.Pipeline.PerQuery
	}
	if cfg.MaxCandidates == 0 {
		cfg.MaxCandidates = fc.Pipeline.MaxCandidates
	}
	if cfg.QueryDelay == 0 {
		cfg.QueryDelay = time.Duration(fc.Pipeline.QueryDelay)
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = time.Duration(fc.Pipeline.FetchTimeout)
	}
	if cfg.RenderTimeout == 0 {
		cfg.RenderTimeout = time.Duration(fc.Pipeline.RenderTimeout)
	}
	if fc.Pipeline.EnableRender != nil && !set.EnableRender {
		cfg.EnableRender = *fc.Pipeline.EnableRender
	}
	if fc.Pipeline.EnableSitemap != nil && !set.EnableSitemap {
		cfg.EnableSitemap = *fc.Pipeline.EnableSitemap
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.Verbose != nil && !set.Verbose {
		cfg.Verbose = *fc.Verbose
	}
	return cfg
}
