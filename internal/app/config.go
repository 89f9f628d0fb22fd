package app

import "time"

// Config holds runtime configuration for the scanner.
type Config struct {
	InputPath  string
	OutputPath string

	// Search backend: "brave", "google" or "file".
	SearchProvider string
	BraveKey       string
	BraveCountry   string
	BraveLang      string
	GoogleKey      string
	GoogleCSEID    string
	SearchFile     string
	SiteQueries    bool

	// LLM oracle
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Pipeline knobs
	Threshold       float64
	PDFSizeLimitMB  int
	Workers         int
	PerQueryResults int
	MaxCandidates   int
	QueryDelay      time.Duration
	FetchTimeout    time.Duration
	RenderTimeout   time.Duration
	EnableRender    bool
	EnableSitemap   bool
	UserAgent       string

	Verbose bool
}
