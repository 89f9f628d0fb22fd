// Package score assigns a relevance confidence to fetched candidate
// content. Scoring is an ordered chain of strategies: deterministic
// platform and URL-pattern overrides first, the semantic oracle last.
// The chain stops at the first strategy with a definite answer.
package score

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vdpscout/vdpscout/internal/company"
	"github.com/vdpscout/vdpscout/internal/extract"
	"github.com/vdpscout/vdpscout/internal/fetch"
	"github.com/vdpscout/vdpscout/internal/oracle"
	"github.com/vdpscout/vdpscout/internal/vocab"
)

// strategy returns a confidence and whether its answer is definite.
type strategy func(ctx context.Context, content *fetch.Content, c company.Company, url string) (float64, bool)

// Scorer evaluates candidate content for one run's vocabularies.
type Scorer struct {
	Vocab  vocab.Vocab
	Oracle *oracle.Oracle
}

// Score returns the confidence in [0,1] that content is the company's
// disclosure policy. Oracle failure scores 0 — fail closed, never fatal.
func (s *Scorer) Score(ctx context.Context, content *fetch.Content, c company.Company, url string) float64 {
	chain := []strategy{
		s.urlPatternOverride,
		s.hackeroneOverride,
		s.oracleScore,
	}
	for _, st := range chain {
		if conf, ok := st(ctx, content, c, url); ok {
			return conf
		}
	}
	return 0
}

// urlPatternOverride pins non-policy document URLs (site maps, ESG and
// annual report indexes) to zero without consulting the oracle.
func (s *Scorer) urlPatternOverride(_ context.Context, _ *fetch.Content, _ company.Company, url string) (float64, bool) {
	lc := strings.ToLower(url)
	for _, marker := range s.Vocab.NonPolicyPathMarkers {
		if strings.Contains(lc, strings.ToLower(marker)) {
			log.Info().Str("url", url).Str("marker", marker).Msg("non-policy url pattern, confidence 0")
			return 0, true
		}
	}
	return 0, false
}

// hackeroneOverride inspects HackerOne program pages at the DOM level.
// An external/unclaimed marker means no active relationship with the
// company (0.0); its absence on a program page confirms an internal
// program (1.0). DOM structure is authoritative here, so the oracle is
// bypassed entirely.
func (s *Scorer) hackeroneOverride(_ context.Context, content *fetch.Content, _ company.Company, url string) (float64, bool) {
	if !strings.Contains(strings.ToLower(url), "hackerone.com") {
		return 0, false
	}
	if content == nil || content.Raw == "" {
		return 0, true
	}
	if extract.HasMetaClass([]byte(content.Raw), "description", "spec-external-unclaimed") {
		log.Info().Str("url", url).Msg("hackerone external program, confidence 0")
		return 0, true
	}
	log.Info().Str("url", url).Msg("hackerone internal program, confidence 1")
	return 1, true
}

func (s *Scorer) oracleScore(ctx context.Context, content *fetch.Content, c company.Company, url string) (float64, bool) {
	if content == nil || content.Text == "" {
		return 0, true
	}
	conf, err := s.Oracle.Relevance(ctx, c.Name, content.Text)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("relevance oracle failed, confidence 0")
		return 0, true
	}
	return conf, true
}
