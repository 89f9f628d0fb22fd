// Package resolve owns the candidate resolution pipeline for one
// company: discovery fan-in, canonical deduplication, bounded-parallel
// fetch+score, threshold selection and structured extraction.
package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vdpscout/vdpscout/internal/candidate"
	"github.com/vdpscout/vdpscout/internal/canon"
	"github.com/vdpscout/vdpscout/internal/company"
	"github.com/vdpscout/vdpscout/internal/discover"
	"github.com/vdpscout/vdpscout/internal/fetch"
	"github.com/vdpscout/vdpscout/internal/policy"
)

// DefaultThreshold is the minimum confidence a candidate must strictly
// exceed to be eligible for selection.
const DefaultThreshold = 0.6

// Authority resolves the host's policy-pointer file.
// *discover.SecurityTxt is the production implementation.
type Authority interface {
	Check(ctx context.Context, c company.Company) discover.SecurityTxtResult
}

// ContentFetcher retrieves and renders one URL. *fetch.Fetcher is the
// production implementation.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Content, error)
}

// ConfidenceScorer rates fetched content. *score.Scorer is the
// production implementation.
type ConfidenceScorer interface {
	Score(ctx context.Context, content *fetch.Content, c company.Company, url string) float64
}

// PolicyExtractor produces the structured field map for winning content.
// *oracle.Oracle is the production implementation.
type PolicyExtractor interface {
	ExtractPolicy(ctx context.Context, companyName, text string) (map[string]any, error)
}

// Resolver wires the pipeline stages for a batch of companies. All
// fields are read-only during Resolve; the candidate set of a run is
// owned by the resolver and only read by scoring workers.
type Resolver struct {
	SecurityTxt Authority
	Adapters    []discover.Adapter
	Fetcher     ContentFetcher
	Scorer      ConfidenceScorer
	Extractor   PolicyExtractor
	// Threshold zero means DefaultThreshold.
	Threshold float64
	// Workers bounds parallel candidate fetch+score; zero means 4.
	Workers int
}

// Outcome is the result of one company resolution run. Err is set only
// for a catastrophic failure at the orchestration boundary; "no policy
// found" is a valid outcome with an empty PolicyURL.
type Outcome struct {
	Company        company.Company
	SecurityTxtURL string
	PolicyURL      string
	Source         candidate.Source
	Confidence     float64
	Candidates     []candidate.Candidate
	Record         policy.Record
	Err            error
}

// Resolve runs the pipeline for one company. Adapter and candidate
// failures degrade to empty results; a panic anywhere inside surfaces
// as the outcome's Err so the batch can continue.
func (r *Resolver) Resolve(ctx context.Context, c company.Company) (out Outcome) {
	out.Company = c
	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("resolution panic for %s: %v", c.Name, rec)
		}
	}()

	log.Info().Str("company", c.Name).Str("base_url", c.BaseURL).Msg("resolving company")

	// Authoritative short-circuit: a security.txt that both resolves
	// and declares a policy is accepted without scoring.
	if r.SecurityTxt != nil {
		sec := r.SecurityTxt.Check(ctx, c)
		out.SecurityTxtURL = sec.DocumentURL
		if sec.DocumentURL != "" && sec.PolicyURL != "" {
			out.PolicyURL = sec.PolicyURL
			out.Source = candidate.SourceAuthoritative
			out.Record = r.extractRecord(ctx, c, sec.PolicyURL, candidate.SourceAuthoritative, nil)
			return out
		}
	}

	out.Candidates = r.discoverCandidates(ctx, c)
	if len(out.Candidates) == 0 {
		log.Warn().Str("company", c.Name).Msg("no candidates discovered")
		out.Record = policy.Minimal(c.Name, "", "")
		return out
	}

	scored, contents := r.scoreCandidates(ctx, c, out.Candidates)

	threshold := r.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	best := -1
	for i, sc := range scored {
		if sc.Confidence <= threshold {
			log.Debug().Str("url", sc.Candidate.CanonicalURL).Float64("confidence", sc.Confidence).Msg("candidate below threshold")
			continue
		}
		// Strict inequality keeps the first-seen candidate on ties.
		if best == -1 || sc.Confidence > scored[best].Confidence {
			best = i
		}
	}
	if best == -1 {
		log.Warn().Str("company", c.Name).Float64("threshold", threshold).Msg("no candidate above threshold")
		out.Record = policy.Minimal(c.Name, "", "")
		return out
	}

	winner := scored[best]
	out.PolicyURL = winner.Candidate.CanonicalURL
	out.Source = winner.Candidate.Source
	out.Confidence = winner.Confidence
	log.Info().Str("company", c.Name).Str("url", out.PolicyURL).Float64("confidence", out.Confidence).Msg("candidate selected")

	out.Record = r.extractRecord(ctx, c, out.PolicyURL, winner.Candidate.Source, contents[best])
	return out
}

// discoverCandidates fans in all adapters sequentially and deduplicates
// by canonical URL, preserving first-seen order across adapters.
func (r *Resolver) discoverCandidates(ctx context.Context, c company.Company) []candidate.Candidate {
	seen := map[string]struct{}{}
	var merged []candidate.Candidate
	for _, a := range r.Adapters {
		found, err := a.Discover(ctx, c)
		if err != nil {
			log.Warn().Err(err).Str("adapter", a.Name()).Str("company", c.Name).Msg("discovery adapter failed")
			continue
		}
		for _, cand := range found {
			if cand.CanonicalURL == "" {
				cand.CanonicalURL = canon.Canonicalize(cand.URL)
			}
			if _, ok := seen[cand.CanonicalURL]; ok {
				continue
			}
			seen[cand.CanonicalURL] = struct{}{}
			merged = append(merged, cand)
		}
	}
	return merged
}

// scoreCandidates fetches and scores every candidate on a bounded worker
// pool. Workers write only into their own index slot, so completion
// order cannot affect selection: the fold below reads slots in first-seen
// order.
func (r *Resolver) scoreCandidates(ctx context.Context, c company.Company, cands []candidate.Candidate) ([]candidate.Scored, []*fetch.Content) {
	workers := r.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(cands) {
		workers = len(cands)
	}

	scored := make([]candidate.Scored, len(cands))
	contents := make([]*fetch.Content, len(cands))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				cand := cands[i]
				scored[i] = candidate.Scored{Candidate: cand}
				content, err := r.Fetcher.Fetch(ctx, cand.CanonicalURL)
				if err != nil {
					log.Warn().Err(err).Str("url", cand.CanonicalURL).Msg("fetch failed, skipping candidate")
					continue
				}
				if content == nil {
					continue
				}
				contents[i] = content
				conf := r.Scorer.Score(ctx, content, c, cand.CanonicalURL)
				scored[i].Confidence = conf
				log.Info().Str("url", cand.CanonicalURL).Float64("confidence", conf).Msg("candidate scored")
			}
		}()
	}
	for i := range cands {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return scored, contents
}

// extractRecord fetches the winning URL when its content is not already
// in hand and runs the extraction oracle. Any failure yields the minimal
// record; extraction never fails a run.
func (r *Resolver) extractRecord(ctx context.Context, c company.Company, policyURL string, src candidate.Source, content *fetch.Content) policy.Record {
	if content == nil {
		var err error
		content, err = r.Fetcher.Fetch(ctx, policyURL)
		if err != nil || content == nil {
			log.Warn().Err(err).Str("url", policyURL).Msg("no content for extraction")
			return policy.Minimal(c.Name, policyURL, src)
		}
	}
	fields, err := r.Extractor.ExtractPolicy(ctx, c.Name, content.Text)
	if err != nil {
		log.Warn().Err(err).Str("url", policyURL).Msg("extraction oracle failed")
		return policy.Minimal(c.Name, policyURL, src)
	}
	return policy.Record{
		CompanyName: c.Name,
		PolicyURL:   policyURL,
		Source:      src,
		Fields:      policy.Clean(fields, policyURL),
	}
}
