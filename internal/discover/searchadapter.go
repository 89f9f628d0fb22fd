package discover

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vdpscout/vdpscout/internal/candidate"
	"github.com/vdpscout/vdpscout/internal/canon"
	"github.com/vdpscout/vdpscout/internal/company"
	"github.com/vdpscout/vdpscout/internal/filter"
	"github.com/vdpscout/vdpscout/internal/search"
	"github.com/vdpscout/vdpscout/internal/vocab"
)

// SearchAdapter turns a web-search backend into a candidate source.
// It issues three query classes (site-scoped, company-scoped against
// the disclosure vocabulary, external-platform-scoped), merges results
// into a running set keyed by canonical URL, filters them, and returns
// at most MaxCandidates with internal URLs ordered before platform ones.
type SearchAdapter struct {
	Provider      search.Provider
	Vocab         vocab.Vocab
	PerQuery      int           // result cap per query, default 5
	MaxCandidates int           // cap on returned candidates, default 5
	QueryDelay    *rate.Limiter // paces queries to avoid burst rate limiting
	SiteQueries   bool          // include site:-restricted keyword queries
}

func (a *SearchAdapter) Name() string {
	if a.Provider != nil {
		return a.Provider.Name()
	}
	return "search"
}

func (a *SearchAdapter) Discover(ctx context.Context, c company.Company) ([]candidate.Candidate, error) {
	if a.Provider == nil {
		return nil, nil
	}
	perQuery := a.PerQuery
	if perQuery <= 0 {
		perQuery = 5
	}
	maxTotal := a.MaxCandidates
	if maxTotal <= 0 {
		maxTotal = 5
	}

	queries := a.buildQueries(c)
	seen := map[string]struct{}{}
	var raw []string

	for _, q := range queries {
		if a.QueryDelay != nil {
			if err := a.QueryDelay.Wait(ctx); err != nil {
				return nil, err
			}
		}
		results, err := a.Provider.Search(ctx, q, perQuery)
		if err != nil {
			// One failed query does not spoil the rest.
			log.Warn().Err(err).Str("query", q).Str("provider", a.Name()).Msg("search query failed")
			continue
		}
		for _, r := range results {
			key := canon.Canonicalize(r.URL)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			raw = append(raw, r.URL)
			log.Debug().Str("url", key).Str("query", q).Msg("search result")
		}
	}

	f := filter.New(a.Vocab, c)
	kept := make([]string, 0, len(raw))
	dedup := map[string]struct{}{}
	for _, u := range raw {
		if !f.IsRelevant(u) {
			continue
		}
		key := canon.Canonicalize(u)
		if _, ok := dedup[key]; ok {
			continue
		}
		dedup[key] = struct{}{}
		kept = append(kept, key)
	}

	ordered := a.internalFirst(kept)
	if len(ordered) > maxTotal {
		ordered = ordered[:maxTotal]
	}

	out := make([]candidate.Candidate, 0, len(ordered))
	for _, u := range ordered {
		src := candidate.SourceSearch
		if a.isPlatformURL(u) {
			src = candidate.SourceExternalPlatform
		}
		out = append(out, candidate.Candidate{URL: u, Source: src, CanonicalURL: u})
	}
	return out, nil
}

// buildQueries assembles the query classes in a stable order so runs are
// reproducible against identical backend responses.
func (a *SearchAdapter) buildQueries(c company.Company) []string {
	set := map[string]struct{}{}

	if a.SiteQueries && c.BaseURL != "" {
		for _, kw := range a.Vocab.SearchKeywords {
			set["site:"+c.BaseURL+" "+kw] = struct{}{}
		}
	}
	for _, term := range a.Vocab.DisclosureTerms {
		set[c.Name+" "+term] = struct{}{}
	}

	ext := []string{
		c.Name + " site:app.intigriti.com",
		c.Name + " site:intigriti.com programs",
		c.Name + " site:hackerone.com",
		c.Name + " hackerone program",
	}
	if first := company.FirstToken(c.Name); len(first) >= 3 {
		ext = append(ext,
			first+" site:app.intigriti.com",
			first+" site:hackerone.com",
			first+" intigriti program",
			first+" hackerone program",
		)
	}
	for _, q := range ext {
		set[q] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// internalFirst keeps discovery order but moves external platform URLs
// to the tail so company-hosted pages win candidate-cap contention.
func (a *SearchAdapter) internalFirst(urls []string) []string {
	internal := make([]string, 0, len(urls))
	external := make([]string, 0, len(urls))
	for _, u := range urls {
		if a.isPlatformURL(u) {
			external = append(external, u)
		} else {
			internal = append(internal, u)
		}
	}
	return append(internal, external...)
}

func (a *SearchAdapter) isPlatformURL(raw string) bool {
	u, err := url.Parse(strings.ToLower(raw))
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, d := range a.Vocab.PlatformHosts {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}
