package discover

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yterajima/go-sitemap"

	"github.com/vdpscout/vdpscout/internal/candidate"
	"github.com/vdpscout/vdpscout/internal/company"
	"github.com/vdpscout/vdpscout/internal/filter"
	"github.com/vdpscout/vdpscout/internal/vocab"
)

// Sitemap walks the site's declared sitemap tree and yields every listed
// page whose URL carries a disclosure-related keyword. Sitemap locations
// come from robots.txt Sitemap directives with /sitemap.xml as fallback;
// nested sitemap indexes are resolved by the sitemap library. Any
// resolution failure degrades to an empty result.
type Sitemap struct {
	Vocab      vocab.Vocab
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
}

// sitemapFetch carries the adapter's context, client and deadline into
// the library's fetch hook; the library threads it through nested
// sitemap indexes unchanged.
type sitemapFetch struct {
	ctx       context.Context
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func init() {
	sitemap.SetFetch(fetchSitemap)
}

// fetchSitemap replaces the library's default fetch, which has no
// request deadline.
func fetchSitemap(rawURL string, options interface{}) ([]byte, error) {
	opts, _ := options.(*sitemapFetch)
	if opts == nil {
		opts = &sitemapFetch{}
	}
	ctx := opts.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if opts.userAgent != "" {
		req.Header.Set("User-Agent", opts.userAgent)
	}
	hc := opts.client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
}

func (s *Sitemap) Name() string { return "sitemap" }

func (s *Sitemap) Discover(ctx context.Context, c company.Company) ([]candidate.Candidate, error) {
	origin := strings.TrimSuffix(normalizeOrigin(c.BaseURL), "/")
	if origin == "" {
		return nil, fmt.Errorf("empty base url")
	}

	locations := s.sitemapLocations(ctx, origin)
	f := filter.New(s.Vocab, c)

	seen := map[string]struct{}{}
	var out []candidate.Candidate
	for _, loc := range locations {
		smap, err := sitemap.Get(loc, &sitemapFetch{
			ctx:       ctx,
			client:    s.HTTPClient,
			userAgent: s.UserAgent,
			timeout:   s.Timeout,
		})
		if err != nil {
			log.Debug().Err(err).Str("sitemap", loc).Msg("sitemap not resolvable")
			continue
		}
		log.Info().Str("sitemap", loc).Int("pages", len(smap.URL)).Msg("sitemap walked")
		for _, page := range smap.URL {
			u := strings.TrimSpace(page.Loc)
			if u == "" || !s.hasKeyword(u) {
				continue
			}
			if !f.PassesStrict(u) {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, candidate.Candidate{URL: u, Source: candidate.SourceSitemap})
		}
	}
	log.Info().Str("company", c.Name).Int("candidates", len(out)).Msg("sitemap discovery done")
	return out, nil
}

func (s *Sitemap) hasKeyword(rawURL string) bool {
	lc := strings.ToLower(rawURL)
	for _, kw := range s.Vocab.SitemapKeywords {
		if strings.Contains(lc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// sitemapLocations reads robots.txt for Sitemap directives and falls
// back to the conventional root location when none are declared.
func (s *Sitemap) sitemapLocations(ctx context.Context, origin string) []string {
	fallback := []string{origin + "/sitemap.xml"}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return fallback
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var locations []string
	sc := bufio.NewScanner(io.LimitReader(resp.Body, 256*1024))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Sitemap") {
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			locations = append(locations, v)
		}
	}
	if len(locations) == 0 {
		return fallback
	}
	return locations
}
