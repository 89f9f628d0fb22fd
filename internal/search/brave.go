package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Brave implements Provider against the Brave Web Search API. Rate-limit
// responses (429) are retried up to three times with exponential backoff
// capped at eight seconds; the retry budget is local to one query, and
// exhausting it surfaces as an error so the caller's warn log fires.
type Brave struct {
	APIKey     string
	Endpoint   string // defaults to the public API endpoint
	Country    string // e.g. "AT"
	SearchLang string // e.g. "en"
	HTTPClient *http.Client

	// backoffUnit scales the 429 backoff; zero means one second.
	// Tests shrink it to keep retries fast.
	backoffUnit time.Duration
}

const (
	braveWebEndpoint = "https://api.search.brave.com/res/v1/web/search"
	braveMaxAttempts = 3
)

func (b *Brave) Name() string { return "brave" }

func (b *Brave) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if b.APIKey == "" {
		return nil, fmt.Errorf("missing brave api key")
	}
	if limit <= 0 {
		limit = 5
	}
	endpoint := b.Endpoint
	if endpoint == "" {
		endpoint = braveWebEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", limit))
	if b.Country != "" {
		q.Set("country", b.Country)
	}
	if b.SearchLang != "" {
		q.Set("search_lang", b.SearchLang)
	}
	u.RawQuery = q.Encode()

	hc := b.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Subscription-Token", b.APIKey)

		resp, err := hc.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= braveMaxAttempts {
				return nil, fmt.Errorf("brave rate limited, %d attempts exhausted", attempt)
			}
			unit := b.backoffUnit
			if unit <= 0 {
				unit = time.Second
			}
			backoff := time.Duration(1<<attempt) * unit
			if backoff > 8*unit {
				backoff = 8 * unit
			}
			log.Warn().Str("query", query).Int("attempt", attempt).Dur("backoff", backoff).Msg("brave rate limited")
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("brave status: %d", resp.StatusCode)
		}

		var br braveResponse
		err = json.NewDecoder(resp.Body).Decode(&br)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		out := make([]Result, 0, len(br.Web.Results))
		for _, r := range br.Web.Results {
			if r.URL == "" {
				continue
			}
			out = append(out, Result{
				Title:   strings.TrimSpace(r.Title),
				URL:     strings.TrimSpace(r.URL),
				Snippet: strings.TrimSpace(r.Description),
				Source:  b.Name(),
			})
			if len(out) >= limit {
				break
			}
		}
		return out, nil
	}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}
