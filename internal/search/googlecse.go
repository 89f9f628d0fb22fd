package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GoogleCSE implements Provider against the Google Custom Search JSON API.
type GoogleCSE struct {
	APIKey     string
	CSEID      string
	Endpoint   string // defaults to the public API endpoint
	HTTPClient *http.Client
}

const googleCSEEndpoint = "https://www.googleapis.com/customsearch/v1"

func (g *GoogleCSE) Name() string { return "google" }

func (g *GoogleCSE) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if g.APIKey == "" || g.CSEID == "" {
		return nil, fmt.Errorf("missing google cse credentials")
	}
	if limit <= 0 {
		limit = 5
	}
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = googleCSEEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", g.APIKey)
	q.Set("cx", g.CSEID)
	q.Set("q", query)
	q.Set("num", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	hc := g.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("google cse status: %d", resp.StatusCode)
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(gr.Items))
	for _, item := range gr.Items {
		if item.Link == "" {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(item.Title),
			URL:     strings.TrimSpace(item.Link),
			Snippet: strings.TrimSpace(item.Snippet),
			Source:  g.Name(),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}
