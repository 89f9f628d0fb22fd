package discover

import (
	"context"
	"errors"
	"testing"

	"github.com/vdpscout/vdpscout/internal/candidate"
	"github.com/vdpscout/vdpscout/internal/company"
	"github.com/vdpscout/vdpscout/internal/search"
	"github.com/vdpscout/vdpscout/internal/vocab"
)

// fakeProvider replays the same canned results for every query.
type fakeProvider struct {
	results []search.Result
	err     error
	queries []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func testCompany() company.Company {
	return company.Company{Name: "Example Corp AG", BaseURL: "example.com"}
}

func TestSearchAdapter_FiltersAndDedups(t *testing.T) {
	p := &fakeProvider{results: []search.Result{
		{URL: "https://www.example.com/vulnerability-disclosure"},
		{URL: "https://www.example.com/vulnerability-disclosure?utm_source=x"},
		{URL: "https://irrelevant.com/blog"},
		{URL: "https://www.othercompany.com/security"},
	}}
	a := &SearchAdapter{Provider: p, Vocab: vocab.Default()}

	got, err := a.Discover(context.Background(), testCompany())
	if err != nil {
		t.Fatalf("discover error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate after filter and dedup, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://www.example.com/vulnerability-disclosure" {
		t.Fatalf("unexpected candidate: %q", got[0].URL)
	}
	if got[0].Source != candidate.SourceSearch {
		t.Fatalf("unexpected source: %q", got[0].Source)
	}
}

func TestSearchAdapter_InternalBeforePlatform(t *testing.T) {
	p := &fakeProvider{results: []search.Result{
		{URL: "https://www.intigriti.com/programs/example/example-vdp"},
		{URL: "https://www.example.com/security-policy"},
	}}
	a := &SearchAdapter{Provider: p, Vocab: vocab.Default()}

	got, err := a.Discover(context.Background(), testCompany())
	if err != nil {
		t.Fatalf("discover error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://www.example.com/security-policy" {
		t.Fatalf("internal url must come first, got %q", got[0].URL)
	}
	if got[1].Source != candidate.SourceExternalPlatform {
		t.Fatalf("platform url must carry the platform source, got %q", got[1].Source)
	}
}

func TestSearchAdapter_CapsCandidates(t *testing.T) {
	p := &fakeProvider{results: []search.Result{
		{URL: "https://www.example.com/security-policy"},
		{URL: "https://www.example.com/vulnerability-disclosure"},
		{URL: "https://www.example.com/product-security"},
	}}
	a := &SearchAdapter{Provider: p, Vocab: vocab.Default(), MaxCandidates: 2}

	got, err := a.Discover(context.Background(), testCompany())
	if err != nil {
		t.Fatalf("discover error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(got))
	}
}

func TestSearchAdapter_SurvivesQueryFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("backend down")}
	a := &SearchAdapter{Provider: p, Vocab: vocab.Default()}

	got, err := a.Discover(context.Background(), testCompany())
	if err != nil {
		t.Fatalf("per-query failures must not abort discovery: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestSearchAdapter_BuildQueries(t *testing.T) {
	a := &SearchAdapter{Vocab: vocab.Default(), SiteQueries: true}
	queries := a.buildQueries(testCompany())
	if len(queries) == 0 {
		t.Fatal("expected queries")
	}
	want := map[string]bool{
		"site:example.com vdp":                   false,
		"Example Corp AG responsible disclosure": false,
		"Example Corp AG site:hackerone.com":     false,
		"Example site:app.intigriti.com":         false,
	}
	for _, q := range queries {
		if _, ok := want[q]; ok {
			want[q] = true
		}
	}
	for q, seen := range want {
		if !seen {
			t.Errorf("query class missing: %q", q)
		}
	}
	// Stable ordering across runs.
	again := a.buildQueries(testCompany())
	if len(again) != len(queries) {
		t.Fatalf("query set size changed: %d vs %d", len(again), len(queries))
	}
	for i := range queries {
		if queries[i] != again[i] {
			t.Fatalf("query order not stable at %d: %q vs %q", i, queries[i], again[i])
		}
	}
}
