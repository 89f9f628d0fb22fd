package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBrave_Search_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "token" {
			t.Errorf("missing subscription token, got %q", got)
		}
		if got := r.URL.Query().Get("country"); got != "AT" {
			t.Errorf("country not forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"web": map[string]any{
				"results": []map[string]any{
					{"title": "Policy", "url": "https://example.com/security", "description": "report a vulnerability"},
					{"title": "No URL", "url": ""},
				},
			},
		})
	}))
	defer srv.Close()

	b := &Brave{APIKey: "token", Endpoint: srv.URL, Country: "AT", HTTPClient: srv.Client()}
	got, err := b.Search(context.Background(), "example vulnerability disclosure", 5)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 valid result, got %d", len(got))
	}
	if got[0].URL != "https://example.com/security" {
		t.Fatalf("unexpected url: %q", got[0].URL)
	}
	if got[0].Source != "brave" {
		t.Fatalf("unexpected source: %q", got[0].Source)
	}
}

func TestBrave_Search_RequiresKey(t *testing.T) {
	b := &Brave{}
	if _, err := b.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestBrave_Search_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	b := &Brave{APIKey: "token", Endpoint: srv.URL, HTTPClient: srv.Client()}
	if _, err := b.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestBrave_Search_RetriesOn429(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"web": map[string]any{
				"results": []map[string]any{
					{"title": "Policy", "url": "https://example.com/security"},
				},
			},
		})
	}))
	defer srv.Close()

	b := &Brave{APIKey: "token", Endpoint: srv.URL, HTTPClient: srv.Client(), backoffUnit: time.Millisecond}
	got, err := b.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected one retry, got %d attempts", attempts)
	}
	if len(got) != 1 {
		t.Fatalf("expected result after retry, got %d", len(got))
	}
}

func TestBrave_Search_RateLimitExhausted(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := &Brave{APIKey: "token", Endpoint: srv.URL, HTTPClient: srv.Client(), backoffUnit: time.Millisecond}
	start := time.Now()
	_, err := b.Search(context.Background(), "q", 5)
	if err == nil {
		t.Fatal("exhausted retries must surface an error")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	// No sleep after the final attempt: only the two inter-attempt
	// backoffs (2ms + 4ms at the test's unit) may elapse.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("final attempt must not back off, took %v", elapsed)
	}
}
