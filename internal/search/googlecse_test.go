package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleCSE_Search_ParsesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "key" || q.Get("cx") != "cse" {
			t.Errorf("credentials not forwarded: key=%q cx=%q", q.Get("key"), q.Get("cx"))
		}
		if q.Get("num") != "3" {
			t.Errorf("limit not forwarded, got %q", q.Get("num"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"title": "VDP", "link": "https://example.com/vdp", "snippet": "disclosure"},
				{"title": "broken", "link": ""},
			},
		})
	}))
	defer srv.Close()

	g := &GoogleCSE{APIKey: "key", CSEID: "cse", Endpoint: srv.URL, HTTPClient: srv.Client()}
	got, err := g.Search(context.Background(), "example vdp", 3)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].URL != "https://example.com/vdp" || got[0].Source != "google" {
		t.Fatalf("unexpected result: %+v", got[0])
	}
}

func TestGoogleCSE_Search_RequiresCredentials(t *testing.T) {
	g := &GoogleCSE{APIKey: "key"}
	if _, err := g.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error without cse id")
	}
}
