package discover

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vdpscout/vdpscout/internal/company"
)

func TestSecurityTxt_Check_WellKnown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/security.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "# security contact file")
		fmt.Fprintln(w, "Contact: mailto:security@example.com")
		fmt.Fprintln(w, "Policy: https://example.com/vulnerability-disclosure")
	}))
	defer srv.Close()

	s := &SecurityTxt{HTTPClient: srv.Client()}
	got := s.Check(context.Background(), company.Company{Name: "Example Corp AG", BaseURL: srv.URL})

	if got.DocumentURL != srv.URL+"/.well-known/security.txt" {
		t.Fatalf("unexpected document url: %q", got.DocumentURL)
	}
	if got.PolicyURL != "https://example.com/vulnerability-disclosure" {
		t.Fatalf("unexpected policy url: %q", got.PolicyURL)
	}
}

func TestSecurityTxt_Check_LegacyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/security.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "Contact: mailto:security@example.com")
	}))
	defer srv.Close()

	s := &SecurityTxt{HTTPClient: srv.Client()}
	got := s.Check(context.Background(), company.Company{Name: "Example Corp AG", BaseURL: srv.URL})

	if got.DocumentURL != srv.URL+"/security.txt" {
		t.Fatalf("expected legacy path fallback, got %q", got.DocumentURL)
	}
	if got.PolicyURL != "" {
		t.Fatalf("no policy field declared, got %q", got.PolicyURL)
	}
}

func TestSecurityTxt_Check_RejectsWrongMediaType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// SPA servers tend to answer every path with the index page.
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, "<html><body>not a policy file</body></html>")
	}))
	defer srv.Close()

	s := &SecurityTxt{HTTPClient: srv.Client()}
	got := s.Check(context.Background(), company.Company{Name: "Example Corp AG", BaseURL: srv.URL})

	if got.DocumentURL != "" || got.PolicyURL != "" {
		t.Fatalf("expected empty result for html response, got %+v", got)
	}
}

func TestSecurityTxt_Check_Missing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := &SecurityTxt{HTTPClient: srv.Client()}
	got := s.Check(context.Background(), company.Company{Name: "Example Corp AG", BaseURL: srv.URL})
	if got != (SecurityTxtResult{}) {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestParsePolicyField(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "case insensitive field name",
			body: "contact: mailto:sec@example.com\npolicy: https://example.com/vdp\n",
			want: "https://example.com/vdp",
		},
		{
			name: "comments and blanks skipped",
			body: "# header\n\nPolicy:   https://example.com/policy  \n",
			want: "https://example.com/policy",
		},
		{
			name: "first policy field wins",
			body: "Policy: https://example.com/a\nPolicy: https://example.com/b\n",
			want: "https://example.com/a",
		},
		{
			name: "no policy field",
			body: "Contact: mailto:sec@example.com\nExpires: 2030-01-01T00:00:00Z\n",
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parsePolicyField(tc.body); got != tc.want {
				t.Fatalf("parsePolicyField() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeOrigin(t *testing.T) {
	if got := normalizeOrigin("example.com"); got != "https://example.com" {
		t.Fatalf("bare domain: got %q", got)
	}
	if got := normalizeOrigin("http://example.com"); got != "http://example.com" {
		t.Fatalf("explicit scheme kept: got %q", got)
	}
}
