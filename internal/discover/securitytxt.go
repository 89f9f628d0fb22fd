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

	"github.com/vdpscout/vdpscout/internal/company"
)

// SecurityTxt resolves the RFC 9116 policy-pointer file on the target
// host. It is the authoritative discovery source: when the file declares
// a Policy field, the selection policy accepts it without scoring.
type SecurityTxt struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
}

// Result carries the resolved document URL and, when declared, the
// policy URL it points to. Both empty means no usable security.txt.
type SecurityTxtResult struct {
	DocumentURL string
	PolicyURL   string
}

// Check fetches the well-known location first and falls back to the
// legacy root path. A missing file or a non-text media type yields an
// empty result, not an error for the run.
func (s *SecurityTxt) Check(ctx context.Context, c company.Company) SecurityTxtResult {
	base := strings.TrimSuffix(normalizeOrigin(c.BaseURL), "/")
	for _, path := range []string{"/.well-known/security.txt", "/security.txt"} {
		docURL := base + path
		body, err := s.fetch(ctx, docURL)
		if err != nil {
			log.Debug().Err(err).Str("url", docURL).Msg("security.txt not usable")
			continue
		}
		policy := parsePolicyField(body)
		if policy != "" {
			log.Info().Str("company", c.Name).Str("policy", policy).Msg("policy declared in security.txt")
		} else {
			log.Info().Str("company", c.Name).Str("url", docURL).Msg("security.txt present without policy field")
		}
		return SecurityTxtResult{DocumentURL: docURL, PolicyURL: policy}
	}
	return SecurityTxtResult{}
}

func (s *SecurityTxt) fetch(ctx context.Context, rawURL string) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
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
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if ct != "" && !strings.HasPrefix(ct, "text/plain") {
		return "", fmt.Errorf("invalid media type: %s", ct)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// parsePolicyField scans security.txt lines for the first Policy field.
// Field names are case-insensitive per RFC 9116; comment lines start
// with '#'.
func parsePolicyField(body string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Policy") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// normalizeOrigin ensures a bare domain becomes an absolute HTTPS origin.
func normalizeOrigin(baseURL string) string {
	b := strings.TrimSpace(baseURL)
	if b == "" {
		return b
	}
	if !strings.HasPrefix(b, "http://") && !strings.HasPrefix(b, "https://") {
		return "https://" + b
	}
	return b
}
