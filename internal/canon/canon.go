// Package canon normalizes candidate URLs into their deduplication form.
package canon

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	intigritiProgram = regexp.MustCompile(`^/programs/[^/]+/[^/]+`)
	hackeronePrefix  = regexp.MustCompile(`^/[^/]+`)
)

// Canonicalize strips the query string and fragment from a URL, keeping
// scheme, host and path. URLs on known bug-bounty platforms are further
// collapsed to their program root so that deep sub-pages of one program
// (detail, updates, hall of fame) dedupe to a single candidate.
// The function is idempotent: feeding its output back yields the same
// string. Unparseable input is returned unchanged.
func Canonicalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	host := strings.ToLower(u.Hostname())

	if strings.Contains(host, "app.intigriti.com") {
		if m := intigritiProgram.FindString(u.Path); m != "" {
			return u.Scheme + "://" + host + m
		}
	}
	if strings.Contains(host, "hackerone.com") {
		if m := hackeronePrefix.FindString(u.Path); m != "" {
			return u.Scheme + "://" + host + m
		}
	}

	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
