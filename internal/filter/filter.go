// Package filter decides whether a discovered URL plausibly hosts the
// company's disclosure policy. It is pure heuristics over the URL string;
// content is never fetched here.
package filter

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/language"

	"github.com/vdpscout/vdpscout/internal/company"
	"github.com/vdpscout/vdpscout/internal/vocab"
)

var (
	hostLabelSplit = regexp.MustCompile(`[.\-]`)
	pathWordSplit  = regexp.MustCompile(`[^a-z0-9]+`)
	localePattern  = regexp.MustCompile(`/([a-z]{2,3}-[a-z]{2,3})/`)
	yearPattern    = regexp.MustCompile(`(19[9][0-9]|20[0-2][0-9])`)
)

// Filter evaluates candidate URLs against one company's identity.
type Filter struct {
	Vocab   vocab.Vocab
	Company company.Company
	tokens  company.Tokens

	allowedLocales map[string]bool
}

// New builds a filter for one company. The allowed-locale list is
// canonicalized through BCP 47 parsing so that spellings like "en-uk"
// and "en-GB" compare equal.
func New(v vocab.Vocab, c company.Company) *Filter {
	f := &Filter{
		Vocab:          v,
		Company:        c,
		tokens:         company.Normalize(c.Name),
		allowedLocales: make(map[string]bool, len(v.AllowedLocales)),
	}
	for _, loc := range v.AllowedLocales {
		if tag, err := language.Parse(loc); err == nil {
			f.allowedLocales[strings.ToLower(tag.String())] = true
		} else {
			f.allowedLocales[strings.ToLower(loc)] = true
		}
	}
	return f
}

// IsRelevant reports whether a URL passes the disallow list and at least
// one of the two positive-match rules: company host plus disclosure
// keyword, or external platform plus company path word plus keyword.
func (f *Filter) IsRelevant(raw string) bool {
	lc := strings.ToLower(raw)
	u, err := url.Parse(lc)
	if err != nil {
		return false
	}
	hostname := u.Hostname()
	path := u.Path

	for _, bad := range f.Vocab.Disallowed {
		if strings.Contains(lc, bad) {
			return false
		}
	}

	hasKeyword := false
	for _, kw := range f.Vocab.URLKeywords {
		if strings.Contains(lc, strings.ToLower(kw)) {
			hasKeyword = true
			break
		}
	}

	baseMatch := f.Company.BaseURL != "" && strings.Contains(hostname, strings.ToLower(f.Company.BaseURL))
	if (baseMatch || f.hostMatchesCompany(hostname)) && hasKeyword {
		return true
	}

	if f.isPlatformHost(hostname) && f.companyWordInPath(path) && hasKeyword {
		return true
	}
	return false
}

// PassesStrict applies the sitemap post-filter: the extended sitemap
// disallow list, single-language path fragments, locale allow-listing
// and rejection of dated pages. A 4-digit year in 1990-2029 reliably
// marks news or report archives rather than a living policy page.
func (f *Filter) PassesStrict(raw string) bool {
	lc := strings.ToLower(raw)

	for _, bad := range f.Vocab.SitemapDisallowed {
		if strings.Contains(lc, bad) {
			return false
		}
	}
	for _, frag := range f.Vocab.DisallowedPathFragments {
		if strings.Contains(lc, frag) {
			return false
		}
	}

	if locales := localePattern.FindAllStringSubmatch(lc, -1); len(locales) > 0 {
		allowed := false
		for _, m := range locales {
			if f.localeAllowed(m[1]) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	return !yearPattern.MatchString(lc)
}

func (f *Filter) localeAllowed(code string) bool {
	if f.allowedLocales[code] {
		return true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return false
	}
	return f.allowedLocales[strings.ToLower(tag.String())]
}

func (f *Filter) isPlatformHost(hostname string) bool {
	for _, d := range f.Vocab.PlatformHosts {
		if strings.Contains(hostname, d) {
			return true
		}
	}
	return false
}

// hostMatchesCompany checks the hostname's dot/hyphen-delimited labels
// against the company tokens. Two strong hits always match; one strong
// hit suffices when the name has exactly one strong token; an acronym
// label only counts when the name has no strong tokens at all.
func (f *Filter) hostMatchesCompany(hostname string) bool {
	labels := hostLabelSplit.Split(hostname, -1)

	strongHits := 0
	for _, t := range f.tokens.Strong {
		for _, lbl := range labels {
			if lbl == t {
				strongHits++
				break
			}
		}
	}
	for _, t := range f.tokens.Strong {
		for _, lbl := range labels {
			if lbl != t && (strings.HasPrefix(lbl, t) || strings.HasSuffix(lbl, t)) {
				strongHits++
				break
			}
		}
	}

	if strongHits >= 2 {
		return true
	}
	if strongHits == 1 && len(f.tokens.Strong) == 1 {
		return true
	}
	if len(f.tokens.Strong) == 0 {
		for _, a := range f.tokens.Acronyms {
			for _, lbl := range labels {
				if lbl == a {
					return true
				}
			}
		}
	}
	return false
}

// companyWordInPath looks for a company token as a whole path word.
// A strong token anywhere wins; an acronym alone is accepted only when
// the name has no strong tokens.
func (f *Filter) companyWordInPath(path string) bool {
	parts := pathWordSplit.Split(path, -1)
	words := make(map[string]bool, len(parts))
	for _, p := range parts {
		if p != "" {
			words[p] = true
		}
	}
	for _, t := range f.tokens.Strong {
		if words[t] {
			return true
		}
	}
	if len(f.tokens.Strong) == 0 {
		for _, a := range f.tokens.Acronyms {
			if words[a] {
				return true
			}
		}
	}
	return false
}
