// Package vocab holds the fixed heuristic vocabularies used by the
// discovery adapters and the relevance filter. The lists are loaded once
// at startup and passed explicitly; nothing in the pipeline mutates them.
package vocab

// Vocab groups the keyword lists for one resolution run.
type Vocab struct {
	// SearchKeywords seed site-scoped search queries.
	SearchKeywords []string
	// DisclosureTerms are high-signal phrases combined with the company
	// name for company-scoped search queries.
	DisclosureTerms []string
	// URLKeywords flag a URL as plausibly policy-related.
	URLKeywords []string
	// SitemapKeywords is the broader list applied to sitemap page URLs.
	SitemapKeywords []string
	// Disallowed rejects a URL outright regardless of other signals.
	Disallowed []string
	// SitemapDisallowed is the broader rejection list applied by the
	// strict sitemap post-filter; sitemaps surface far more marketing
	// and event pages than search results do.
	SitemapDisallowed []string
	// DisallowedPathFragments rejects single-language path prefixes
	// that never carry a locale the allow-list would accept.
	DisallowedPathFragments []string
	// NonPolicyPathMarkers force a zero confidence score when present in
	// a candidate URL (report indexes, site maps and the like).
	NonPolicyPathMarkers []string
	// PlatformHosts are known external bug-bounty platform domains.
	PlatformHosts []string
	// AllowedLocales are the locale codes tolerated in sitemap URLs.
	AllowedLocales []string
}

// Default returns the built-in vocabularies.
func Default() Vocab {
	return Vocab{
		SearchKeywords: []string{
			"vulnerability disclosure policy",
			"bug bounty program",
			"vulnerability response",
			"vdp",
			"Reporting a vulnerability",
			"PSIRT",
		},
		DisclosureTerms: []string{
			"vulnerability disclosure",
			"vulnerability disclosure policy",
			"responsible disclosure",
			"report a vulnerability",
			"security vulnerability reporting",
			"PSIRT",
			"product security",
		},
		URLKeywords: []string{
			"vdp", "psirt", "cert", "security", "cybersecurity", "security-policy",
			"security-team", "security-contact", "product-security", "incident-response",
			"psirt-policy", "vulnerability", "vulnerability-policy", "coordinated-disclosure",
			"coordinated-vulnerability", "responsible-disclosure", "responsible-reporting",
			"bugbounty", "bug-bounty", "bug_report", "report-a-vulnerability",
			"report-security", "report-security-issue", "security-report", "security-advisories",
			"programs", "penetration-testing", "zero-day", "disclosure",
		},
		SitemapKeywords: []string{
			"vdp", "psirt", "cert", "csirt", "vsrt", "vuln", "cve", "cvss",
			"vulnerability", "vulnerability-disclosure", "vulnerability-policy", "coordinated-disclosure",
			"responsible-disclosure", "coordinated-vulnerability", "disclosure-policy",
			"security-policy", "security-advisories", "security-advisory",
			"report-a-vulnerability", "report-vulnerability", "report-security", "report-issue",
			"security-contact", "contact-security", "security-report", "security-issue", "incident-report",
			"incident-response", "incident-coordination",
			"product-security", "security-team", "security-research", "cybersecurity",
			"penetration-testing", "pen-test", "red-team", "security-review",
			"bugbounty", "bug-bounty", "bug_bounty", "bugreport", "bug-report", "bug_report",
			"security-rewards", "rewards-program", "vulnerability-reward", "security-incentive",
			"disclosure-program", "vulnerability-coordination", "coordinated-vulnerability-disclosure",
			"zero-day", "zeroday", "exploit-disclosure", "security-programs",
			"authorized-testing", "safe-harbor", "legal-safe-harbor", "testing-authorization",
			"testing-policy", "testing-guidelines", "scope-of-testing",
		},
		Disallowed: []string{
			"career", "careers", "jobs", "job", "vacancy", "recruit",
			"stellenangebot", "karriere", "position", "openings", "hiring",
			"work-with-us", "jobportal", "news", "press", "media", "investor",
			"finance", "annual-report", "csr", "sustainability", "sustainable",
			"sitemap", "site-map", "taxonomy", "environmental-report", "company-reports",
			"sustainable-environmentally", "responsible-sourcing", "financial-disclosures",
			"climate", "eviroment", "esg", "cookie", "privacy", "blog", "music",
			"video", "suppliers", "efpia", "clinical", "song", "episode", "remix",
			"security.txt",
		},
		SitemapDisallowed: []string{
			"career", "careers", "jobs", "job", "vacancy", "recruit",
			"stellenangebot", "karriere", "position", "openings", "hiring",
			"work-with-us", "jobportal", "news", "press", "media", "investor",
			"finance", "annual-report", "csr", "sustainability", "sustainable",
			"sitemap", "site-map", "taxonomy", "environmental-report", "company-reports",
			"sustainable-environmentally", "responsible-sourcing", "financial-disclosures",
			"climate", "eviroment", "esg", "cookie", "privacy", "blog", "music",
			"video", "suppliers", "efpia", "clinical", "what-we-do", "employer",
			"concert", "gig", "livestream", "photostory", "watch", "playlist",
			"gallery", "festival", "event", "events", "episodes", "song", "remix", "hazardous",
			"goods", "by-design", "supply", "forming", "location", "certificate", "discoveries",
			"new", "webinar", "whitepaper", "basics", "certifi", "notes", "presentation",
		},
		DisallowedPathFragments: []string{
			"/cn/", "/jp/", "/fr/", "/es/", "/it/", "/pt/", "/ko/",
			"/zh/", "/ru/", "/ar/", "/pl/", "/tr/", "/th/", "/sv/", "/da/", "/nl/",
		},
		NonPolicyPathMarkers: []string{
			"site-map", "sitemap", "environmental-report", "annual-report",
			"company-reports", "sustainable-environmentally", "responsible-sourcing",
			"financial-disclosures", "climate", "eviroment", "esg",
		},
		PlatformHosts: []string{"intigriti.com", "hackerone.com"},
		AllowedLocales: []string{
			"de-AT", "de-DE", "en-US", "en-GB", "de-CH",
		},
	}
}
