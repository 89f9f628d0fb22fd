package candidate

// Source identifies which discovery adapter produced a candidate.
type Source string

const (
	SourceAuthoritative    Source = "security.txt"
	SourceSearch           Source = "search"
	SourceSitemap          Source = "sitemap"
	SourceExternalPlatform Source = "external_platform"
)

// Candidate is a discovered URL suspected of hosting the target policy.
// CanonicalURL is the deduplication key within one resolution run.
type Candidate struct {
	URL          string
	Source       Source
	CanonicalURL string
}

// Scored pairs a candidate with its relevance confidence in [0,1].
type Scored struct {
	Candidate  Candidate
	Confidence float64
}
