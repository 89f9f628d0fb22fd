package company

import (
	"regexp"
	"strings"
)

// Company is the immutable unit of work: an organization name and the
// registrable domain its web presence lives under.
type Company struct {
	Name    string
	BaseURL string
}

// Tokens holds the normalized matchable parts of a company name.
// Strong tokens are case-folded words of at least five characters;
// acronyms are all-uppercase runs of two to five characters kept in
// lowercase form. Words of length three or four that are not acronyms
// carry too little signal and are discarded.
type Tokens struct {
	Strong   []string
	Acronyms []string
}

// legalSuffixes lists entity forms stripped before tokenization,
// matched case-insensitively on word boundaries.
var legalSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bAG\b`),
	regexp.MustCompile(`(?i)\bGmbH\b`),
	regexp.MustCompile(`(?i)\bSE\b`),
	regexp.MustCompile(`(?i)\bCo KG\b`),
	regexp.MustCompile(`(?i)\bInc\b`),
	regexp.MustCompile(`(?i)\bLLC\b`),
	regexp.MustCompile(`(?i)\bS\.A\.\b`),
	regexp.MustCompile(`(?i)\bLtd\b`),
	regexp.MustCompile(`(?i)\bPte Ltd\b`),
	regexp.MustCompile(`(?i)\bS\.r\.l\b`),
	regexp.MustCompile(`(?i)\bBV\b`),
}

var splitPattern = regexp.MustCompile(`[\s\-_,.]+`)

// Normalize strips legal-entity suffixes from a raw company name and
// classifies the remaining words into strong tokens and acronyms.
// It is a pure function; the zero result means the name had no
// matchable parts at all.
func Normalize(name string) Tokens {
	cleaned := strings.TrimSpace(name)
	for _, suffix := range legalSuffixes {
		cleaned = strings.TrimSpace(suffix.ReplaceAllString(cleaned, ""))
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	var t Tokens
	for _, part := range splitPattern.Split(cleaned, -1) {
		if part == "" {
			continue
		}
		switch {
		case isUpper(part) && len(part) >= 2 && len(part) <= 5:
			t.Acronyms = append(t.Acronyms, strings.ToLower(part))
		case len(part) >= 5:
			t.Strong = append(t.Strong, strings.ToLower(part))
		}
	}
	return t
}

// FirstToken returns the first whitespace-delimited word of the raw
// name, used by the search adapter to catch abbreviated program slugs.
func FirstToken(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
