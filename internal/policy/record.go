// Package policy defines the final structured output of a resolution run
// and the cleanup applied to raw extraction results.
package policy

import (
	"github.com/vdpscout/vdpscout/internal/candidate"
)

// Record is the structured policy extraction for one company. Fields is
// a mapping of named attributes to values; unset attributes are absent,
// never defaulted.
type Record struct {
	CompanyName string           `json:"company_name"`
	PolicyURL   string           `json:"policy_url,omitempty"`
	Source      candidate.Source `json:"source,omitempty"`
	Confidence  float64          `json:"confidence,omitempty"`
	Fields      map[string]any   `json:"fields,omitempty"`
}

// Minimal returns the record produced when extraction fails: input
// identifiers only.
func Minimal(companyName, policyURL string, source candidate.Source) Record {
	return Record{CompanyName: companyName, PolicyURL: policyURL, Source: source}
}

// Clean post-processes a raw extraction field map:
//   - empty strings and nulls are dropped recursively
//   - a zero disclosure_timeline_days is dropped (it means unspecified,
//     not same-day disclosure)
//   - the internal policy_url_status field is always dropped
//   - any value literally equal to "self" becomes the winning URL
func Clean(fields map[string]any, policyURL string) map[string]any {
	cleaned, _ := cleanValue(fields, policyURL, "")
	m, ok := cleaned.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// cleanValue returns the cleaned value and whether it should be kept.
func cleanValue(v any, policyURL, key string) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		if val == "" {
			return nil, false
		}
		if val == "self" {
			return policyURL, true
		}
		return val, true
	case float64:
		if key == "disclosure_timeline_days" && val == 0 {
			return nil, false
		}
		return val, true
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if k == "policy_url_status" {
				continue
			}
			if c, keep := cleanValue(inner, policyURL, k); keep {
				out[k] = c
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(val))
		for _, inner := range val {
			if c, keep := cleanValue(inner, policyURL, ""); keep {
				out = append(out, c)
			}
		}
		return out, true
	default:
		return val, true
	}
}
