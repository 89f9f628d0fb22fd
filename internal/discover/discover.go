// Package discover contains the candidate discovery adapters. Each
// adapter produces raw candidate URLs from one source and fails soft:
// an error return is logged by the caller and treated as an empty
// result, never aborting the company run.
package discover

import (
	"context"

	"github.com/vdpscout/vdpscout/internal/candidate"
	"github.com/vdpscout/vdpscout/internal/company"
)

// Adapter is the common contract for candidate producers.
type Adapter interface {
	Name() string
	Discover(ctx context.Context, c company.Company) ([]candidate.Candidate, error)
}
