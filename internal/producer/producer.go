// Package producer generates untrusted candidate signals for a lead from
// upstream sources: web search, model completion, or a local file. Producers
// never validate; everything they emit goes through the signal filter.
package producer

import (
	"context"

	"github.com/sells-group/leadqual/internal/model"
)

// Detector produces candidate signals of one polarity for a lead.
type Detector interface {
	Detect(ctx context.Context, lead model.LeadProfile, polarity model.Polarity) ([]model.CandidateSignal, error)
}

// Enricher fills gaps in a lead profile before detection. Enrichment is
// best-effort: an error means the caller proceeds with the original profile.
type Enricher interface {
	Enrich(ctx context.Context, lead model.LeadProfile) (model.LeadProfile, error)
}
