package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadqual/internal/model"
)

// RunBatch qualifies a slice of leads with bounded concurrency. Outcomes are
// returned in input order, one per lead; a failed lead occupies its slot with
// an explicit failure outcome. The roster is shared read-only across workers.
func (p *Pipeline) RunBatch(ctx context.Context, leads []model.LeadProfile, prefs model.UserPreferences, roster []model.Contact, maxConcurrent int) []*model.LeadOutcome {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	outcomes := make([]*model.LeadOutcome, len(leads))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for i, lead := range leads {
		g.Go(func() error {
			outcomes[i] = p.Run(gCtx, lead, prefs, roster)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	zap.L().Info("pipeline: batch complete",
		zap.Int("leads", len(leads)),
		zap.Int("failed", failed),
	)
	return outcomes
}
