package producer

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/network"
	"github.com/sells-group/leadqual/pkg/serper"
)

// SearchEnricher fills a missing website via a company search. It only ever
// adds fields, never overwrites what the lead already carries.
type SearchEnricher struct {
	client serper.Client
}

// NewSearchEnricher returns a SearchEnricher.
func NewSearchEnricher(client serper.Client) *SearchEnricher {
	return &SearchEnricher{client: client}
}

// Enrich looks up the company's website when absent. Errors surface so the
// caller can log and continue with the unmodified profile.
func (e *SearchEnricher) Enrich(ctx context.Context, lead model.LeadProfile) (model.LeadProfile, error) {
	if lead.Website != "" || lead.Company == "" {
		return lead, nil
	}

	resp, err := e.client.Search(ctx, serper.SearchRequest{
		Q:   fmt.Sprintf(`"%s" official website`, lead.Company),
		Num: 3,
	})
	if err != nil {
		return lead, eris.Wrap(err, "producer: enrich website search")
	}

	for _, hit := range resp.Organic {
		if network.DomainFromURL(hit.Link) == "" {
			continue
		}
		lead.Website = hit.Link
		zap.L().Debug("producer: website enriched",
			zap.String("company", lead.Company),
			zap.String("website", hit.Link),
		)
		break
	}
	return lead, nil
}
