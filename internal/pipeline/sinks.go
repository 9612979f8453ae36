package pipeline

import (
	"context"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/pkg/notion"
	"github.com/sells-group/leadqual/pkg/salesforce"
)

// Sink publishes a computed breakdown to an external system. Sink failures
// never discard the breakdown; they are recorded on the outcome.
type Sink interface {
	Name() string
	Publish(ctx context.Context, lead model.LeadProfile, breakdown *model.ScoreBreakdown) error
}

// SalesforceSink writes the score onto the lead's Salesforce record.
type SalesforceSink struct {
	client salesforce.Client
}

// NewSalesforceSink returns a SalesforceSink.
func NewSalesforceSink(client salesforce.Client) *SalesforceSink {
	return &SalesforceSink{client: client}
}

func (s *SalesforceSink) Name() string { return "salesforce" }

// Publish is a no-op for leads without a Salesforce ID.
func (s *SalesforceSink) Publish(ctx context.Context, lead model.LeadProfile, breakdown *model.ScoreBreakdown) error {
	if lead.SalesforceID == "" {
		return nil
	}
	return salesforce.UpdateLeadScore(ctx, s.client, lead.SalesforceID,
		breakdown.FinalScore, string(breakdown.Priority), breakdown.Reasoning)
}

// NotionSink updates the lead's page in the tracking database.
type NotionSink struct {
	client notion.Client
}

// NewNotionSink returns a NotionSink.
func NewNotionSink(client notion.Client) *NotionSink {
	return &NotionSink{client: client}
}

func (s *NotionSink) Name() string { return "notion" }

// Publish is a no-op for leads without a Notion page.
func (s *NotionSink) Publish(ctx context.Context, lead model.LeadProfile, breakdown *model.ScoreBreakdown) error {
	if lead.NotionPageID == "" {
		return nil
	}
	return notion.PublishScore(ctx, s.client, lead.NotionPageID,
		breakdown.FinalScore, breakdown.AIConfidence,
		string(breakdown.Priority), breakdown.Reasoning)
}
