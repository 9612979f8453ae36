package salesforce

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// Custom fields on the Lead SObject that carry qualification results.
const (
	FieldScore          = "Qualification_Score__c"
	FieldPriority       = "Qualification_Priority__c"
	FieldScoringDetails = "Scoring_Details__c"
)

// UpdateLeadScore writes the qualification result onto a Lead record.
func UpdateLeadScore(ctx context.Context, c Client, leadID string, score float64, priority, details string) error {
	if leadID == "" {
		return eris.New("sf: lead id is required")
	}
	fields := map[string]any{
		FieldScore:          score,
		FieldPriority:       priority,
		FieldScoringDetails: details,
	}
	if err := c.UpdateOne(ctx, "Lead", leadID, fields); err != nil {
		return eris.Wrap(err, fmt.Sprintf("sf: update lead %s", leadID))
	}
	return nil
}
