package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Property names in the lead-tracking database.
const (
	PropScore      = "Score"
	PropPriority   = "Priority"
	PropConfidence = "Confidence"
	PropReasoning  = "Reasoning"
)

// PublishScore writes the qualification result onto an existing lead page.
// Reasoning is truncated to Notion's rich-text limit.
func PublishScore(ctx context.Context, c Client, pageID string, score, confidence float64, priority, reasoning string) error {
	if pageID == "" {
		return eris.New("notion: page id is required")
	}

	const maxRichText = 2000
	if len(reasoning) > maxRichText {
		reasoning = reasoning[:maxRichText]
	}

	props := notionapi.Properties{
		PropScore: notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: score,
		},
		PropPriority: notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: priority},
		},
		PropConfidence: notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: confidence,
		},
		PropReasoning: notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: reasoning}},
			},
		},
	}

	if _, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
		return eris.Wrap(err, fmt.Sprintf("notion: publish score to page %s", pageID))
	}
	return nil
}
