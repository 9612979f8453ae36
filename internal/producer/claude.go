package producer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/repair"
	"github.com/sells-group/leadqual/pkg/anthropic"
)

const detectorSystemPrompt = `You are a B2B sales research assistant. Given a company,
list concrete, recent business signals of the requested polarity. Report only
claims you can attribute to a source. Respond with JSON only, in the form:
{"signals":[{"signal_type":"...","description":"...","source":"...","source_url":"...","detected_at":"YYYY-MM-DD"}]}
Use snake_case signal types such as funding_round, hiring_activity, layoffs,
regulatory_investigation. Return {"signals":[]} when nothing credible is known.`

// ClaudeDetector produces candidate signals from a model completion. The raw
// completion text goes through the repair layer; output that cannot be
// repaired into the expected structure surfaces as *repair.MalformedOutputError.
type ClaudeDetector struct {
	client      anthropic.Client
	modelID     string
	maxTokens   int64
	temperature float64
}

// NewClaudeDetector returns a detector using the given model.
func NewClaudeDetector(client anthropic.Client, modelID string, maxTokens int64) *ClaudeDetector {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &ClaudeDetector{
		client:    client,
		modelID:   modelID,
		maxTokens: maxTokens,
	}
}

type detectorPayload struct {
	Signals []model.CandidateSignal `json:"signals"`
}

// Detect asks the model for signals of one polarity and decodes the reply.
func (d *ClaudeDetector) Detect(ctx context.Context, lead model.LeadProfile, polarity model.Polarity) ([]model.CandidateSignal, error) {
	if lead.Company == "" {
		return nil, eris.New("producer: lead has no company name")
	}

	resp, err := d.client.Complete(ctx, anthropic.CompletionRequest{
		Model:       d.modelID,
		MaxTokens:   d.maxTokens,
		System:      detectorSystemPrompt,
		Prompt:      buildDetectorPrompt(lead, polarity),
		Temperature: &d.temperature,
	})
	if err != nil {
		return nil, eris.Wrap(err, "producer: model detection")
	}
	resp.Usage.Log(d.modelID, "detect_"+string(polarity))

	var payload detectorPayload
	if err := repair.Decode(resp.Text, &payload); err != nil {
		return nil, err
	}

	signals := payload.Signals
	for i := range signals {
		signals[i].Polarity = polarity
		if signals[i].DetectedAt == "" {
			signals[i].DetectedAt = time.Now().UTC().Format(time.RFC3339)
		}
	}
	return signals, nil
}

func buildDetectorPrompt(lead model.LeadProfile, polarity model.Polarity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s\n", lead.Company)
	if lead.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", lead.Website)
	}
	if lead.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", lead.Industry)
	}
	if lead.Region != "" {
		fmt.Fprintf(&sb, "Region: %s\n", lead.Region)
	}
	fmt.Fprintf(&sb, "\nList %s business signals for this company.", polarity)
	return sb.String()
}
