package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolarityValid(t *testing.T) {
	t.Parallel()

	assert.True(t, PolarityPositive.Valid())
	assert.True(t, PolarityNegative.Valid())
	assert.False(t, Polarity("").Valid())
	assert.False(t, Polarity("neutral").Valid())
}

func TestEvidenceString(t *testing.T) {
	t.Parallel()

	sig := CandidateSignal{Evidence: map[string]any{
		"title": "Acme raises $10M",
		"count": 3,
	}}

	assert.Equal(t, "Acme raises $10M", sig.EvidenceString("title"))
	assert.Empty(t, sig.EvidenceString("count"), "non-string values read as empty")
	assert.Empty(t, sig.EvidenceString("missing"))
	assert.Empty(t, CandidateSignal{}.EvidenceString("title"))
}

func TestValidatedSignalSetTotal(t *testing.T) {
	t.Parallel()

	set := ValidatedSignalSet{
		Positive: []CandidateSignal{{}, {}},
		Negative: []CandidateSignal{{}},
	}
	assert.Equal(t, 3, set.Total())
	assert.Equal(t, 0, ValidatedSignalSet{}.Total())
}

func TestLeadOutcomeFailed(t *testing.T) {
	t.Parallel()

	assert.True(t, (&LeadOutcome{FailureReason: "no company"}).Failed())
	assert.False(t, (&LeadOutcome{Breakdown: &ScoreBreakdown{}}).Failed())
}
