package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadqual/internal/model"
)

func admittableSignal(desc string) model.CandidateSignal {
	return model.CandidateSignal{
		SignalType:  "expansion",
		Description: desc,
		Source:      "techcrunch",
		SourceURL:   "https://techcrunch.com/acme",
	}
}

func TestValidateBatchSetsPolarity(t *testing.T) {
	t.Parallel()

	f := NewFilter(NewValidator(ValidatorConfig{}))
	set := f.ValidateBatch(
		[]model.CandidateSignal{admittableSignal("Acme opened three new offices across Europe this quarter")},
		[]model.CandidateSignal{admittableSignal("Acme cut 200 employees in a restructuring announced this week")},
	)

	if assert.Len(t, set.Positive, 1) {
		assert.Equal(t, model.PolarityPositive, set.Positive[0].Polarity)
	}
	if assert.Len(t, set.Negative, 1) {
		assert.Equal(t, model.PolarityNegative, set.Negative[0].Polarity)
	}
	assert.Equal(t, 2, set.Total())
}

func TestValidateBatchDropsRejected(t *testing.T) {
	t.Parallel()

	f := NewFilter(NewValidator(ValidatorConfig{}))
	set := f.ValidateBatch(
		[]model.CandidateSignal{
			admittableSignal("Acme opened three new offices across Europe this quarter"),
			{SignalType: "expansion", Description: "", Source: "news"},
		},
		nil,
	)

	assert.Len(t, set.Positive, 1)
	assert.Empty(t, set.Negative)
}

func TestValidateBatchCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	f := NewFilter(NewValidator(ValidatorConfig{}))
	set := f.ValidateBatch(
		[]model.CandidateSignal{
			admittableSignal("Acme opened three new offices across Europe this quarter"),
			admittableSignal("Acme  opened THREE new offices\tacross Europe this quarter"),
			admittableSignal("Acme signed a major partnership with a Fortune 500 manufacturer"),
		},
		nil,
	)

	assert.Len(t, set.Positive, 2)
}

func TestAggregateConfidenceFloor(t *testing.T) {
	t.Parallel()

	f := NewFilter(NewValidator(ValidatorConfig{}))
	set := f.ValidateBatch(nil, nil)

	assert.InDelta(t, 0.3, set.AggregateConfidence, 1e-9)
	assert.Equal(t, 0, set.Total())
}

func TestAggregateConfidenceAllRejectedHitsFloor(t *testing.T) {
	t.Parallel()

	f := NewFilter(NewValidator(ValidatorConfig{}))
	set := f.ValidateBatch(
		[]model.CandidateSignal{{SignalType: "expansion", Description: "", Source: ""}},
		nil,
	)

	assert.Equal(t, 0, set.Total())
	assert.InDelta(t, 0.3, set.AggregateConfidence, 1e-9)
}

func TestAggregateConfidenceGrowsWithSurvivors(t *testing.T) {
	t.Parallel()

	v := NewValidator(ValidatorConfig{})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }
	f := NewFilter(v)

	// One survivor: url (0.3) only. mean=0.3, count factor 1/5.
	one := f.ValidateBatch(
		[]model.CandidateSignal{admittableSignal("Acme opened three new offices across Europe this quarter")},
		nil,
	)
	// 0.3 + 0.7*(0.6*0.3 + 0.4*0.2) = 0.3 + 0.7*0.26 = 0.482
	assert.InDelta(t, 0.482, one.AggregateConfidence, 1e-9)

	five := f.ValidateBatch(
		[]model.CandidateSignal{
			admittableSignal("Acme opened three new offices across Europe this quarter"),
			admittableSignal("Acme signed a major partnership with a Fortune 500 manufacturer"),
			admittableSignal("Acme launched a new analytics product for enterprise customers"),
		},
		[]model.CandidateSignal{
			admittableSignal("Acme cut a fifth of its workforce in a restructuring this month"),
			admittableSignal("Acme is facing a class action suit filed in federal court"),
		},
	)
	assert.Greater(t, five.AggregateConfidence, one.AggregateConfidence)
	assert.LessOrEqual(t, five.AggregateConfidence, 1.0)
}
