package signal

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
)

// Aggregate confidence shape: floor when nothing survives, then growth with
// survivor strength and count. The floor is an invariant — zero surviving
// signals means uncertainty, not certainty of absence.
const (
	confidenceFloor = 0.3
	confidenceSpan  = 1.0 - confidenceFloor
	countSaturation = 5
)

// Filter applies the single-record validator across candidate batches,
// removes redundant records, and computes the aggregate confidence for the
// surviving set.
type Filter struct {
	validator *Validator
}

// NewFilter returns a Filter using the given validator.
func NewFilter(v *Validator) *Filter {
	return &Filter{validator: v}
}

// ValidateBatch validates positive and negative candidates independently.
// Rejected candidates are dropped silently (logged at debug); there is no
// partial credit. Two records describing the same underlying fact are
// collapsed to the first so the scorer never double-counts.
func (f *Filter) ValidateBatch(positive, negative []model.CandidateSignal) model.ValidatedSignalSet {
	set := model.ValidatedSignalSet{
		Positive: f.filterOne(positive, model.PolarityPositive),
		Negative: f.filterOne(negative, model.PolarityNegative),
	}
	set.AggregateConfidence = f.aggregateConfidence(set)
	return set
}

func (f *Filter) filterOne(candidates []model.CandidateSignal, polarity model.Polarity) []model.CandidateSignal {
	var survivors []model.CandidateSignal
	seen := make(map[string]struct{})

	for _, sig := range candidates {
		sig.Polarity = polarity

		ok, reason := f.validator.Validate(sig)
		if !ok {
			zap.L().Debug("signal: candidate rejected",
				zap.String("polarity", string(polarity)),
				zap.String("signal_type", sig.SignalType),
				zap.String("reason", reason),
			)
			continue
		}

		key := dedupeKey(sig)
		if _, dup := seen[key]; dup {
			zap.L().Debug("signal: duplicate candidate collapsed",
				zap.String("polarity", string(polarity)),
				zap.String("signal_type", sig.SignalType),
			)
			continue
		}
		seen[key] = struct{}{}

		survivors = append(survivors, sig)
	}
	return survivors
}

// dedupeKey normalizes the description so trivially restated records of the
// same fact collapse.
func dedupeKey(sig model.CandidateSignal) string {
	return strings.Join(strings.Fields(strings.ToLower(sig.Description)), " ")
}

// aggregateConfidence maps the surviving set to [0.3, 1.0]. With zero
// survivors it is exactly the floor; otherwise it grows with the mean
// per-signal confidence and saturating survivor count.
func (f *Filter) aggregateConfidence(set model.ValidatedSignalSet) float64 {
	n := set.Total()
	if n == 0 {
		return confidenceFloor
	}

	var sum float64
	for _, sig := range set.Positive {
		sum += f.validator.Confidence(sig)
	}
	for _, sig := range set.Negative {
		sum += f.validator.Confidence(sig)
	}
	mean := sum / float64(n)

	count := float64(n)
	if count > countSaturation {
		count = countSaturation
	}
	countFactor := count / countSaturation

	conf := confidenceFloor + confidenceSpan*(0.6*mean+0.4*countFactor)
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
