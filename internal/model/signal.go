package model

// Polarity tags a candidate signal as positive or negative evidence about a
// lead. The two variants share one base shape and are checked exhaustively
// by consumers; there is no untagged "signal dictionary" anywhere.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// Valid reports whether p is one of the two known polarities.
func (p Polarity) Valid() bool {
	return p == PolarityPositive || p == PolarityNegative
}

// CandidateSignal is one untrusted candidate fact emitted by an upstream
// producer (search, scrape, or free-text generation). It is immutable input:
// the validator only admits or rejects it, never rewrites it.
//
// Evidence carries producer-specific supporting material. Well-known keys the
// validator inspects: "title", "full_snippet", "snippet",
// "detected_keywords" (list of strings), "timestamp" (ISO 8601).
type CandidateSignal struct {
	Polarity      Polarity       `json:"polarity"`
	SignalType    string         `json:"signal_type"`
	Description   string         `json:"description"`
	Evidence      map[string]any `json:"evidence,omitempty"`
	Source        string         `json:"source"`
	SourceURL     string         `json:"source_url,omitempty"`
	DetectedAt    string         `json:"detected_at,omitempty"`
	RawConfidence float64        `json:"raw_confidence,omitempty"`
}

// EvidenceString returns the string value of an evidence key, or "" when the
// key is absent or not a string.
func (s CandidateSignal) EvidenceString(key string) string {
	if s.Evidence == nil {
		return ""
	}
	v, ok := s.Evidence[key].(string)
	if !ok {
		return ""
	}
	return v
}

// ValidatedSignalSet is the only form of signal evidence the scoring engine
// consumes. It is always a subset of the candidate inputs, derived once per
// lead and never cached across leads.
type ValidatedSignalSet struct {
	Positive []CandidateSignal `json:"positive"`
	Negative []CandidateSignal `json:"negative"`

	// AggregateConfidence summarizes trust in the surviving set, in [0,1].
	// It is floored at 0.3 when nothing survives: absence of evidence is
	// not evidence of absence.
	AggregateConfidence float64 `json:"aggregate_confidence"`
}

// Total returns the number of surviving signals across both polarities.
func (s ValidatedSignalSet) Total() int {
	return len(s.Positive) + len(s.Negative)
}
