package model

// PriorityTier is the discrete outreach priority derived from the final score
// via fixed thresholds. The labels are a stable contract with downstream CRM
// systems; do not rename them once persisted.
type PriorityTier string

const (
	TierMoney PriorityTier = "money"
	TierHot   PriorityTier = "hot"
	TierWarm  PriorityTier = "warm"
	TierCold  PriorityTier = "cold"
)

// Component keys used in ScoreBreakdown maps. Stable contract: downstream
// systems key off these names.
const (
	ComponentICP        = "icp_match"
	ComponentConnection = "connection"
	ComponentNegative   = "negative_signals"
	ComponentPositive   = "positive_signals"
	ComponentEngagement = "engagement"
)

// ComponentOrder is the fixed rendering order for reasoning text and reports.
var ComponentOrder = []string{
	ComponentICP,
	ComponentConnection,
	ComponentNegative,
	ComponentPositive,
	ComponentEngagement,
}

// ScoreBreakdown is the final output for one lead: a clamped 0-100 score,
// the per-component contributions that produced it, and deterministic
// human-readable reasoning. Identical inputs always yield an identical
// breakdown, byte for byte once serialized.
type ScoreBreakdown struct {
	FinalScore       float64            `json:"final_score"`
	Priority         PriorityTier       `json:"priority"`
	ComponentScores  map[string]float64 `json:"component_scores"`
	ComponentReasons map[string]string  `json:"component_reasons"`
	AIConfidence     float64            `json:"ai_confidence"`
	Reasoning        string             `json:"reasoning"`
}
