package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/network"
)

// Inputs is everything the engine consumes for one lead. The engine is a pure
// function of this struct and the policy: no I/O, no clock, no randomness.
type Inputs struct {
	Lead        model.LeadProfile
	Prefs       model.UserPreferences
	Signals     model.ValidatedSignalSet
	DomainMatch network.MatchResult
}

// Engine computes score breakdowns under a fixed policy. Safe for concurrent
// use; construct once and share.
type Engine struct {
	policy Policy
}

// NewEngine returns an Engine for the given policy. The policy must already
// be validated.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Score produces the full breakdown for one lead. Identical inputs always
// yield an identical breakdown: component maps carry a fixed key set and the
// reasoning text renders components in a fixed order.
func (e *Engine) Score(in Inputs) model.ScoreBreakdown {
	scores := make(map[string]float64, len(model.ComponentOrder))
	reasons := make(map[string]string, len(model.ComponentOrder))

	scores[model.ComponentICP], reasons[model.ComponentICP] = e.scoreICP(in.Lead, in.Prefs)
	scores[model.ComponentConnection], reasons[model.ComponentConnection] = e.scoreConnection(in.Lead, in.DomainMatch)
	scores[model.ComponentNegative], reasons[model.ComponentNegative] = e.scoreNegative(in.Signals.Negative)
	scores[model.ComponentPositive], reasons[model.ComponentPositive] = e.scorePositive(in.Signals.Positive)
	scores[model.ComponentEngagement], reasons[model.ComponentEngagement] = e.scoreEngagement(in.Lead)

	var final float64
	for _, key := range model.ComponentOrder {
		final += scores[key]
	}
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	breakdown := model.ScoreBreakdown{
		FinalScore:       final,
		Priority:         e.policy.TierFor(final),
		ComponentScores:  scores,
		ComponentReasons: reasons,
		AIConfidence:     in.Signals.AggregateConfidence,
	}
	breakdown.Reasoning = renderReasoning(breakdown)

	zap.L().Debug("scoring: breakdown computed",
		zap.String("lead_id", in.Lead.ID),
		zap.Float64("final_score", final),
		zap.String("priority", string(breakdown.Priority)),
	)
	return breakdown
}

// scoreICP awards points per matched ICP dimension. Matching is exact token
// equality after comma-splitting, trimming and lower-casing both sides; no
// substring or fuzzy matching.
func (e *Engine) scoreICP(lead model.LeadProfile, prefs model.UserPreferences) (float64, string) {
	type dimension struct {
		label  string
		value  string
		wanted []string
		points float64
	}
	dims := []dimension{
		{"role", lead.Position, prefs.Roles, e.policy.RolePoints},
		{"industry", lead.Industry, prefs.Industries, e.policy.IndustryPoints},
		{"region", lead.Region, prefs.Regions, e.policy.RegionPoints},
		{"size", lead.CompanySize, prefs.CompanySizes, e.policy.SizePoints},
	}

	var total float64
	var matched, missed []string
	for _, d := range dims {
		if tokenMatch(d.value, d.wanted) {
			total += d.points
			matched = append(matched, d.label)
		} else {
			missed = append(missed, d.label)
		}
	}

	var reason string
	switch {
	case len(matched) == 0:
		reason = "no ICP dimensions matched"
	case len(missed) == 0:
		reason = fmt.Sprintf("all ICP dimensions matched (%s)", strings.Join(matched, ", "))
	default:
		reason = fmt.Sprintf("matched %s; missed %s", strings.Join(matched, ", "), strings.Join(missed, ", "))
	}
	return total, reason
}

// tokenMatch reports whether value equals any comma-separated token of any
// preference entry, case-insensitively.
func tokenMatch(value string, wanted []string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	for _, entry := range wanted {
		for _, token := range strings.Split(entry, ",") {
			if strings.ToLower(strings.TrimSpace(token)) == value {
				return true
			}
		}
	}
	return false
}

// scoreConnection awards points for network proximity. An explicit degree
// always wins; when the degree is unknown and the fallback is enabled, a
// roster domain match earns partial credit.
func (e *Engine) scoreConnection(lead model.LeadProfile, match network.MatchResult) (float64, string) {
	if lead.ConnectionDegree != nil {
		switch *lead.ConnectionDegree {
		case 1:
			return e.policy.FirstDegreePoints, "1st-degree connection"
		case 2:
			return e.policy.SecondDegreePoints, "2nd-degree connection"
		default:
			return 0, fmt.Sprintf("connection degree %d earns no points", *lead.ConnectionDegree)
		}
	}

	if e.policy.UseDomainMatchFallback && len(match.Matches) > 0 {
		return e.policy.DomainMatchPoints, fmt.Sprintf(
			"no connection degree; %d contact(s) share domain %s", len(match.Matches), match.LeadDomain)
	}
	return 0, "no connection degree and no roster domain match"
}

// scoreNegative starts from the full subtractive pool and deducts per signal,
// never below zero. Strong types deduct more than ordinary ones.
func (e *Engine) scoreNegative(signals []model.CandidateSignal) (float64, string) {
	if len(signals) == 0 {
		return e.policy.NegativePool, "no validated negative signals"
	}

	var deducted float64
	var strong int
	for _, sig := range signals {
		if isStrongType(sig.SignalType, e.policy.StrongNegativeTypes) {
			deducted += e.policy.StrongNegativeDeduction
			strong++
		} else {
			deducted += e.policy.NegativeDeduction
		}
	}
	score := e.policy.NegativePool - deducted
	if score < 0 {
		score = 0
	}

	reason := fmt.Sprintf("%d negative signal(s) deducted %s points", len(signals), formatPoints(deducted))
	if strong > 0 {
		reason += fmt.Sprintf(" (%d strong)", strong)
	}
	if deducted > e.policy.NegativePool {
		reason += "; deductions capped at pool"
	}
	return score, reason
}

// scorePositive sums per-signal points and caps at the pool. Strong types earn
// more than ordinary ones.
func (e *Engine) scorePositive(signals []model.CandidateSignal) (float64, string) {
	if len(signals) == 0 {
		return 0, "no validated positive signals"
	}

	var earned float64
	var strong int
	for _, sig := range signals {
		if isStrongType(sig.SignalType, e.policy.StrongPositiveTypes) {
			earned += e.policy.StrongPositivePoints
			strong++
		} else {
			earned += e.policy.PositivePoints
		}
	}

	capped := earned > e.policy.PositivePool
	if capped {
		earned = e.policy.PositivePool
	}

	reason := fmt.Sprintf("%d positive signal(s) earned %s points", len(signals), formatPoints(earned))
	if strong > 0 {
		reason += fmt.Sprintf(" (%d strong)", strong)
	}
	if capped {
		reason += "; capped at pool"
	}
	return earned, reason
}

// scoreEngagement is binary on prior contact.
func (e *Engine) scoreEngagement(lead model.LeadProfile) (float64, string) {
	if lead.LastContacted == nil {
		return 0, "no prior contact on record"
	}
	return e.policy.EngagementPoints, fmt.Sprintf(
		"last contacted %s", lead.LastContacted.Format("2006-01-02"))
}

// renderReasoning builds the deterministic reasoning text: one line per
// component in fixed order, then the total and confidence.
func renderReasoning(b model.ScoreBreakdown) string {
	var sb strings.Builder
	for _, key := range model.ComponentOrder {
		fmt.Fprintf(&sb, "%s: %s pts - %s\n", key, formatPoints(b.ComponentScores[key]), b.ComponentReasons[key])
	}
	fmt.Fprintf(&sb, "final: %s/100 (%s), confidence %.2f",
		formatPoints(b.FinalScore), b.Priority, b.AIConfidence)
	return sb.String()
}

// formatPoints renders a point value without trailing zeros.
func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
