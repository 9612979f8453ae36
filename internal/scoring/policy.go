// Package scoring implements the deterministic multi-factor scoring engine.
// Every constant that shapes a score lives in Policy: point budgets,
// strong-type allow-lists, and priority-tier thresholds are configuration,
// not arithmetic, because downstream systems key off them.
package scoring

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadqual/internal/model"
)

// TierThresholds maps final scores to priority tiers. A score at or above
// Money is "money", at or above Hot is "hot", at or above Warm is "warm",
// anything below is "cold".
type TierThresholds struct {
	Money float64 `yaml:"money" mapstructure:"money"`
	Hot   float64 `yaml:"hot" mapstructure:"hot"`
	Warm  float64 `yaml:"warm" mapstructure:"warm"`
}

// Policy holds the full fixed-point budget model. Component budgets sum to
// 100; each component is clamped non-negative before summation and the grand
// total is clamped to [0,100].
type Policy struct {
	// ICP match budget (role + industry + region + size).
	RolePoints     float64 `yaml:"role_points" mapstructure:"role_points"`
	IndustryPoints float64 `yaml:"industry_points" mapstructure:"industry_points"`
	RegionPoints   float64 `yaml:"region_points" mapstructure:"region_points"`
	SizePoints     float64 `yaml:"size_points" mapstructure:"size_points"`

	// Connection budget.
	FirstDegreePoints  float64 `yaml:"first_degree_points" mapstructure:"first_degree_points"`
	SecondDegreePoints float64 `yaml:"second_degree_points" mapstructure:"second_degree_points"`

	// UseDomainMatchFallback lets a roster domain match stand in for an
	// unknown connection degree, worth DomainMatchPoints.
	UseDomainMatchFallback bool    `yaml:"use_domain_match_fallback" mapstructure:"use_domain_match_fallback"`
	DomainMatchPoints      float64 `yaml:"domain_match_points" mapstructure:"domain_match_points"`

	// Negative signal subtractive pool.
	NegativePool            float64  `yaml:"negative_pool" mapstructure:"negative_pool"`
	NegativeDeduction       float64  `yaml:"negative_deduction" mapstructure:"negative_deduction"`
	StrongNegativeDeduction float64  `yaml:"strong_negative_deduction" mapstructure:"strong_negative_deduction"`
	StrongNegativeTypes     []string `yaml:"strong_negative_types" mapstructure:"strong_negative_types"`

	// Positive signal capped additive pool.
	PositivePool        float64  `yaml:"positive_pool" mapstructure:"positive_pool"`
	PositivePoints      float64  `yaml:"positive_points" mapstructure:"positive_points"`
	StrongPositivePoints float64  `yaml:"strong_positive_points" mapstructure:"strong_positive_points"`
	StrongPositiveTypes []string `yaml:"strong_positive_types" mapstructure:"strong_positive_types"`

	// Engagement budget (binary on last-contacted presence).
	EngagementPoints float64 `yaml:"engagement_points" mapstructure:"engagement_points"`

	Tiers TierThresholds `yaml:"tiers" mapstructure:"tiers"`
}

// DefaultPolicy returns the canonical policy. ICP 30 (role 5, industry 10,
// region 5, size 10), connection 10, negative pool 30, positive pool 20,
// engagement 10; tiers money 85 / hot 70 / warm 50.
func DefaultPolicy() Policy {
	return Policy{
		RolePoints:     5,
		IndustryPoints: 10,
		RegionPoints:   5,
		SizePoints:     10,

		FirstDegreePoints:  10,
		SecondDegreePoints: 5,

		UseDomainMatchFallback: true,
		DomainMatchPoints:      5,

		NegativePool:            30,
		NegativeDeduction:       5,
		StrongNegativeDeduction: 10,
		StrongNegativeTypes: []string{
			"delisting_notice", "regulatory_investigation", "pension_freeze",
		},

		PositivePool:         20,
		PositivePoints:       5,
		StrongPositivePoints: 10,
		StrongPositiveTypes: []string{
			"funding_round", "executive_hire", "government_contract", "ipo_filing",
		},

		EngagementPoints: 10,

		Tiers: TierThresholds{Money: 85, Hot: 70, Warm: 50},
	}
}

// LoadPolicy reads a YAML policy file layered over the defaults and
// validates the result.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, eris.Wrapf(err, "scoring: read policy %s", path)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, eris.Wrapf(err, "scoring: parse policy %s", path)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// ICPBudget returns the total ICP match budget.
func (p Policy) ICPBudget() float64 {
	return p.RolePoints + p.IndustryPoints + p.RegionPoints + p.SizePoints
}

// ConnectionBudget returns the connection component budget.
func (p Policy) ConnectionBudget() float64 {
	return p.FirstDegreePoints
}

// TotalBudget returns the sum of all component budgets.
func (p Policy) TotalBudget() float64 {
	return p.ICPBudget() + p.ConnectionBudget() + p.NegativePool + p.PositivePool + p.EngagementPoints
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	var errs []string

	points := map[string]float64{
		"role_points":               p.RolePoints,
		"industry_points":           p.IndustryPoints,
		"region_points":             p.RegionPoints,
		"size_points":               p.SizePoints,
		"first_degree_points":       p.FirstDegreePoints,
		"second_degree_points":      p.SecondDegreePoints,
		"domain_match_points":       p.DomainMatchPoints,
		"negative_pool":             p.NegativePool,
		"negative_deduction":        p.NegativeDeduction,
		"strong_negative_deduction": p.StrongNegativeDeduction,
		"positive_pool":             p.PositivePool,
		"positive_points":           p.PositivePoints,
		"strong_positive_points":    p.StrongPositivePoints,
		"engagement_points":         p.EngagementPoints,
	}
	for name, v := range points {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if total := p.TotalBudget(); total != 100 {
		errs = append(errs, fmt.Sprintf("component budgets must sum to 100, got %g", total))
	}
	if p.SecondDegreePoints > p.FirstDegreePoints {
		errs = append(errs, "second_degree_points must not exceed first_degree_points")
	}
	if p.DomainMatchPoints > p.FirstDegreePoints {
		errs = append(errs, "domain_match_points must not exceed first_degree_points")
	}
	if !(p.Tiers.Money > p.Tiers.Hot && p.Tiers.Hot > p.Tiers.Warm) {
		errs = append(errs, fmt.Sprintf("tier thresholds must be strictly descending, got money=%g hot=%g warm=%g",
			p.Tiers.Money, p.Tiers.Hot, p.Tiers.Warm))
	}
	if p.Tiers.Money > 100 || p.Tiers.Warm < 0 {
		errs = append(errs, "tier thresholds must lie within [0,100]")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: policy validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// TierFor maps a final score to its priority tier.
func (p Policy) TierFor(score float64) model.PriorityTier {
	switch {
	case score >= p.Tiers.Money:
		return model.TierMoney
	case score >= p.Tiers.Hot:
		return model.TierHot
	case score >= p.Tiers.Warm:
		return model.TierWarm
	default:
		return model.TierCold
	}
}

// isStrongType reports whether signalType appears in the allow-list,
// case-insensitively.
func isStrongType(signalType string, allowList []string) bool {
	st := strings.ToLower(strings.TrimSpace(signalType))
	for _, t := range allowList {
		if st == strings.ToLower(strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}
