// Package signal filters untrusted candidate signals before scoring. The
// checks are syntactic and heuristic by design: source verifiability,
// language certainty, and content specificity. No semantic fact checking
// happens here.
package signal

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sells-group/leadqual/internal/model"
)

var (
	// hedgeRe matches vague or uncertain phrasing that marks a claim as
	// speculation rather than a reported fact.
	hedgeRe = regexp.MustCompile(`(?i)\b(may be|might be|could be|seems to|appears to|potentially|possibly|rumored|unconfirmed|suggests|likely|expected to)\b`)

	// metricRe matches concrete figures: percentages, currency amounts, and
	// counts of employees/positions/offices/users/customers.
	metricRe = regexp.MustCompile(`(?i)\b(\d+%|\$\d+(?:\.\d+)?[mkb]?|\d+\s+(?:employees?|positions?|offices?|users?|customers?))\b`)

	// fundingRe matches currency symbols or funding-stage vocabulary.
	fundingRe = regexp.MustCompile(`(?i)\$|€|£|\b(seed|series [a-z]|round|investment|raised)\b`)

	// hiringRe matches hiring vocabulary or explicit position counts.
	hiringRe = regexp.MustCompile(`(?i)\b(hiring|jobs?|careers?|\d+ positions?)\b`)

	confidenceMetricRe = regexp.MustCompile(`(?i)\b\d+%|\$\d+[mk]?\b|\b\d+\s+(?:employees|positions|offices)\b`)
)

// ValidatorConfig tunes the admit/reject rules and confidence bookkeeping.
type ValidatorConfig struct {
	// MinContentLength is the minimum combined text length accepted from
	// sources that are not high-credibility.
	MinContentLength int `yaml:"min_content_length" mapstructure:"min_content_length"`

	// HighCredibility sources skip the length check and type-specific
	// keyword gates (trade press, regulatory filings).
	HighCredibility []string `yaml:"high_credibility" mapstructure:"high_credibility"`

	// LowerCredibility sources require a source URL and always get the
	// strict language check (community boards, generic aggregators).
	LowerCredibility []string `yaml:"lower_credibility" mapstructure:"lower_credibility"`

	// RecentWindow bounds how old a signal timestamp may be to still earn
	// the recency confidence increment.
	RecentWindow time.Duration `yaml:"recent_window" mapstructure:"recent_window"`
}

// DefaultValidatorConfig returns the stock rule set.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MinContentLength: 30,
		HighCredibility:  []string{"techcrunch", "crunchbase", "sec_filing"},
		LowerCredibility: []string{"f6s", "startbase", "xing", "wellfound", "builtin", "semrush"},
		RecentWindow:     30 * 24 * time.Hour,
	}
}

// Validator classifies a single candidate signal as admitted or rejected and
// scores its confidence. Stateless apart from configuration; safe for
// concurrent use.
type Validator struct {
	cfg       ValidatorConfig
	highCred  map[string]struct{}
	lowerCred map[string]struct{}
	now       func() time.Time
}

// NewValidator builds a Validator from cfg, filling zero values from the
// defaults.
func NewValidator(cfg ValidatorConfig) *Validator {
	def := DefaultValidatorConfig()
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = def.MinContentLength
	}
	if len(cfg.HighCredibility) == 0 {
		cfg.HighCredibility = def.HighCredibility
	}
	if len(cfg.LowerCredibility) == 0 {
		cfg.LowerCredibility = def.LowerCredibility
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = def.RecentWindow
	}
	return &Validator{
		cfg:       cfg,
		highCred:  toSet(cfg.HighCredibility),
		lowerCred: toSet(cfg.LowerCredibility),
		now:       time.Now,
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	return set
}

// Validate applies the reject rules in order; the first failure rejects.
// The returned reason explains the decision either way.
func (v *Validator) Validate(sig model.CandidateSignal) (bool, string) {
	source := strings.ToLower(strings.TrimSpace(sig.Source))
	combined := combinedText(sig)

	if strings.TrimSpace(sig.Description) == "" || source == "" {
		return false, "missing description or source"
	}

	_, isLower := v.lowerCred[source]
	_, isHigh := v.highCred[source]

	// Weak sources must be verifiable.
	if isLower && sig.SourceURL == "" {
		return false, fmt.Sprintf("missing source_url for lower-credibility source %q", source)
	}

	// Strict language check applies to weak sources, and to any signal that
	// carries no concrete metric to back its claim.
	hasMetric := metricRe.MatchString(combined)
	if isLower || !hasMetric {
		if hedge := hedgeRe.FindString(combined); hedge != "" {
			return false, fmt.Sprintf("vague language %q without strong metrics or source", hedge)
		}
	}

	if !isHigh && len(strings.TrimSpace(combined)) < v.cfg.MinContentLength {
		return false, fmt.Sprintf("content shorter than %d chars from source %q", v.cfg.MinContentLength, source)
	}

	// Type-specific keyword gates for non-high-credibility sources.
	sigType := strings.ToLower(sig.SignalType)
	if !isHigh {
		if strings.Contains(sigType, "funding") && !fundingRe.MatchString(combined) {
			return false, "funding signal lacks currency symbol or funding keywords"
		}
		if strings.Contains(sigType, "hiring") && !hiringRe.MatchString(combined) {
			return false, "hiring signal lacks hiring keywords or counts"
		}
	}

	return true, "passed"
}

// Confidence scores an admitted signal in [0,1]. This is bookkeeping, not
// gating: it never changes the admit/reject decision.
//
// Increments: +0.3 verifiable source URL, +0.2 specific metric present,
// +0.2 three or more distinct contextual keywords, +0.3 recent timestamp.
func (v *Validator) Confidence(sig model.CandidateSignal) float64 {
	score := 0.0

	if sig.SourceURL != "" {
		score += 0.3
	}

	text := strings.ToLower(sig.Description + " " + sig.EvidenceString("snippet"))
	if confidenceMetricRe.MatchString(text) {
		score += 0.2
	}

	if distinctKeywords(sig) >= 3 {
		score += 0.2
	}

	if ts, ok := signalTimestamp(sig); ok && v.now().Sub(ts) <= v.cfg.RecentWindow {
		score += 0.3
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// combinedText joins title, description and snippet, lower-cased, for the
// language and specificity checks.
func combinedText(sig model.CandidateSignal) string {
	snippet := sig.EvidenceString("full_snippet")
	if snippet == "" {
		snippet = sig.EvidenceString("snippet")
	}
	return strings.ToLower(strings.TrimSpace(
		sig.EvidenceString("title") + " " + sig.Description + " " + snippet,
	))
}

// distinctKeywords counts unique detected keywords in the evidence map.
func distinctKeywords(sig model.CandidateSignal) int {
	if sig.Evidence == nil {
		return 0
	}
	raw, ok := sig.Evidence["detected_keywords"]
	if !ok {
		return 0
	}

	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			seen[s] = struct{}{}
		}
	}

	switch kw := raw.(type) {
	case []string:
		for _, k := range kw {
			add(k)
		}
	case []any:
		for _, k := range kw {
			if s, ok := k.(string); ok {
				add(s)
			}
		}
	}
	return len(seen)
}

// signalTimestamp parses the signal's timestamp from the evidence map or the
// DetectedAt field. Unparseable timestamps are ignored, never an error.
func signalTimestamp(sig model.CandidateSignal) (time.Time, bool) {
	candidates := []string{sig.EvidenceString("timestamp"), sig.DetectedAt}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		raw = strings.Replace(raw, "Z", "+00:00", 1)
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
