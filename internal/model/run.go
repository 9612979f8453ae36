package model

import "time"

// RunStatus represents the current state of a qualification run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusEnriching  RunStatus = "enriching"
	RunStatusDetecting  RunStatus = "detecting"
	RunStatusValidating RunStatus = "validating"
	RunStatusScoring    RunStatus = "scoring"
	RunStatusPersisting RunStatus = "persisting"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run represents a single qualification run for one lead.
type Run struct {
	ID        string       `json:"id"`
	Lead      LeadProfile  `json:"lead"`
	Status    RunStatus    `json:"status"`
	Outcome   *LeadOutcome `json:"outcome,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// StageStatus represents the state of one pipeline stage within a run.
type StageStatus string

const (
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
	StageStatusSkipped  StageStatus = "skipped"
)

// StageResult holds the outcome of one pipeline stage.
type StageResult struct {
	Name     string         `json:"name"`
	Status   StageStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// LeadOutcome is the terminal per-lead result. Every processed lead yields
// exactly one: either a complete breakdown or an explicit failure reason.
// "No result" is never valid.
type LeadOutcome struct {
	LeadID    string              `json:"lead_id"`
	RunID     string              `json:"run_id,omitempty"`
	Breakdown *ScoreBreakdown     `json:"breakdown,omitempty"`
	Signals   *ValidatedSignalSet `json:"signals,omitempty"`

	// FailureReason is set when no score could be computed. Mutually
	// exclusive with Breakdown.
	FailureReason string `json:"failure_reason,omitempty"`

	// PersistenceErrors records sink failures. A breakdown was still
	// computed and returned; no work is lost.
	PersistenceErrors []string `json:"persistence_errors,omitempty"`

	Stages []StageResult `json:"stages,omitempty"`
}

// Failed reports whether the run terminated without a score.
func (o *LeadOutcome) Failed() bool {
	return o.Breakdown == nil
}
