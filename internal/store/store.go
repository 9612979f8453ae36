// Package store persists qualification runs, stage records, scores, and
// surviving signal sets. SQLite backs local runs; Postgres backs shared
// deployments.
package store

import (
	"context"

	"github.com/sells-group/leadqual/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status  model.RunStatus `json:"status,omitempty"`
	Company string          `json:"company,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the qualification pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, lead model.LeadProfile) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, outcome *model.LeadOutcome) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Stages
	CreateStage(ctx context.Context, runID string, name string) (string, error)
	CompleteStage(ctx context.Context, stageID string, result *model.StageResult) error

	// Results
	SaveScore(ctx context.Context, runID string, lead model.LeadProfile, breakdown *model.ScoreBreakdown) error
	SaveSignals(ctx context.Context, runID string, set *model.ValidatedSignalSet) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
