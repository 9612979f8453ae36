package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadqual/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testLead() model.LeadProfile {
	return model.LeadProfile{
		ID:      "jane@acme.com",
		Name:    "Jane Doe",
		Email:   "jane@acme.com",
		Company: "Acme GmbH",
	}
}

func TestCreateAndGetRun(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testLead())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "Acme GmbH", got.Lead.Company)
	assert.Nil(t, got.Outcome)
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdateRunStatus(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testLead())
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusScoring))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusScoring, got.Status)

	err = st.UpdateRunStatus(ctx, "missing", model.RunStatusScoring)
	assert.Error(t, err)
}

func TestCompleteRunWithBreakdown(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testLead())
	require.NoError(t, err)

	outcome := &model.LeadOutcome{
		LeadID: "jane@acme.com",
		RunID:  run.ID,
		Breakdown: &model.ScoreBreakdown{
			FinalScore:   72,
			Priority:     model.TierHot,
			AIConfidence: 0.55,
		},
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, outcome))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Outcome)
	require.NotNil(t, got.Outcome.Breakdown)
	assert.InDelta(t, 72, got.Outcome.Breakdown.FinalScore, 1e-9)
	assert.Equal(t, model.TierHot, got.Outcome.Breakdown.Priority)
}

func TestCompleteRunFailedOutcome(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testLead())
	require.NoError(t, err)

	outcome := &model.LeadOutcome{
		LeadID:        "jane@acme.com",
		RunID:         run.ID,
		FailureReason: "model produced malformed output",
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, outcome))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "model produced malformed output", got.Outcome.FailureReason)
}

func TestListRunsFilters(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	acme, err := st.CreateRun(ctx, model.LeadProfile{ID: "a", Company: "Acme"})
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, model.LeadProfile{ID: "b", Company: "Beta"})
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, acme.ID, model.RunStatusComplete))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, acme.ID, complete[0].ID)

	byCompany, err := st.ListRuns(ctx, RunFilter{Company: "Beta"})
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "Beta", byCompany[0].Lead.Company)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStageLifecycle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testLead())
	require.NoError(t, err)

	stageID, err := st.CreateStage(ctx, run.ID, "detect_positive")
	require.NoError(t, err)
	assert.NotEmpty(t, stageID)

	result := &model.StageResult{
		Name:     "detect_positive",
		Status:   model.StageStatusComplete,
		Duration: 42,
		Metadata: map[string]any{"candidates": 3},
	}
	require.NoError(t, st.CompleteStage(ctx, stageID, result))

	err = st.CompleteStage(ctx, "missing", result)
	assert.Error(t, err)
}

func TestSaveScoreUpsert(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testLead())
	require.NoError(t, err)

	breakdown := &model.ScoreBreakdown{FinalScore: 60, Priority: model.TierWarm}
	require.NoError(t, st.SaveScore(ctx, run.ID, testLead(), breakdown))

	// Re-saving the same run replaces the row instead of failing.
	breakdown.FinalScore = 75
	breakdown.Priority = model.TierHot
	require.NoError(t, st.SaveScore(ctx, run.ID, testLead(), breakdown))
}

func TestSaveSignals(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testLead())
	require.NoError(t, err)

	set := &model.ValidatedSignalSet{
		Positive: []model.CandidateSignal{
			{Polarity: model.PolarityPositive, SignalType: "funding_round", Description: "raised", Source: "techcrunch"},
		},
		AggregateConfidence: 0.482,
	}
	require.NoError(t, st.SaveSignals(ctx, run.ID, set))
	require.NoError(t, st.SaveSignals(ctx, run.ID, set))
}
