package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresWithPool(mock), mock
}

func TestPostgresMigrate(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateRun(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := st.CreateRun(context.Background(), model.LeadProfile{ID: "a", Company: "Acme"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRunStatus(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("scoring", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, st.UpdateRunStatus(context.Background(), "run-1", model.RunStatusScoring))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRunStatusNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("scoring", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.UpdateRunStatus(context.Background(), "missing", model.RunStatusScoring)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestPostgresCompleteRunSetsFailedStatus(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET outcome").
		WithArgs(pgxmock.AnyArg(), "failed", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	outcome := &model.LeadOutcome{LeadID: "a", FailureReason: "no company"}
	require.NoError(t, st.CompleteRun(context.Background(), "run-1", outcome))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRun(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	leadJSON, err := json.Marshal(model.LeadProfile{ID: "a", Company: "Acme"})
	require.NoError(t, err)
	outcomeJSON, err := json.Marshal(model.LeadOutcome{
		LeadID:    "a",
		Breakdown: &model.ScoreBreakdown{FinalScore: 72, Priority: model.TierHot},
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, lead, status, outcome, created_at, updated_at FROM runs").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "lead", "status", "outcome", "created_at", "updated_at"}).
			AddRow("run-1", leadJSON, model.RunStatus("complete"), &outcomeJSON, now, now))

	run, err := st.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", run.Lead.Company)
	require.NotNil(t, run.Outcome)
	assert.InDelta(t, 72, run.Outcome.Breakdown.FinalScore, 1e-9)
}

func TestPostgresSaveScoreUpsert(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO scores").
		WithArgs("run-1", "a", "Acme", 75.0, "hot", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	breakdown := &model.ScoreBreakdown{FinalScore: 75, Priority: model.TierHot}
	err := st.SaveScore(context.Background(), "run-1", model.LeadProfile{ID: "a", Company: "Acme"}, breakdown)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveSignals(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO signal_sets").
		WithArgs("run-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	set := &model.ValidatedSignalSet{AggregateConfidence: 0.3}
	require.NoError(t, st.SaveSignals(context.Background(), "run-1", set))
}

func TestPostgresStageLifecycle(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO run_stages").
		WithArgs(pgxmock.AnyArg(), "run-1", "score", "running", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE run_stages").
		WithArgs("complete", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	stageID, err := st.CreateStage(context.Background(), "run-1", "score")
	require.NoError(t, err)

	result := &model.StageResult{Name: "score", Status: model.StageStatusComplete, Duration: 10}
	require.NoError(t, st.CompleteStage(context.Background(), stageID, result))
	assert.NoError(t, mock.ExpectationsWereMet())
}
