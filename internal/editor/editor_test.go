package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingRepo struct {
	*store.Repository
	saveErr error
}

func (f *failingRepo) SaveSessions(context.Context, []model.WorkoutSession) error {
	return f.saveErr
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEditor(t *testing.T) (*Editor, *store.Repository) {
	t.Helper()
	repo := store.NewRepository(store.NewMemory(), store.WithLocation(time.UTC))
	return New(repo, WithLocation(time.UTC), WithIDGenerator(sequentialIDs())), repo
}

func mustExercise(t *testing.T, ed *Editor, name string) model.Exercise {
	t.Helper()
	ex, err := ed.AddExercise(context.Background(), name)
	require.NoError(t, err)
	return ex
}

func TestOpenDayCreatesUnsavedSession(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)

	session, resumed, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), session.Date)
	assert.NotEmpty(t, session.ID)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions, "empty sessions must not be persisted")
}

func TestOpenDayResumesSameCalendarDay(t *testing.T) {
	ctx := context.Background()
	ed, _ := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")

	session, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Reps: 5, Weight: 100})
	require.NoError(t, err)

	again, resumed, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, session.ID, again.ID)
	require.Len(t, again.Sets, 1)

	other, resumed, err := ed.OpenDay(ctx, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.NotEqual(t, session.ID, other.ID)
}

func TestAddSetUpsertsSession(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")

	session, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	first, err := ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Reps: 5, Weight: 100})
	require.NoError(t, err)
	second, err := ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: "squat", Reps: 5, Weight: 100, IsNearFailure: true})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, squat.ID, second.ExerciseID, "exercise names resolve to ids")
	assert.Equal(t, session.Date, first.Date)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Sets, 2)

	report := stats.BuildReport(session, sessions, []model.Exercise{squat}, model.Config{})
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 1000.0, report.Rows[0].Stat.TotalVolume)
	assert.Equal(t, 1, report.Rows[0].Stat.TotalFailureSets)
}

func TestAddSetValidation(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")
	session, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Reps: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Weight: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: "unknown", Reps: 5})
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "set", opErr.Resource)

	assert.Empty(t, session.Sets)
	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestAddSetRollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(store.NewMemory(), store.WithLocation(time.UTC))
	require.NoError(t, repo.SaveExercises(ctx, []model.Exercise{{ID: "ex1", Name: "Squat"}}))
	ed := New(&failingRepo{Repository: repo, saveErr: errors.New("disk full")}, WithLocation(time.UTC))

	session := model.WorkoutSession{ID: "s", Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	_, err := ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: "ex1", Reps: 5, Weight: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, session.Sets)
}

func TestUpdateAndDeleteSetKeepSessionOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(store.NewMemory(), store.WithLocation(time.UTC))
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	stored := model.WorkoutSession{ID: "s", Date: day, Sets: []model.WorkoutSet{
		{ID: "a", ExerciseID: "ex1", Reps: 5, Weight: 100, Date: day},
		{ID: "b", ExerciseID: "ex1", Reps: 3, Weight: 120, Date: day},
	}}
	require.NoError(t, repo.SaveExercises(ctx, []model.Exercise{{ID: "ex1", Name: "Squat"}}))
	require.NoError(t, repo.SaveSessions(ctx, []model.WorkoutSession{stored}))
	ed := New(&failingRepo{Repository: repo, saveErr: errors.New("disk full")}, WithLocation(time.UTC))

	session, resumed, err := ed.OpenDay(ctx, day)
	require.NoError(t, err)
	require.True(t, resumed)

	edited := session.Sets[0]
	edited.Weight = 999
	err = ed.UpdateSet(ctx, &session, edited)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 100.0, session.Sets[0].Weight)

	err = ed.DeleteSet(ctx, &session, "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.Len(t, session.Sets, 2)
	assert.Equal(t, "b", session.Sets[1].ID)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Len(t, sessions[0].Sets, 2)
	assert.Equal(t, 100.0, sessions[0].Sets[0].Weight)
}

func TestUpdateSetRejectsUnknownExercise(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")
	bench := mustExercise(t, ed, "Bench press")

	session, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	set, err := ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Reps: 5, Weight: 100})
	require.NoError(t, err)

	ghost := set
	ghost.ExerciseID = "ghost"
	err = ed.UpdateSet(ctx, &session, ghost)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.Equal(t, squat.ID, session.Sets[0].ExerciseID)

	byName := set
	byName.ExerciseID = "bench press"
	require.NoError(t, ed.UpdateSet(ctx, &session, byName))
	assert.Equal(t, bench.ID, session.Sets[0].ExerciseID)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, bench.ID, sessions[0].Sets[0].ExerciseID)
}

func TestUpdateSetReplacesByID(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")

	dayOne, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	added, err := ed.AddSet(ctx, &dayOne, model.WorkoutSet{ExerciseID: squat.ID, Reps: 5, Weight: 100})
	require.NoError(t, err)
	dayTwo, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = ed.AddSet(ctx, &dayTwo, model.WorkoutSet{ExerciseID: squat.ID, Reps: 3, Weight: 120})
	require.NoError(t, err)

	edited := added
	edited.Weight = 105
	edited.IsNearFailure = true
	require.NoError(t, ed.UpdateSet(ctx, &dayOne, edited))

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 105.0, sessions[0].Sets[0].Weight)
	assert.True(t, sessions[0].Sets[0].IsNearFailure)
	assert.Equal(t, 120.0, sessions[1].Sets[0].Weight)

	err = ed.UpdateSet(ctx, &dayOne, model.WorkoutSet{ID: "missing", ExerciseID: squat.ID})
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestUpdateSetOnUnsavedSessionDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)
	session := model.WorkoutSession{
		ID:   "draft",
		Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Sets: []model.WorkoutSet{{ID: "a", ExerciseID: "ex1", Reps: 5, Weight: 100}},
	}
	require.NoError(t, ed.UpdateSet(ctx, &session, model.WorkoutSet{ID: "a", ExerciseID: "ex1", Reps: 6, Weight: 100}))
	assert.Equal(t, 6, session.Sets[0].Reps)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestDeleteSetKeepsOthers(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")
	bench := mustExercise(t, ed, "Bench press")

	session, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	gone, err := ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Reps: 5, Weight: 100})
	require.NoError(t, err)
	_, err = ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: bench.ID, Reps: 10, Weight: 60})
	require.NoError(t, err)

	require.NoError(t, ed.DeleteSet(ctx, &session, gone.ID))
	assert.ErrorIs(t, ed.DeleteSet(ctx, &session, gone.ID), ErrSetNotFound)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	exercises, err := repo.LoadExercises(ctx)
	require.NoError(t, err)
	week := stats.ComputeWeek(session, sessions, exercises, time.Sunday)
	require.Len(t, week.ExerciseStats, 1)
	assert.Equal(t, bench.ID, week.ExerciseStats[0].ExerciseID)
	assert.Equal(t, 600.0, week.ExerciseStats[0].TotalVolume)
}

func TestDeleteSessionCascadesSets(t *testing.T) {
	ctx := context.Background()
	ed, repo := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")

	session, _, err := ed.OpenDay(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Reps: 5, Weight: 100})
	require.NoError(t, err)

	require.NoError(t, ed.DeleteSession(ctx, session.ID))
	assert.ErrorIs(t, ed.DeleteSession(ctx, session.ID), ErrSessionNotFound)
	_, err = ed.FindSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	week := stats.ComputeWeek(model.WorkoutSession{Date: session.Date}, sessions, []model.Exercise{squat}, time.Sunday)
	assert.Empty(t, week.ExerciseStats)
}

func TestListSessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	ed, _ := newTestEditor(t)
	squat := mustExercise(t, ed, "Squat")

	for _, d := range []int{10, 14, 12} {
		session, _, err := ed.OpenDay(ctx, time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		_, err = ed.AddSet(ctx, &session, model.WorkoutSet{ExerciseID: squat.ID, Reps: 1, Weight: 1})
		require.NoError(t, err)
	}
	sessions, err := ed.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, 14, sessions[0].Date.Day())
	assert.Equal(t, 12, sessions[1].Date.Day())
	assert.Equal(t, 10, sessions[2].Date.Day())
}
