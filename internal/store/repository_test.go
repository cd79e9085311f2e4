package store

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/liftlog/internal/model"
)

func newTestRepository(t *testing.T) (*Repository, *Memory, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetLevel(logrus.DebugLevel)
	kv := NewMemory()
	return NewRepository(kv, WithLocation(time.UTC), WithLogger(logger)), kv, &logs
}

func TestRepositoryMissingKeysAreEmpty(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepository(t)

	exercises, err := repo.LoadExercises(ctx)
	require.NoError(t, err)
	assert.Empty(t, exercises)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, kv, _ := newTestRepository(t)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	sessions := []model.WorkoutSession{
		{ID: "s1", Date: date, Sets: []model.WorkoutSet{
			{ID: "a", ExerciseID: "ex1", Reps: 5, Weight: 102.5, Date: date, IsNearFailure: true},
		}},
		{ID: "s2", Date: date.AddDate(0, 0, 1)},
	}
	require.NoError(t, repo.SaveSessions(ctx, sessions))

	raw, ok, err := kv.Get(ctx, SessionsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"exerciseId":"ex1"`)
	assert.Contains(t, string(raw), `"isNearFailure":true`)
	assert.Contains(t, string(raw), `"sets":[]`)

	loaded, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded[0].Date.Equal(date))
	assert.Equal(t, sessions[0].Sets[0].Weight, loaded[0].Sets[0].Weight)
	assert.True(t, loaded[0].Sets[0].IsNearFailure)
	assert.Empty(t, loaded[1].Sets)
}

func TestRepositoryReadsBrowserStorageShape(t *testing.T) {
	ctx := context.Background()
	repo, kv, _ := newTestRepository(t)

	require.NoError(t, kv.Set(ctx, ExercisesKey, []byte(`[{"id":"1700000000000","name":"深蹲"}]`)))
	require.NoError(t, kv.Set(ctx, SessionsKey, []byte(`[
		{"id":"1700000000001","date":"2024-01-15T00:00:00.000Z","sets":[
			{"id":"1700000000002","exerciseId":"1700000000000","reps":5,"weight":100,"date":"2024-01-15T00:00:00.000Z","isNearFailure":false}
		]}
	]`)))

	exercises, err := repo.LoadExercises(ctx)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "深蹲", exercises[0].Name)

	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(sessions[0].Date))
	require.Len(t, sessions[0].Sets, 1)
	assert.Equal(t, 500.0, sessions[0].Sets[0].Volume())
}

func TestRepositoryToleratesMalformedData(t *testing.T) {
	ctx := context.Background()
	repo, kv, logs := newTestRepository(t)

	require.NoError(t, kv.Set(ctx, ExercisesKey, []byte(`{"not":"a list"}`)))
	exercises, err := repo.LoadExercises(ctx)
	require.NoError(t, err)
	assert.Empty(t, exercises)
	assert.Contains(t, logs.String(), "stored value is not a list")

	require.NoError(t, kv.Set(ctx, SessionsKey, []byte(`[
		{"id":"ok","date":"2024-01-15T10:00:00Z","sets":[
			{"id":"good","exerciseId":"ex1","reps":5,"weight":100,"date":"2024-01-15T10:00:00Z","isNearFailure":false},
			{"id":"bad","exerciseId":"ex1","reps":"five","weight":100,"date":"2024-01-15T10:00:00Z"}
		]},
		{"id":"broken","date":"yesterday","sets":[]},
		null,
		{"id":"nosets","date":"2024-01-16T10:00:00Z","sets":null}
	]`)))
	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "ok", sessions[0].ID)
	require.Len(t, sessions[0].Sets, 1)
	assert.Equal(t, "good", sessions[0].Sets[0].ID)
	assert.Equal(t, "nosets", sessions[1].ID)
	assert.Contains(t, logs.String(), "skipping malformed set")
	assert.Contains(t, logs.String(), "skipping malformed session")
}

func TestRepositoryConvertsDatesToLocation(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+8", 8*60*60)
	kv := NewMemory()
	repo := NewRepository(kv, WithLocation(loc))

	require.NoError(t, kv.Set(ctx, SessionsKey, []byte(`[{"id":"s","date":"2024-01-14T16:00:00Z","sets":[]}]`)))
	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, loc, sessions[0].Date.Location())
	assert.Equal(t, 15, sessions[0].Date.Day())
}

func TestRepositoryKeepsCalendarDayOfUTCMidnight(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC-5", -5*60*60)
	kv := NewMemory()
	repo := NewRepository(kv, WithLocation(loc))

	require.NoError(t, kv.Set(ctx, SessionsKey, []byte(`[
		{"id":"bare","date":"2024-01-15T00:00:00.000Z","sets":[
			{"id":"a","exerciseId":"ex1","reps":5,"weight":100,"date":"2024-01-15T00:00:00.000Z","isNearFailure":false}
		]},
		{"id":"local","date":"2024-01-16T05:00:00Z","sets":[]}
	]`)))
	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), sessions[0].Date)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), sessions[0].Sets[0].Date)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, loc), sessions[1].Date)

	// Local midnight written back keeps its day on the next load.
	require.NoError(t, repo.SaveSessions(ctx, sessions))
	reloaded, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	assert.Equal(t, 15, reloaded[0].Date.Day())
	assert.Equal(t, 16, reloaded[1].Date.Day())
}
