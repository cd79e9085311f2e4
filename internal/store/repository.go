package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/liftlog/internal/model"
)

// Well-known keys partitioning the store.
const (
	ExercisesKey = "workout_exercises"
	SessionsKey  = "workout_sessions"
)

// Repository loads and saves whole collections through a KV.
// Malformed stored data degrades to empty values and is logged, never returned as an error.
type Repository struct {
	kv  KV
	loc *time.Location
	log logrus.FieldLogger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLocation sets the location stored dates are converted to on load.
func WithLocation(loc *time.Location) Option {
	return func(r *Repository) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithLogger sets the logger used for decode warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRepository wraps kv.
func NewRepository(kv KV, opts ...Option) *Repository {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	r := &Repository{kv: kv, loc: time.Local, log: discard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the location dates are loaded in.
func (r *Repository) Location() *time.Location {
	return r.loc
}

// LoadExercises returns the exercise registry.
func (r *Repository) LoadExercises(ctx context.Context) ([]model.Exercise, error) {
	records, err := r.loadRecords(ctx, ExercisesKey)
	if err != nil {
		return nil, err
	}
	exercises := make([]model.Exercise, 0, len(records))
	for i, raw := range records {
		var ex model.Exercise
		if err := json.Unmarshal(raw, &ex); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"key": ExercisesKey, "index": i}).Warn("skipping malformed exercise")
			continue
		}
		if ex.ID == "" {
			r.log.WithFields(logrus.Fields{"key": ExercisesKey, "index": i}).Warn("skipping exercise without id")
			continue
		}
		exercises = append(exercises, ex)
	}
	return exercises, nil
}

// SaveExercises replaces the exercise registry.
func (r *Repository) SaveExercises(ctx context.Context, exercises []model.Exercise) error {
	if exercises == nil {
		exercises = []model.Exercise{}
	}
	return r.save(ctx, ExercisesKey, exercises)
}

type sessionRecord struct {
	ID   string            `json:"id"`
	Date time.Time         `json:"date"`
	Sets []json.RawMessage `json:"sets"`
}

// LoadSessions returns the session history with dates in the repository location.
func (r *Repository) LoadSessions(ctx context.Context) ([]model.WorkoutSession, error) {
	records, err := r.loadRecords(ctx, SessionsKey)
	if err != nil {
		return nil, err
	}
	sessions := make([]model.WorkoutSession, 0, len(records))
	for i, raw := range records {
		var rec sessionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"key": SessionsKey, "index": i}).Warn("skipping malformed session")
			continue
		}
		if rec.ID == "" {
			r.log.WithFields(logrus.Fields{"key": SessionsKey, "index": i}).Warn("skipping session without id")
			continue
		}
		session := model.WorkoutSession{
			ID:   rec.ID,
			Date: r.calendarTime(rec.Date),
			Sets: make([]model.WorkoutSet, 0, len(rec.Sets)),
		}
		for j, rawSet := range rec.Sets {
			var set model.WorkoutSet
			if err := json.Unmarshal(rawSet, &set); err != nil {
				r.log.WithError(err).WithFields(logrus.Fields{"session": rec.ID, "index": j}).Warn("skipping malformed set")
				continue
			}
			set.Date = r.calendarTime(set.Date)
			session.Sets = append(session.Sets, set)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// calendarTime converts a stored date into the repository location. Dates at
// exactly UTC midnight are bare calendar days ("2024-01-15" parsed in the
// browser) and keep their day as local midnight.
func (r *Repository) calendarTime(t time.Time) time.Time {
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		y, m, d := u.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	}
	return t.In(r.loc)
}

// SaveSessions replaces the session history.
func (r *Repository) SaveSessions(ctx context.Context, sessions []model.WorkoutSession) error {
	out := make([]model.WorkoutSession, len(sessions))
	for i, s := range sessions {
		if s.Sets == nil {
			s.Sets = []model.WorkoutSet{}
		}
		out[i] = s
	}
	return r.save(ctx, SessionsKey, out)
}

func (r *Repository) loadRecords(ctx context.Context, key string) ([]json.RawMessage, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("stored value is not a list, treating as empty")
		return nil, nil
	}
	return records, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	r.log.WithFields(logrus.Fields{"key": key, "bytes": len(data)}).Debug("saved collection")
	return nil
}
