// Package editor implements session, set, and exercise editing on top of the repository.
//
// Every operation is a read-modify-write of a whole collection. There is no
// locking: callers must not edit the same store from two places at once.
package editor

import (
	"context"
	"io"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/liftlog/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=editor_test

// Repository loads and saves the persisted collections.
type Repository interface {
	LoadExercises(ctx context.Context) ([]model.Exercise, error)
	SaveExercises(ctx context.Context, exercises []model.Exercise) error
	LoadSessions(ctx context.Context) ([]model.WorkoutSession, error)
	SaveSessions(ctx context.Context, sessions []model.WorkoutSession) error
}

// Editor applies user edits to the repository.
type Editor struct {
	repo  Repository
	loc   *time.Location
	newID func() string
	log   logrus.FieldLogger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLocation sets the location calendar days are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(e *Editor) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithLogger sets the logger for edit traces.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Editor) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Editor over repo.
func New(repo Repository, opts ...Option) *Editor {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	e := &Editor{
		repo:  repo,
		loc:   time.Local,
		newID: uuid.NewString,
		log:   discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartOfDay returns local midnight of t in the editor's location.
func (e *Editor) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}

// OpenDay returns the persisted session on date's calendar day, or a fresh
// unsaved session when none exists. resumed reports which one it is.
func (e *Editor) OpenDay(ctx context.Context, date time.Time) (session model.WorkoutSession, resumed bool, err error) {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return model.WorkoutSession{}, false, wrapSessionErr("open", "", err)
	}
	day := e.StartOfDay(date)
	for _, s := range sessions {
		if s.SameDay(day) {
			return s, true, nil
		}
	}
	return model.WorkoutSession{ID: e.newID(), Date: day}, false, nil
}

// AddSet appends set to session under a fresh ID and persists the session.
// The set's date defaults to the session date.
func (e *Editor) AddSet(ctx context.Context, session *model.WorkoutSession, set model.WorkoutSet) (model.WorkoutSet, error) {
	if err := validateSet(set); err != nil {
		return model.WorkoutSet{}, wrapSetErr("add", "", err)
	}
	ex, err := e.findExercise(ctx, set.ExerciseID)
	if err != nil {
		return model.WorkoutSet{}, wrapSetErr("add", "", err)
	}
	set.ExerciseID = ex.ID
	set.ID = e.newID()
	if set.Date.IsZero() {
		set.Date = session.Date
	}
	session.Sets = append(session.Sets, set)
	if err := e.upsertSession(ctx, *session); err != nil {
		session.Sets = session.Sets[:len(session.Sets)-1]
		return model.WorkoutSet{}, wrapSetErr("add", set.ID, err)
	}
	e.log.WithFields(logrus.Fields{"session": session.ID, "set": set.ID, "exercise": set.ExerciseID}).Debug("set added")
	return set, nil
}

// UpdateSet replaces the set with the same ID inside session. Only the owning
// session is re-persisted, and only if it was persisted before. session is
// left untouched when the save fails.
func (e *Editor) UpdateSet(ctx context.Context, session *model.WorkoutSession, set model.WorkoutSet) error {
	if err := validateSet(set); err != nil {
		return wrapSetErr("update", set.ID, err)
	}
	idx := indexOfSet(session.Sets, set.ID)
	if idx < 0 {
		return wrapSetErr("update", set.ID, ErrSetNotFound)
	}
	if set.ExerciseID != session.Sets[idx].ExerciseID {
		ex, err := e.findExercise(ctx, set.ExerciseID)
		if err != nil {
			return wrapSetErr("update", set.ID, err)
		}
		set.ExerciseID = ex.ID
	}
	if set.Date.IsZero() {
		set.Date = session.Sets[idx].Date
	}
	updated := *session
	updated.Sets = append([]model.WorkoutSet(nil), session.Sets...)
	updated.Sets[idx] = set
	if err := e.replaceIfPersisted(ctx, updated); err != nil {
		return wrapSetErr("update", set.ID, err)
	}
	*session = updated
	e.log.WithFields(logrus.Fields{"session": session.ID, "set": set.ID}).Debug("set updated")
	return nil
}

// DeleteSet removes a set from session and re-persists it.
func (e *Editor) DeleteSet(ctx context.Context, session *model.WorkoutSession, setID string) error {
	idx := indexOfSet(session.Sets, setID)
	if idx < 0 {
		return wrapSetErr("delete", setID, ErrSetNotFound)
	}
	kept := make([]model.WorkoutSet, 0, len(session.Sets)-1)
	kept = append(kept, session.Sets[:idx]...)
	kept = append(kept, session.Sets[idx+1:]...)
	updated := *session
	updated.Sets = kept
	if err := e.replaceIfPersisted(ctx, updated); err != nil {
		return wrapSetErr("delete", setID, err)
	}
	*session = updated
	e.log.WithFields(logrus.Fields{"session": session.ID, "set": setID}).Debug("set deleted")
	return nil
}

// DeleteSession removes a session together with all of its sets.
func (e *Editor) DeleteSession(ctx context.Context, sessionID string) error {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return wrapSessionErr("delete", sessionID, err)
	}
	kept := make([]model.WorkoutSession, 0, len(sessions))
	found := false
	for _, s := range sessions {
		if s.ID == sessionID {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return wrapSessionErr("delete", sessionID, ErrSessionNotFound)
	}
	if err := e.repo.SaveSessions(ctx, kept); err != nil {
		return wrapSessionErr("delete", sessionID, err)
	}
	e.log.WithField("session", sessionID).Debug("session deleted")
	return nil
}

// ListSessions returns all sessions, newest first.
func (e *Editor) ListSessions(ctx context.Context) ([]model.WorkoutSession, error) {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return nil, wrapSessionErr("list", "", err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})
	return sessions, nil
}

// FindSession returns the persisted session with id.
func (e *Editor) FindSession(ctx context.Context, id string) (model.WorkoutSession, error) {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return model.WorkoutSession{}, wrapSessionErr("find", id, err)
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return model.WorkoutSession{}, wrapSessionErr("find", id, ErrSessionNotFound)
}

func (e *Editor) upsertSession(ctx context.Context, session model.WorkoutSession) error {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return err
	}
	if idx := indexOfSession(sessions, session.ID); idx >= 0 {
		sessions[idx] = session
	} else {
		sessions = append(sessions, session)
	}
	return e.repo.SaveSessions(ctx, sessions)
}

func (e *Editor) replaceIfPersisted(ctx context.Context, session model.WorkoutSession) error {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return err
	}
	idx := indexOfSession(sessions, session.ID)
	if idx < 0 {
		return nil
	}
	sessions[idx] = session
	return e.repo.SaveSessions(ctx, sessions)
}

func indexOfSession(sessions []model.WorkoutSession, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func indexOfSet(sets []model.WorkoutSet, id string) int {
	for i, s := range sets {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func validateSet(set model.WorkoutSet) error {
	if set.ExerciseID == "" {
		return invalid("exercise is required")
	}
	if set.Reps < 0 {
		return invalid("reps must be >= 0")
	}
	if set.Weight < 0 || math.IsNaN(set.Weight) || math.IsInf(set.Weight, 0) {
		return invalid("weight must be a non-negative number")
	}
	return nil
}
