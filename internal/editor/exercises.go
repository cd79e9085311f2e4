package editor

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/liftlog/internal/model"
)

// ListExercises returns the exercise registry in insertion order.
func (e *Editor) ListExercises(ctx context.Context) ([]model.Exercise, error) {
	exercises, err := e.repo.LoadExercises(ctx)
	if err != nil {
		return nil, wrapExerciseErr("list", "", err)
	}
	return exercises, nil
}

// AddExercise registers a new exercise. Names are unique, ignoring case.
func (e *Editor) AddExercise(ctx context.Context, name string) (model.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Exercise{}, wrapExerciseErr("add", "", invalid("name must not be empty"))
	}
	exercises, err := e.repo.LoadExercises(ctx)
	if err != nil {
		return model.Exercise{}, wrapExerciseErr("add", "", err)
	}
	if idx := indexOfName(exercises, name, ""); idx >= 0 {
		return model.Exercise{}, wrapExerciseErr("add", "", invalid("exercise %q already exists", exercises[idx].Name))
	}
	ex := model.Exercise{ID: e.newID(), Name: name}
	exercises = append(exercises, ex)
	if err := e.repo.SaveExercises(ctx, exercises); err != nil {
		return model.Exercise{}, wrapExerciseErr("add", ex.ID, err)
	}
	e.log.WithFields(logrus.Fields{"exercise": ex.ID, "name": ex.Name}).Debug("exercise added")
	return ex, nil
}

// RenameExercise changes the display name of an exercise.
func (e *Editor) RenameExercise(ctx context.Context, id, name string) (model.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Exercise{}, wrapExerciseErr("rename", id, invalid("name must not be empty"))
	}
	exercises, err := e.repo.LoadExercises(ctx)
	if err != nil {
		return model.Exercise{}, wrapExerciseErr("rename", id, err)
	}
	idx := indexOfExercise(exercises, id)
	if idx < 0 {
		return model.Exercise{}, wrapExerciseErr("rename", id, ErrExerciseNotFound)
	}
	if other := indexOfName(exercises, name, id); other >= 0 {
		return model.Exercise{}, wrapExerciseErr("rename", id, invalid("exercise %q already exists", exercises[other].Name))
	}
	exercises[idx].Name = name
	if err := e.repo.SaveExercises(ctx, exercises); err != nil {
		return model.Exercise{}, wrapExerciseErr("rename", id, err)
	}
	return exercises[idx], nil
}

// DeleteExercise removes an exercise from the registry. Logged sets keep
// their reference and are left out of weekly stats from then on.
func (e *Editor) DeleteExercise(ctx context.Context, id string) error {
	exercises, err := e.repo.LoadExercises(ctx)
	if err != nil {
		return wrapExerciseErr("delete", id, err)
	}
	idx := indexOfExercise(exercises, id)
	if idx < 0 {
		return wrapExerciseErr("delete", id, ErrExerciseNotFound)
	}
	kept := make([]model.Exercise, 0, len(exercises)-1)
	kept = append(kept, exercises[:idx]...)
	kept = append(kept, exercises[idx+1:]...)
	if err := e.repo.SaveExercises(ctx, kept); err != nil {
		return wrapExerciseErr("delete", id, err)
	}
	e.log.WithField("exercise", id).Debug("exercise deleted")
	return nil
}

// ExerciseUsage counts the persisted sets that reference the exercise.
func (e *Editor) ExerciseUsage(ctx context.Context, id string) (int, error) {
	sessions, err := e.repo.LoadSessions(ctx)
	if err != nil {
		return 0, wrapExerciseErr("usage", id, err)
	}
	count := 0
	for _, s := range sessions {
		for _, set := range s.Sets {
			if set.ExerciseID == id {
				count++
			}
		}
	}
	return count, nil
}

// ResolveExercise finds an exercise by exact ID, then by name ignoring case.
func (e *Editor) ResolveExercise(ctx context.Context, idOrName string) (model.Exercise, error) {
	ex, err := e.findExercise(ctx, idOrName)
	if err != nil {
		return model.Exercise{}, wrapExerciseErr("resolve", idOrName, err)
	}
	return ex, nil
}

func (e *Editor) findExercise(ctx context.Context, idOrName string) (model.Exercise, error) {
	exercises, err := e.repo.LoadExercises(ctx)
	if err != nil {
		return model.Exercise{}, err
	}
	if idx := indexOfExercise(exercises, idOrName); idx >= 0 {
		return exercises[idx], nil
	}
	if idx := indexOfName(exercises, strings.TrimSpace(idOrName), ""); idx >= 0 {
		return exercises[idx], nil
	}
	return model.Exercise{}, ErrExerciseNotFound
}

func indexOfExercise(exercises []model.Exercise, id string) int {
	for i, ex := range exercises {
		if ex.ID == id {
			return i
		}
	}
	return -1
}

func indexOfName(exercises []model.Exercise, name, skipID string) int {
	for i, ex := range exercises {
		if ex.ID != skipID && strings.EqualFold(ex.Name, name) {
			return i
		}
	}
	return -1
}
