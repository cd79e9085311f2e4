package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/liftlog/internal/model"
)

// DefaultWeeksBack is the size of the historical comparison window.
const DefaultWeeksBack = 4

// WeekRange returns the week [start, end) containing ref. The week starts on
// first at midnight in ref's location and spans seven calendar days.
func WeekRange(ref time.Time, first time.Weekday) (start, end time.Time) {
	offset := (int(ref.Weekday()) - int(first) + 7) % 7
	y, m, d := ref.Date()
	start = time.Date(y, m, d-offset, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 0, 7)
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// ComputeWeek aggregates every set of the week containing ref's date.
// Persisted sessions sharing ref's ID are replaced by ref itself. Sets whose
// exercise is not registered are dropped. Stats keep first-encounter order.
func ComputeWeek(ref model.WorkoutSession, history []model.WorkoutSession, exercises []model.Exercise, first time.Weekday) model.WeeklyStats {
	start, end := WeekRange(ref.Date, first)

	sessions := make([]model.WorkoutSession, 0, len(history)+1)
	for _, s := range history {
		if ref.ID != "" && s.ID == ref.ID {
			continue
		}
		if inRange(s.Date, start, end) {
			sessions = append(sessions, s)
		}
	}
	if inRange(ref.Date, start, end) {
		sessions = append(sessions, ref)
	}

	names := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		if _, ok := names[ex.ID]; !ok {
			names[ex.ID] = ex.Name
		}
	}

	index := map[string]int{}
	result := []model.ExerciseStat{}
	for _, s := range sessions {
		for _, set := range s.Sets {
			name, ok := names[set.ExerciseID]
			if !ok {
				continue
			}
			i, seen := index[set.ExerciseID]
			if !seen {
				i = len(result)
				index[set.ExerciseID] = i
				result = append(result, model.ExerciseStat{
					ExerciseID:   set.ExerciseID,
					ExerciseName: name,
				})
			}
			stat := &result[i]
			if set.IsNearFailure {
				stat.TotalFailureSets++
			}
			stat.TotalVolume += set.Volume()
			if set.Weight > stat.MaxWeight {
				stat.MaxWeight = set.Weight
			}
		}
	}

	return model.WeeklyStats{
		StartDate:     start,
		EndDate:       end,
		ExerciseStats: result,
	}
}

// PriorWeeks computes the n weeks before the week containing ref, most recent
// first. Each week is computed against history alone.
func PriorWeeks(ref time.Time, history []model.WorkoutSession, exercises []model.Exercise, first time.Weekday, n int) []model.WeeklyStats {
	if n <= 0 {
		return nil
	}
	start, _ := WeekRange(ref, first)
	weeks := make([]model.WeeklyStats, 0, n)
	for k := 1; k <= n; k++ {
		synthetic := model.WorkoutSession{Date: start.AddDate(0, 0, -7*k)}
		weeks = append(weeks, ComputeWeek(synthetic, history, exercises, first))
	}
	return weeks
}

// HistoricalAverages averages each current-week exercise over the prior
// weeks. A metric is averaged only over weeks where it is non-zero, and
// exercises with no qualifying week are absent from the result.
func HistoricalAverages(ref model.WorkoutSession, history []model.WorkoutSession, exercises []model.Exercise, cfg model.Config) map[string]model.HistoricalAverage {
	current := ComputeWeek(ref, history, exercises, cfg.WeekStart)
	prior := PriorWeeks(ref.Date, history, exercises, cfg.WeekStart, weeksBack(cfg))
	return averagesFor(current, prior)
}

func averagesFor(current model.WeeklyStats, prior []model.WeeklyStats) map[string]model.HistoricalAverage {
	out := map[string]model.HistoricalAverage{}
	for _, stat := range current.ExerciseStats {
		var failureSum, volumeSum float64
		var failureWeeks, volumeWeeks int
		for _, week := range prior {
			past, ok := findStat(week, stat.ExerciseID)
			if !ok {
				continue
			}
			if past.TotalFailureSets > 0 {
				failureSum += float64(past.TotalFailureSets)
				failureWeeks++
			}
			if past.TotalVolume > 0 {
				volumeSum += past.TotalVolume
				volumeWeeks++
			}
		}
		if failureWeeks == 0 && volumeWeeks == 0 {
			continue
		}
		avg := model.HistoricalAverage{ExerciseID: stat.ExerciseID}
		if failureWeeks > 0 {
			avg.FailureSets = model.Average{Value: failureSum / float64(failureWeeks), Weeks: failureWeeks}
		}
		if volumeWeeks > 0 {
			avg.Volume = model.Average{Value: volumeSum / float64(volumeWeeks), Weeks: volumeWeeks}
		}
		out[stat.ExerciseID] = avg
	}
	return out
}

func findStat(week model.WeeklyStats, exerciseID string) (model.ExerciseStat, bool) {
	for _, s := range week.ExerciseStats {
		if s.ExerciseID == exerciseID {
			return s, true
		}
	}
	return model.ExerciseStat{}, false
}

func weeksBack(cfg model.Config) int {
	if cfg.WeeksBack <= 0 {
		return DefaultWeeksBack
	}
	return cfg.WeeksBack
}

// Comparison relates a current-week value to its historical average.
type Comparison struct {
	Current    float64
	Historical model.Average
	Percent    float64
	// Shown is false when there is no usable average or the change is exactly zero.
	Shown bool
}

// Compare computes the percentage change of current against hist.
// A missing or zero average yields no comparison.
func Compare(current float64, hist model.Average) Comparison {
	c := Comparison{Current: current, Historical: hist}
	if !hist.Valid() || hist.Value == 0 {
		return c
	}
	c.Percent = (current/hist.Value - 1) * 100
	c.Shown = c.Percent != 0
	return c
}

// Change formats the percentage with an explicit sign, or "" when not shown.
func (c Comparison) Change() string {
	if !c.Shown {
		return ""
	}
	return fmt.Sprintf("%+.1f%%", c.Percent)
}

// Increase reports whether the current value is above the average.
func (c Comparison) Increase() bool {
	return c.Shown && c.Percent > 0
}
