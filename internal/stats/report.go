// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/liftlog/internal/model"
)

// Source provides the persisted collections a report is built from.
type Source interface {
	LoadExercises(ctx context.Context) ([]model.Exercise, error)
	LoadSessions(ctx context.Context) ([]model.WorkoutSession, error)
}

// Row is one exercise of the current week with its comparisons.
type Row struct {
	Stat        model.ExerciseStat
	Historical  model.HistoricalAverage
	FailureSets Comparison
	Volume      Comparison
	// Trend holds weekly volume, oldest first, ending with the current week.
	Trend []float64
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Week      model.WeeklyStats
	WeeksBack int
	Rows      []Row
}

// BuildReport computes the week of ref and compares it against the prior weeks.
func BuildReport(ref model.WorkoutSession, history []model.WorkoutSession, exercises []model.Exercise, cfg model.Config) Report {
	n := weeksBack(cfg)
	current := ComputeWeek(ref, history, exercises, cfg.WeekStart)
	prior := PriorWeeks(ref.Date, history, exercises, cfg.WeekStart, n)
	averages := averagesFor(current, prior)

	rows := make([]Row, 0, len(current.ExerciseStats))
	for _, stat := range current.ExerciseStats {
		hist := averages[stat.ExerciseID]
		trend := make([]float64, 0, len(prior)+1)
		for i := len(prior) - 1; i >= 0; i-- {
			past, _ := findStat(prior[i], stat.ExerciseID)
			trend = append(trend, past.TotalVolume)
		}
		trend = append(trend, stat.TotalVolume)
		rows = append(rows, Row{
			Stat:        stat,
			Historical:  hist,
			FailureSets: Compare(float64(stat.TotalFailureSets), hist.FailureSets),
			Volume:      Compare(stat.TotalVolume, hist.Volume),
			Trend:       trend,
		})
	}
	return Report{
		Week:      current,
		WeeksBack: n,
		Rows:      rows,
	}
}

// LoadReport loads the collections from src and builds the report for ref.
func LoadReport(ctx context.Context, src Source, ref model.WorkoutSession, cfg model.Config) (Report, error) {
	exercises, err := src.LoadExercises(ctx)
	if err != nil {
		return Report{}, err
	}
	sessions, err := src.LoadSessions(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(ref, sessions, exercises, cfg), nil
}
