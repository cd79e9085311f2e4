// Package model defines shared data structures.
package model

import "time"

// Config defines weekly stats settings.
type Config struct {
	WeeksBack int
	WeekStart time.Weekday
}

// Exercise is a user-defined movement that sets are logged against.
type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkoutSet is a single logged set.
type WorkoutSet struct {
	ID            string    `json:"id"`
	ExerciseID    string    `json:"exerciseId"`
	Reps          int       `json:"reps"`
	Weight        float64   `json:"weight"`
	Date          time.Time `json:"date"`
	IsNearFailure bool      `json:"isNearFailure"`
}

// Volume returns weight times reps.
func (s WorkoutSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// WorkoutSession groups the sets logged on one calendar day.
type WorkoutSession struct {
	ID   string       `json:"id"`
	Date time.Time    `json:"date"`
	Sets []WorkoutSet `json:"sets"`
}

// SameDay reports whether the session falls on the calendar day of t,
// compared in t's location.
func (s WorkoutSession) SameDay(t time.Time) bool {
	y1, m1, d1 := s.Date.In(t.Location()).Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ExerciseStat aggregates one exercise over a week.
type ExerciseStat struct {
	ExerciseID       string
	ExerciseName     string
	TotalFailureSets int
	TotalVolume      float64
	MaxWeight        float64
}

// WeeklyStats summarizes the week [StartDate, EndDate).
type WeeklyStats struct {
	StartDate     time.Time
	EndDate       time.Time
	ExerciseStats []ExerciseStat
}

// Average is a mean over the weeks that had a non-zero value.
// Weeks == 0 means there is no average.
type Average struct {
	Value float64
	Weeks int
}

// Valid reports whether the average exists.
func (a Average) Valid() bool {
	return a.Weeks > 0
}

// HistoricalAverage holds the trailing averages for one exercise.
type HistoricalAverage struct {
	ExerciseID  string
	FailureSets Average
	Volume      Average
}
