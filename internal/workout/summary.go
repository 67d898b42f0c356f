package workout

import (
	"math"

	"github.com/claude/mapty/internal/models"
)

// TypeSummary aggregates the workouts of one type.
type TypeSummary struct {
	Count       int     `json:"count"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	// AvgPaceMinPerKm is total duration over total distance (running only).
	AvgPaceMinPerKm float64 `json:"avg_pace_min_per_km,omitempty"`
	// AvgSpeedKmPerH is total distance over total hours (cycling only).
	AvgSpeedKmPerH float64 `json:"avg_speed_km_per_h,omitempty"`
	ElevationGainM float64 `json:"elevation_gain_m,omitempty"`
}

// Summary aggregates a workout collection.
type Summary struct {
	Total   int         `json:"total"`
	Running TypeSummary `json:"running"`
	Cycling TypeSummary `json:"cycling"`
}

// Summarize totals ws per type.
func Summarize(ws []*models.Workout) Summary {
	var s Summary
	for _, w := range ws {
		var ts *TypeSummary
		switch w.Type {
		case models.Running:
			ts = &s.Running
		case models.Cycling:
			ts = &s.Cycling
			ts.ElevationGainM += w.ElevationGain
		default:
			continue
		}
		s.Total++
		ts.Count++
		ts.DistanceKm += w.Distance
		ts.DurationMin += w.Duration
	}
	if s.Running.DistanceKm > 0 {
		s.Running.AvgPaceMinPerKm = s.Running.DurationMin / s.Running.DistanceKm
	}
	if s.Cycling.DurationMin > 0 {
		s.Cycling.AvgSpeedKmPerH = s.Cycling.DistanceKm / (s.Cycling.DurationMin / 60)
	}
	s.Running.dropNonFinite()
	s.Cycling.dropNonFinite()
	return s
}

// dropNonFinite zeroes totals and averages that overflowed, keeping the
// summary encodable.
func (ts *TypeSummary) dropNonFinite() {
	for _, v := range []*float64{&ts.DistanceKm, &ts.DurationMin, &ts.AvgPaceMinPerKm, &ts.AvgSpeedKmPerH, &ts.ElevationGainM} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
}
