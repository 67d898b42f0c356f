package workout

import (
	"time"

	"github.com/claude/mapty/internal/models"
)

// View is the JSON shape of a workout returned by the HTTP and MCP surfaces.
type View struct {
	ID            string             `json:"id"`
	Type          models.WorkoutType `json:"type"`
	Label         string             `json:"label"`
	CreatedAt     time.Time          `json:"created_at"`
	Lat           float64            `json:"lat"`
	Lng           float64            `json:"lng"`
	DistanceKm    float64            `json:"distance_km"`
	DurationMin   float64            `json:"duration_min"`
	Clicks        int                `json:"clicks"`
	PaceMinPerKm  *float64           `json:"pace_min_per_km,omitempty"`
	CadenceSpm    *float64           `json:"cadence_spm,omitempty"`
	SpeedKmPerH   *float64           `json:"speed_km_per_h,omitempty"`
	ElevationGain *float64           `json:"elevation_gain_m,omitempty"`
}

// NewView converts w for display.
func NewView(w *models.Workout) View {
	v := View{
		ID:          w.ID,
		Type:        w.Type,
		Label:       w.Label,
		CreatedAt:   w.CreatedAt,
		Lat:         w.Coords.Lat,
		Lng:         w.Coords.Lng,
		DistanceKm:  w.Distance,
		DurationMin: w.Duration,
		Clicks:      w.Clicks,
	}
	switch w.Type {
	case models.Running:
		v.PaceMinPerKm = finite(w.Pace)
		v.CadenceSpm = finite(w.Cadence)
	case models.Cycling:
		v.SpeedKmPerH = finite(w.Speed)
		v.ElevationGain = finite(w.ElevationGain)
	}
	return v
}

// Views converts a slice of workouts.
func Views(ws []*models.Workout) []View {
	out := make([]View, 0, len(ws))
	for _, w := range ws {
		out = append(out, NewView(w))
	}
	return out
}
