package workout

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/claude/mapty/internal/models"
)

// entry is the persisted shape of one workout. Derived values are stored as
// data and restored verbatim.
type entry struct {
	Type             models.WorkoutType `json:"type"`
	ID               string             `json:"id"`
	CreatedAt        time.Time          `json:"createdAt"`
	Location         [2]float64         `json:"location"`
	DistanceKm       float64            `json:"distanceKm"`
	DurationMin      float64            `json:"durationMin"`
	Label            string             `json:"label"`
	InteractionCount int                `json:"interactionCount,omitempty"`
	PaceMinPerKm     *float64           `json:"paceMinPerKm,omitempty"`
	CadenceSpm       *float64           `json:"cadenceSpm,omitempty"`
	SpeedKmPerH      *float64           `json:"speedKmPerH,omitempty"`
	ElevationGainM   *float64           `json:"elevationGainM,omitempty"`
}

// Encode serializes workouts in the given order. The marker handle is not
// written. A derived value that overflowed to ±Inf (or is NaN) is written as
// absent so one extreme record cannot block the whole write.
func Encode(workouts []*models.Workout) (string, error) {
	entries := make([]entry, 0, len(workouts))
	for _, w := range workouts {
		e := entry{
			Type:             w.Type,
			ID:               w.ID,
			CreatedAt:        w.CreatedAt,
			Location:         [2]float64{w.Coords.Lat, w.Coords.Lng},
			DistanceKm:       w.Distance,
			DurationMin:      w.Duration,
			Label:            w.Label,
			InteractionCount: w.Clicks,
		}
		switch w.Type {
		case models.Running:
			e.PaceMinPerKm = finite(w.Pace)
			e.CadenceSpm = finite(w.Cadence)
		case models.Cycling:
			e.SpeedKmPerH = finite(w.Speed)
			e.ElevationGainM = finite(w.ElevationGain)
		}
		entries = append(entries, e)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding workouts: %w", err)
	}
	return string(data), nil
}

// Decode restores workouts from text produced by Encode. Empty or unparsable
// text yields no workouts. Entries with an unknown type tag, or that are
// themselves malformed, are skipped.
func Decode(text string) []*models.Workout {
	workouts, _ := decode(text)
	return workouts
}

// decode also returns how many entries were skipped.
func decode(text string) ([]*models.Workout, int) {
	if text == "" {
		return nil, 0
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, 0
	}

	workouts := make([]*models.Workout, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		var e entry
		if err := json.Unmarshal(r, &e); err != nil {
			dropped++
			continue
		}
		w := &models.Workout{
			ID:        e.ID,
			Type:      e.Type,
			CreatedAt: e.CreatedAt,
			Coords:    models.Coords{Lat: e.Location[0], Lng: e.Location[1]},
			Distance:  e.DistanceKm,
			Duration:  e.DurationMin,
			Label:     e.Label,
			Clicks:    e.InteractionCount,
		}
		switch e.Type {
		case models.Running:
			w.Pace = val(e.PaceMinPerKm)
			w.Cadence = val(e.CadenceSpm)
		case models.Cycling:
			w.Speed = val(e.SpeedKmPerH)
			w.ElevationGain = val(e.ElevationGainM)
		default:
			dropped++
			continue
		}
		workouts = append(workouts, w)
	}
	return workouts, dropped
}

// finite returns a pointer to v, or nil when v is NaN or ±Inf.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
