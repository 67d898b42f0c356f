package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WorkoutType is the variant tag of a workout.
type WorkoutType string

const (
	Running WorkoutType = "running"
	Cycling WorkoutType = "cycling"
)

// Valid reports whether t is a known variant.
func (t WorkoutType) Valid() bool {
	return t == Running || t == Cycling
}

// Coords is a [lat, lng] pair.
type Coords struct {
	Lat float64
	Lng float64
}

// Workout is one logged session. Type selects which payload and derived metric
// fields are meaningful: Cadence/Pace for running, ElevationGain/Speed for cycling.
type Workout struct {
	ID        string
	Type      WorkoutType
	CreatedAt time.Time
	Coords    Coords
	Distance  float64 // km
	Duration  float64 // min
	Label     string
	Clicks    int

	Cadence float64 // spm
	Pace    float64 // min/km

	ElevationGain float64 // m
	Speed         float64 // km/h

	// Marker belongs to the map renderer. It is never persisted.
	Marker any
}

// NewID derives a record ID from t: decimal Unix milliseconds, last 10 digits.
func NewID(t time.Time) string {
	s := strconv.FormatInt(t.UnixMilli(), 10)
	if len(s) > 10 {
		s = s[len(s)-10:]
	}
	return s
}

// NewRunning validates the inputs and builds a running workout.
func NewRunning(id string, at time.Time, c Coords, distance, duration, cadence float64) (*Workout, error) {
	if err := ValidateRunning(distance, duration, cadence); err != nil {
		return nil, err
	}
	w := &Workout{ID: id, Type: Running, CreatedAt: at, Coords: c}
	w.apply(Running, distance, duration, cadence)
	return w, nil
}

// NewCycling validates the inputs and builds a cycling workout.
func NewCycling(id string, at time.Time, c Coords, distance, duration, elevation float64) (*Workout, error) {
	if err := ValidateCycling(distance, duration, elevation); err != nil {
		return nil, err
	}
	w := &Workout{ID: id, Type: Cycling, CreatedAt: at, Coords: c}
	w.apply(Cycling, distance, duration, elevation)
	return w, nil
}

// New dispatches to NewRunning or NewCycling. payload is cadence for running and
// elevation gain for cycling.
func New(t WorkoutType, id string, at time.Time, c Coords, distance, duration, payload float64) (*Workout, error) {
	switch t {
	case Running:
		return NewRunning(id, at, c, distance, duration, payload)
	case Cycling:
		return NewCycling(id, at, c, distance, duration, payload)
	default:
		return nil, &InputError{Message: fmt.Sprintf("Unknown workout type %q", t)}
	}
}

// Replace overwrites the workout in place with new inputs, possibly switching
// variant. ID, CreatedAt, Coords, Clicks and Marker are kept. On a validation
// failure the workout is left unchanged.
func (w *Workout) Replace(t WorkoutType, distance, duration, payload float64) error {
	switch t {
	case Running:
		if err := ValidateRunning(distance, duration, payload); err != nil {
			return err
		}
	case Cycling:
		if err := ValidateCycling(distance, duration, payload); err != nil {
			return err
		}
	default:
		return &InputError{Message: fmt.Sprintf("Unknown workout type %q", t)}
	}
	w.apply(t, distance, duration, payload)
	return nil
}

func (w *Workout) apply(t WorkoutType, distance, duration, payload float64) {
	w.Type = t
	w.Distance = distance
	w.Duration = duration
	w.Cadence, w.Pace, w.ElevationGain, w.Speed = 0, 0, 0, 0
	switch t {
	case Running:
		w.Cadence = payload
		w.Pace = duration / distance
	case Cycling:
		w.ElevationGain = payload
		w.Speed = distance / (duration / 60)
	}
	w.Label = Label(t, w.CreatedAt)
}

// Payload returns the variant-specific input: cadence or elevation gain.
func (w *Workout) Payload() float64 {
	if w.Type == Cycling {
		return w.ElevationGain
	}
	return w.Cadence
}

// Metric returns the derived metric: pace for running, speed for cycling.
func (w *Workout) Metric() float64 {
	if w.Type == Cycling {
		return w.Speed
	}
	return w.Pace
}

// Click records one select interaction.
func (w *Workout) Click() {
	w.Clicks++
}

// Label formats the display label, e.g. "Running on April 14".
func Label(t WorkoutType, at time.Time) string {
	name := string(t)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s on %s %d", name, at.Month(), at.Day())
}
