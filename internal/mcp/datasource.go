package mcp

import (
	"context"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/workout"
)

// DataSource abstracts where workouts are read from. Both Local (in-process)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context, t models.WorkoutType) ([]workout.View, error)
	GetWorkout(ctx context.Context, id string) (*workout.View, error)
	GetSummary(ctx context.Context) (*workout.Summary, error)
}

// Local reads from the workout service of the running process.
type Local struct {
	Service *workout.Service
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

func (l Local) ListWorkouts(_ context.Context, t models.WorkoutType) ([]workout.View, error) {
	return l.Service.Filter(t), nil
}

func (l Local) GetWorkout(_ context.Context, id string) (*workout.View, error) {
	v, ok := l.Service.Workout(id)
	if !ok {
		return nil, workout.ErrWorkoutNotFound
	}
	return &v, nil
}

func (l Local) GetSummary(_ context.Context) (*workout.Summary, error) {
	s := l.Service.Summary()
	return &s, nil
}
