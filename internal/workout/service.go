package workout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/claude/mapty/internal/models"
)

// Service serializes access to one App for concurrent callers such as HTTP
// handlers, and hands back the UI requests each event produced.
type Service struct {
	mu  sync.Mutex
	app *App
	rec *Recorder
}

// NewService wires an App over store with a Recorder as its Renderer.
func NewService(store *Store, log *slog.Logger, opts ...Option) *Service {
	rec := &Recorder{}
	return &Service{app: New(store, rec, log, opts...), rec: rec}
}

// Dispatch handles ev and returns the effects it produced along with the
// resulting session state.
func (s *Service) Dispatch(ctx context.Context, ev Event) ([]Effect, SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.app.Dispatch(ctx, ev)
	return s.rec.Drain(), s.app.Session().Snapshot(), err
}

// Workouts returns every workout in display order.
func (s *Service) Workouts() []View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Views(s.app.Store().All())
}

// Workout returns one workout.
func (s *Service) Workout(id string) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.app.Store().Find(id)
	if !ok {
		return View{}, false
	}
	return NewView(w), true
}

// Filter returns the workouts of type t in display order; an empty t matches all.
func (s *Service) Filter(t models.WorkoutType) []View {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Workout
	for _, w := range s.app.Store().All() {
		if t == "" || w.Type == t {
			out = append(out, w)
		}
	}
	return Views(out)
}

// Session returns the current session state.
func (s *Service) Session() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Session().Snapshot()
}

// Summary aggregates the current collection.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.app.Store().All())
}
