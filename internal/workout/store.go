// Package workout holds the workout collection, its persistence codec, the
// edit state machine and the event coordinator that drives them.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/claude/mapty/internal/kv"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/observability"
)

// DefaultKey is the storage key the collection is persisted under.
const DefaultKey = "workouts"

// ErrWorkoutNotFound is returned when an ID does not match any workout.
var ErrWorkoutNotFound = errors.New("workout not found")

// Store owns the in-memory workout collection and writes it through to a
// kv.Store after every mutation. It is not safe for concurrent use.
type Store struct {
	kv  kv.Store
	key string
	log *slog.Logger

	seq  []*models.Workout // insertion order, as persisted
	byID map[string]*models.Workout

	// unreadable is set when the last Load could not read the backend. Writes
	// are held back until a Load succeeds, since they would overwrite the
	// persisted collection with a partial one.
	unreadable bool
}

// NewStore creates an empty Store persisting under key.
func NewStore(backend kv.Store, key string, log *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		kv:   backend,
		key:  key,
		log:  log,
		byID: make(map[string]*models.Workout),
	}
}

// Load replaces the in-memory collection with the persisted copy. A missing
// or malformed copy loads as empty. A failed read is returned; the collection
// is then empty and nothing is written back until a later Load succeeds.
func (s *Store) Load(ctx context.Context) error {
	s.seq = nil
	s.byID = make(map[string]*models.Workout)

	text, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.unreadable = true
		return fmt.Errorf("reading persisted workouts: %w", err)
	}
	s.unreadable = false
	if !ok {
		return nil
	}

	workouts, dropped := decode(text)
	if dropped > 0 {
		s.log.Warn("skipped unrestorable workout entries", "count", dropped)
		observability.RecordDroppedEntries(dropped)
	}
	for _, w := range workouts {
		if _, dup := s.byID[w.ID]; dup {
			s.log.Warn("skipped duplicate workout id", "id", w.ID)
			continue
		}
		s.seq = append(s.seq, w)
		s.byID[w.ID] = w
	}
	s.log.Debug("workouts loaded", "count", len(s.seq))
	return nil
}

// Append adds w at the end of the collection and persists.
func (s *Store) Append(ctx context.Context, w *models.Workout) error {
	if _, dup := s.byID[w.ID]; dup {
		return fmt.Errorf("appending workout: duplicate id %s", w.ID)
	}
	s.seq = append(s.seq, w)
	s.byID[w.ID] = w
	s.persist(ctx)
	return nil
}

// Find looks up a workout by ID.
func (s *Store) Find(id string) (*models.Workout, bool) {
	w, ok := s.byID[id]
	return w, ok
}

// Replace applies fn to the workout with the given ID. If fn fails nothing
// changes; otherwise the workout moves to the insertion point of new records
// (the end of the sequence, the front of All) and the collection is persisted.
func (s *Store) Replace(ctx context.Context, id string, fn func(*models.Workout) error) error {
	w, ok := s.byID[id]
	if !ok {
		return ErrWorkoutNotFound
	}
	if err := fn(w); err != nil {
		return err
	}
	i := slices.Index(s.seq, w)
	s.seq = append(slices.Delete(s.seq, i, i+1), w)
	s.persist(ctx)
	return nil
}

// All returns the workouts in display order: most recently created or
// edited first.
func (s *Store) All() []*models.Workout {
	out := slices.Clone(s.seq)
	slices.Reverse(out)
	return out
}

// Sequence returns the workouts in insertion order, the order they are persisted in.
func (s *Store) Sequence() []*models.Workout {
	return slices.Clone(s.seq)
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.seq)
}

// ResetAll clears the collection and erases the persisted copy.
func (s *Store) ResetAll(ctx context.Context) {
	s.seq = nil
	s.byID = make(map[string]*models.Workout)
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.log.Warn("erasing persisted workouts", "key", s.key, "error", err)
		observability.RecordPersistFailure()
		return
	}
	// Storage and memory agree again: both are empty.
	s.unreadable = false
}

// persist writes the whole collection. Failures are logged; the in-memory
// state is kept either way.
func (s *Store) persist(ctx context.Context) {
	if s.unreadable {
		s.log.Warn("persisting workouts skipped: persisted copy was not loaded", "key", s.key)
		observability.RecordPersistFailure()
		return
	}
	text, err := Encode(s.seq)
	if err == nil {
		err = s.kv.Set(ctx, s.key, text)
	}
	if err != nil {
		s.log.Warn("persisting workouts", "key", s.key, "error", err)
		observability.RecordPersistFailure()
	}
}
