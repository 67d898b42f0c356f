package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/observability"
)

// ErrNoPendingLocation is returned when a create submission arrives without a
// map click having opened the form.
var ErrNoPendingLocation = errors.New("click on the map to place the workout first")

// Renderer receives the requests the core issues to the map and list UI.
type Renderer interface {
	RenderMarker(w *models.Workout)
	RenderListItem(w *models.Workout)
	RemoveListItem(id string)
	UpdatePopup(w *models.Workout)
	ReportValidationFailure(message string)
	OpenForm(f Form)
	CloseForm()
	PanTo(w *models.Workout)
}

// Event is an inbound UI event.
type Event interface {
	event()
}

// MapClicked opens the form in create mode at the clicked point.
type MapClicked struct {
	Lat float64
	Lng float64
}

// FormSubmitted carries the raw form fields. CadenceOrElevation is read as
// cadence for running and elevation gain for cycling.
type FormSubmitted struct {
	Type               models.WorkoutType
	Distance           string
	Duration           string
	CadenceOrElevation string
}

// EditRequested asks to edit the workout with the given ID.
type EditRequested struct {
	ID string
}

// CancelGesture is a click outside the form, the workouts and any edit control.
type CancelGesture struct{}

// AppStarted restores the persisted workouts and renders them.
type AppStarted struct{}

// FullResetRequested erases every workout.
type FullResetRequested struct{}

// WorkoutSelected is a click on a workout in the list.
type WorkoutSelected struct {
	ID string
}

func (MapClicked) event()         {}
func (FormSubmitted) event()      {}
func (EditRequested) event()      {}
func (CancelGesture) event()      {}
func (AppStarted) event()         {}
func (FullResetRequested) event() {}
func (WorkoutSelected) event()    {}

// App routes events to the store and the edit session. Like the store, it
// expects events one at a time.
type App struct {
	store   *Store
	session Session
	render  Renderer
	log     *slog.Logger
	now     func() time.Time
}

// Option configures an App.
type Option func(*App)

// WithClock sets the time source used for IDs and labels.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// New creates an App over store, sending UI requests to r.
func New(store *Store, r Renderer, log *slog.Logger, opts ...Option) *App {
	a := &App{store: store, render: r, log: log, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the workout collection.
func (a *App) Store() *Store { return a.store }

// Session returns the edit session.
func (a *App) Session() *Session { return &a.session }

// Dispatch handles one event to completion. Validation failures are reported
// to the Renderer and also returned.
func (a *App) Dispatch(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case MapClicked:
		a.mapClicked(ev)
		return nil
	case FormSubmitted:
		return a.submit(ctx, ev)
	case EditRequested:
		return a.edit(ev.ID)
	case CancelGesture:
		a.cancel()
		return nil
	case AppStarted:
		return a.start(ctx)
	case FullResetRequested:
		a.reset(ctx)
		return nil
	case WorkoutSelected:
		return a.selectWorkout(ev.ID)
	default:
		return fmt.Errorf("unhandled event %T", ev)
	}
}

func (a *App) mapClicked(ev MapClicked) {
	if !a.session.OpenCreate(models.Coords{Lat: ev.Lat, Lng: ev.Lng}) {
		a.log.Debug("map click ignored while editing", "target", a.session.target)
		return
	}
	a.render.OpenForm(a.session.Form())
}

func (a *App) submit(ctx context.Context, ev FormSubmitted) error {
	distance := models.ParseInput(ev.Distance)
	duration := models.ParseInput(ev.Duration)
	payload := models.ParseInput(ev.CadenceOrElevation)

	if id, editing := a.session.Target(); editing {
		return a.replace(ctx, id, ev.Type, distance, duration, payload)
	}

	form := a.session.Form()
	if !form.Open || form.Mode != FormCreate {
		return a.reject(ErrNoPendingLocation)
	}

	at := a.now()
	w, err := models.New(ev.Type, a.nextID(at), at, models.Coords{Lat: form.Lat, Lng: form.Lng}, distance, duration, payload)
	if err != nil {
		return a.reject(err)
	}
	if err := a.store.Append(ctx, w); err != nil {
		return err
	}

	a.render.RenderMarker(w)
	a.render.RenderListItem(w)
	a.session.finish()
	a.render.CloseForm()

	observability.RecordCreated(string(w.Type))
	a.log.Info("workout created", "id", w.ID, "type", w.Type, "distance_km", w.Distance, "duration_min", w.Duration)
	return nil
}

func (a *App) replace(ctx context.Context, id string, t models.WorkoutType, distance, duration, payload float64) error {
	err := a.store.Replace(ctx, id, func(w *models.Workout) error {
		return w.Replace(t, distance, duration, payload)
	})
	if errors.Is(err, ErrWorkoutNotFound) {
		a.session.finish()
		a.render.CloseForm()
		return err
	}
	if err != nil {
		return a.reject(err)
	}

	w, _ := a.store.Find(id)
	a.render.RemoveListItem(id)
	a.render.RenderListItem(w)
	a.render.UpdatePopup(w)
	a.session.finish()
	a.render.CloseForm()

	observability.RecordEdited(string(w.Type))
	a.log.Info("workout edited", "id", w.ID, "type", w.Type, "distance_km", w.Distance, "duration_min", w.Duration)
	return nil
}

func (a *App) reject(err error) error {
	a.render.ReportValidationFailure(err.Error())
	observability.RecordValidationFailure()
	a.log.Info("submission rejected", "reason", err.Error())
	return err
}

func (a *App) edit(id string) error {
	w, ok := a.store.Find(id)
	if !ok {
		return ErrWorkoutNotFound
	}
	if prev := a.session.BeginEdit(w); prev != "" {
		a.log.Debug("edit abandoned", "id", prev)
	}
	a.render.OpenForm(a.session.Form())
	return nil
}

func (a *App) cancel() {
	if a.session.Cancel() {
		a.render.CloseForm()
	}
}

func (a *App) start(ctx context.Context) error {
	if err := a.store.Load(ctx); err != nil {
		a.log.Error("restoring workouts", "error", err)
		return err
	}
	for _, w := range a.store.Sequence() {
		a.render.RenderListItem(w)
		a.render.RenderMarker(w)
	}
	a.log.Info("workouts restored", "count", a.store.Len())
	return nil
}

func (a *App) reset(ctx context.Context) {
	a.store.ResetAll(ctx)
	if a.session.Form().Open {
		a.render.CloseForm()
	}
	a.session.finish()
	a.log.Info("workouts reset")
}

func (a *App) selectWorkout(id string) error {
	w, ok := a.store.Find(id)
	if !ok {
		return ErrWorkoutNotFound
	}
	w.Click()
	a.render.PanTo(w)
	return nil
}

// nextID derives an ID from at, bumping it until it is unused so two workouts
// created within the same millisecond stay distinct.
func (a *App) nextID(at time.Time) string {
	id := models.NewID(at)
	for {
		if _, taken := a.store.Find(id); !taken {
			return id
		}
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			at = at.Add(time.Millisecond)
			id = models.NewID(at)
			continue
		}
		id = fmt.Sprintf("%010d", (n+1)%10_000_000_000)
	}
}
