package workout

import "github.com/claude/mapty/internal/models"

// State is the edit state of the session.
type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// FormMode says what a submission of the open form will do.
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// Form is the workout form as the session last populated it.
type Form struct {
	Open      bool               `json:"open"`
	Mode      FormMode           `json:"mode,omitempty"`
	Lat       float64            `json:"lat"`
	Lng       float64            `json:"lng"`
	Type      models.WorkoutType `json:"type,omitempty"`
	Distance  float64            `json:"distance,omitempty"`
	Duration  float64            `json:"duration,omitempty"`
	Cadence   float64            `json:"cadence,omitempty"`
	Elevation float64            `json:"elevation,omitempty"`
}

// Session tracks which workout, if any, the form is editing. At most one
// workout is targeted at a time.
type Session struct {
	state  State
	target string
	form   Form
}

// SessionSnapshot is a read-only view of a Session.
type SessionSnapshot struct {
	State  string `json:"state"`
	Target string `json:"target,omitempty"`
	Form   Form   `json:"form"`
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Target returns the ID being edited.
func (s *Session) Target() (string, bool) {
	return s.target, s.state == Editing
}

// Form returns the current form.
func (s *Session) Form() Form { return s.form }

// Snapshot returns a copy of the session for display.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{State: s.state.String(), Target: s.target, Form: s.form}
}

// OpenCreate opens the form in create mode at c. It reports false and
// changes nothing while an edit is in progress.
func (s *Session) OpenCreate(c models.Coords) bool {
	if s.state == Editing {
		return false
	}
	s.form = Form{Open: true, Mode: FormCreate, Lat: c.Lat, Lng: c.Lng, Type: models.Running}
	return true
}

// BeginEdit targets w, abandoning any edit in progress, and fills the form
// from w. It returns the previously targeted ID, if any.
func (s *Session) BeginEdit(w *models.Workout) (previous string) {
	if s.state == Editing && s.target != w.ID {
		previous = s.target
	}
	s.state = Editing
	s.target = w.ID
	s.form = Form{
		Open:     true,
		Mode:     FormEdit,
		Lat:      w.Coords.Lat,
		Lng:      w.Coords.Lng,
		Type:     w.Type,
		Distance: w.Distance,
		Duration: w.Duration,
	}
	switch w.Type {
	case models.Running:
		s.form.Cadence = w.Cadence
	case models.Cycling:
		s.form.Elevation = w.ElevationGain
	}
	return previous
}

// Cancel leaves Editing and closes the form. It reports false in Idle.
func (s *Session) Cancel() bool {
	if s.state != Editing {
		return false
	}
	s.finish()
	return true
}

// finish returns to Idle with the form closed.
func (s *Session) finish() {
	s.state = Idle
	s.target = ""
	s.form = Form{}
}
