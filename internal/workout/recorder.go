package workout

import "github.com/claude/mapty/internal/models"

// EffectKind names an outbound UI request.
type EffectKind string

const (
	EffectRenderMarker      EffectKind = "render_marker"
	EffectRenderListItem    EffectKind = "render_list_item"
	EffectRemoveListItem    EffectKind = "remove_list_item"
	EffectUpdatePopup       EffectKind = "update_popup"
	EffectValidationFailure EffectKind = "validation_failure"
	EffectOpenForm          EffectKind = "open_form"
	EffectCloseForm         EffectKind = "close_form"
	EffectPanTo             EffectKind = "pan_to"
)

// Effect is one recorded UI request.
type Effect struct {
	Kind    EffectKind `json:"kind"`
	Workout *View      `json:"workout,omitempty"`
	ID      string     `json:"id,omitempty"`
	Marker  string     `json:"marker,omitempty"`
	Message string     `json:"message,omitempty"`
	Form    *Form      `json:"form,omitempty"`
}

// Recorder is a Renderer that keeps the requests as data for a remote UI to
// apply. Marker handles are the string "marker-<id>".
type Recorder struct {
	effects []Effect
}

var _ Renderer = (*Recorder)(nil)

// Drain returns the recorded effects and forgets them.
func (r *Recorder) Drain() []Effect {
	out := r.effects
	r.effects = nil
	return out
}

func (r *Recorder) add(kind EffectKind, w *models.Workout) {
	e := Effect{Kind: kind}
	if w != nil {
		v := NewView(w)
		e.Workout = &v
		e.ID = w.ID
		if m, ok := w.Marker.(string); ok {
			e.Marker = m
		}
	}
	r.effects = append(r.effects, e)
}

func (r *Recorder) RenderMarker(w *models.Workout) {
	if w.Marker == nil {
		w.Marker = "marker-" + w.ID
	}
	r.add(EffectRenderMarker, w)
}

func (r *Recorder) RenderListItem(w *models.Workout) { r.add(EffectRenderListItem, w) }

func (r *Recorder) UpdatePopup(w *models.Workout) { r.add(EffectUpdatePopup, w) }

func (r *Recorder) PanTo(w *models.Workout) { r.add(EffectPanTo, w) }

func (r *Recorder) RemoveListItem(id string) {
	r.effects = append(r.effects, Effect{Kind: EffectRemoveListItem, ID: id})
}

func (r *Recorder) ReportValidationFailure(message string) {
	r.effects = append(r.effects, Effect{Kind: EffectValidationFailure, Message: message})
}

func (r *Recorder) OpenForm(f Form) {
	r.effects = append(r.effects, Effect{Kind: EffectOpenForm, Form: &f})
}

func (r *Recorder) CloseForm() {
	r.effects = append(r.effects, Effect{Kind: EffectCloseForm})
}
