package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/workout"
	"github.com/go-chi/chi/v5"
)

// eventResponse is returned by every event endpoint.
type eventResponse struct {
	Effects []workout.Effect        `json:"effects"`
	Session workout.SessionSnapshot `json:"session"`
	Error   string                  `json:"error,omitempty"`
}

// rawInput is a form field that may arrive as a JSON string or number.
type rawInput string

func (f *rawInput) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = rawInput(s)
		return nil
	}
	*f = rawInput(b)
	return nil
}

type submitRequest struct {
	Type               models.WorkoutType `json:"type"`
	Distance           rawInput           `json:"distance"`
	Duration           rawInput           `json:"duration"`
	CadenceOrElevation rawInput           `json:"cadence_or_elevation"`
}

type mapClickRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	t := models.WorkoutType(r.URL.Query().Get("type"))
	if t != "" && !t.Valid() {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type must be running or cycling"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.svc.Filter(t))
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	v, ok := s.svc.Workout(chi.URLParam(r, "id"))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Summary())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Session())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, workout.AppStarted{})
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var req mapClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Lat == nil || req.Lng == nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}
	s.dispatch(w, r, workout.MapClicked{Lat: *req.Lat, Lng: *req.Lng})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.dispatch(w, r, workout.FormSubmitted{
		Type:               req.Type,
		Distance:           string(req.Distance),
		Duration:           string(req.Duration),
		CadenceOrElevation: string(req.CadenceOrElevation),
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, workout.EditRequested{ID: chi.URLParam(r, "id")})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, workout.WorkoutSelected{ID: chi.URLParam(r, "id")})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, workout.CancelGesture{})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, workout.FullResetRequested{})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, ev workout.Event) {
	effects, session, err := s.svc.Dispatch(r.Context(), ev)
	if effects == nil {
		effects = []workout.Effect{}
	}
	resp := eventResponse{Effects: effects, Session: session}

	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		switch {
		case errors.Is(err, models.ErrInvalidInput), errors.Is(err, workout.ErrNoPendingLocation):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, workout.ErrWorkoutNotFound):
			status = http.StatusNotFound
		default:
			s.log.Error("event failed", "event", eventName(ev), "error", err)
			status = http.StatusInternalServerError
		}
	}
	s.writeJSON(w, status, resp)
}

func eventName(ev workout.Event) string {
	switch ev.(type) {
	case workout.AppStarted:
		return "start"
	case workout.MapClicked:
		return "map_click"
	case workout.FormSubmitted:
		return "submit"
	case workout.EditRequested:
		return "edit"
	case workout.WorkoutSelected:
		return "select"
	case workout.CancelGesture:
		return "cancel"
	case workout.FullResetRequested:
		return "reset"
	default:
		return "unknown"
	}
}

// writeJSON encodes v before writing the header so an encoding failure turns
// into a 500 instead of a 200 with an empty body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encoding response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"encoding response"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		s.log.Warn("writing response", "error", err)
	}
}
