package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/mapty/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the workout core over HTTP: inbound UI events as POSTs,
// outbound UI requests as the JSON effects of each response.
type Server struct {
	svc    *workout.Service
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *workout.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/summary", s.handleSummary)
	s.router.Get("/api/v1/session", s.handleSession)

	s.router.Route("/api/v1/events", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/map-click", s.handleMapClick)
		r.Post("/submit", s.handleSubmit)
		r.Post("/edit/{id}", s.handleEdit)
		r.Post("/select/{id}", s.handleSelect)
		r.Post("/cancel", s.handleCancel)
		r.With(APIKeyAuth(s.apiKey)).Post("/reset", s.handleReset)
	})

	s.router.Handle("/metrics", promhttp.Handler())
}

// MountMCP serves an MCP endpoint at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
