package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rotnitxe/yourprime/internal/coach"
	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	coach    *coach.Coach
	settings models.Settings
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, c *coach.Coach, settings models.Settings, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		coach:    c,
		settings: settings,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/workout", s.handleIngestWorkout)
		r.Post("/sleep", s.handleIngestSleep)
		r.Post("/feedback", s.handleIngestFeedback)
		r.Post("/exercise", s.handleIngestExercise)
	})

	// Coach read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/recovery/systemic", s.handleSystemicFatigue)
	s.router.Get("/api/v1/recovery/{muscle}", s.handleMuscleBattery)
	s.router.Get("/api/v1/volume/{muscle}", s.handleVolume)
	s.router.Get("/api/v1/muscles", s.handleMuscles)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
}
