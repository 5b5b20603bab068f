// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vrsandeep/showtime-go/internal/core"
	"github.com/vrsandeep/showtime-go/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	store *store.Store
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:   app,
		store: app.Store(),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	cfg := s.app.Config().Server
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.Post("/api/users/login", s.handleLogin)
	r.Get("/api/version", s.handleGetVersion)
	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		r.Post("/api/users/logout", s.handleLogout)
		r.Get("/api/users/me", s.handleGetMe)

		r.Route("/api", func(r chi.Router) {
			r.Get("/search", s.handleSearch)

			r.Get("/profiles", s.handleListProfiles)
			r.Post("/profiles", s.handleCreateProfile)

			r.Route("/profiles/{profileID}", func(r chi.Router) {
				r.Use(s.ProfileMiddleware)

				r.Delete("/", s.handleDeleteProfile)

				r.Get("/schedule", s.handleGetSchedule)
				r.Post("/schedule", s.handleAddScheduleEntry)

				r.Get("/progress", s.handleListProgress)
				r.Get("/progress/{titleID}", s.handleGetProgress)
				r.Put("/progress/{titleID}", s.handleSetProgress)
				r.Post("/progress/{titleID}/advance", s.handleAdvanceProgress)
			})

			r.Get("/library", s.handleListLibrary)
			r.Post("/library", s.handleAddToLibrary)
			r.Get("/library/{titleID}", s.handleGetLibraryTitle)
			r.Delete("/library/{titleID}", s.handleDeleteLibraryTitle)

			r.Route("/schedule/{entryID}", func(r chi.Router) {
				r.Use(s.ScheduleEntryMiddleware)

				r.Delete("/", s.handleDeleteScheduleEntry)
				r.Put("/slot", s.handleReorderScheduleEntry)
				r.Put("/day", s.handleMoveScheduleEntry)
				r.Patch("/", s.handlePatchScheduleEntry)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.AdminOnlyMiddleware)

				r.Get("/jobs/status", s.handleGetAdminJobsStatus)
				r.Post("/jobs/run", s.handleRunAdminJob)

				r.Get("/users", s.handleAdminListUsers)
				r.Post("/users", s.handleAdminCreateUser)
				r.Put("/users/{userID}", s.handleAdminUpdateUser)
				r.Delete("/users/{userID}", s.handleAdminDeleteUser)
			})
		})
	})

	return r
}
