// Package api exposes the portfolio service over HTTP with chi. Public
// routes serve the site; admin routes require a bearer token issued by
// POST /api/v1/auth/login.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
)

// Server routes HTTP requests to a portfolio.Service
type Server struct {
	service     portfolio.Service
	files       *presigned.Handlers
	auth        *Auth
	logger      *slog.Logger
	corsOrigins []string
	validate    *validator.Validate
}

// Option configures a Server
type Option func(*Server)

// WithFiles serves signed upload and download URLs under /files
func WithFiles(files *presigned.Handlers) Option {
	return func(s *Server) {
		s.files = files
	}
}

// WithAuth enables login and the admin routes
func WithAuth(auth *Auth) Option {
	return func(s *Server) {
		s.auth = auth
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCORSOrigins sets the origins allowed to call the API from a browser
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// New creates a Server. Without WithAuth only the public routes exist.
func New(service portfolio.Service, opts ...Option) *Server {
	s := &Server{
		service:     service,
		logger:      slog.Default(),
		corsOrigins: []string{"*"},
		validate:    newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the root router
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/profile", s.GetProfile)
		r.Get("/skills", s.GetSkills)
		r.Get("/projects", s.GetProjects)
		r.Get("/projects/featured", s.GetFeaturedProjects)
		r.Get("/projects/{id}", s.GetProject)
		r.Post("/contact", s.SubmitContactMessage)

		if s.auth == nil {
			return
		}

		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Verifier())
			r.Use(s.auth.Authenticator(s.logger))

			r.Put("/profile", s.UpdateProfile)
			r.Post("/skills", s.AddSkill)
			r.Delete("/skills/{id}", s.DeleteSkill)
			r.Post("/projects", s.AddProject)
			r.Delete("/projects/{id}", s.DeleteProject)
			r.Get("/messages", s.GetContactMessages)
			r.Get("/messages/unread-count", s.CountUnreadMessages)
			r.Patch("/messages/{id}", s.MarkContactMessageRead)
			r.Post("/uploads", s.GenerateUploadURL)
		})
	})

	if s.files != nil {
		s.files.Mount(r)
	}

	return r
}

// Health reports that the server is up
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
