// Package api wires the HTTP surface: routing, rate-limit tiers per route
// group, request decoding and the uniform response envelope.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ethidata/internal/config"
	"ethidata/internal/ratelimit"
	"ethidata/internal/services"
	apperrors "ethidata/pkg/errors"
)

// Server holds the route handlers and their service dependencies.
type Server struct {
	cfg          *config.Config
	router       chi.Router
	limiter      *ratelimit.Limiter
	health       *services.HealthService
	contacts     *services.ContactService
	applications *services.ApplicationService
	events       *services.EventService
	resources    *services.ResourceService
	jobs         *services.JobService
	blog         *services.BlogService
}

// Deps bundles the services the server mounts.
type Deps struct {
	Limiter      *ratelimit.Limiter
	Health       *services.HealthService
	Contacts     *services.ContactService
	Applications *services.ApplicationService
	Events       *services.EventService
	Resources    *services.ResourceService
	Jobs         *services.JobService
	Blog         *services.BlogService
}

// New creates the API server and mounts all routes.
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:          cfg,
		limiter:      deps.Limiter,
		health:       deps.Health,
		contacts:     deps.Contacts,
		applications: deps.Applications,
		events:       deps.Events,
		resources:    deps.Resources,
		jobs:         deps.Jobs,
		blog:         deps.Blog,
	}
	s.routes()
	return s
}

// Handler returns the mounted router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	keyFn := ratelimit.DefaultKeyFunc(s.cfg.RateLimit.TrustProxy)

	general := passthrough
	form := passthrough
	application := passthrough
	if s.cfg.RateLimit.Enabled {
		general = s.limiter.Middleware(ratelimit.TierGeneral, keyFn)
		form = s.limiter.Middleware(ratelimit.TierForm, keyFn)
		application = s.limiter.Middleware(ratelimit.TierApplication, keyFn)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(general)

		r.Get("/health", s.handleHealth)

		r.Route("/contact", func(r chi.Router) {
			r.With(form).Post("/", s.handleContactSubmit)
			// Operator routes (add auth middleware when authentication lands)
			r.Get("/", s.handleContactList)
			r.Patch("/{id}/status", s.handleContactStatus)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleJobList)
			r.Get("/{slug}", s.handleJobGet)
		})

		r.Route("/applications", func(r chi.Router) {
			r.With(application).Post("/", s.handleApplicationSubmit)
			// Operator routes
			r.Get("/", s.handleApplicationList)
			r.Get("/{id}", s.handleApplicationGet)
			r.Patch("/{id}/status", s.handleApplicationStatus)
		})

		// Slug reads and id-keyed actions share a path segment; the regex
		// patterns keep the wildcards from colliding in the router.
		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleEventList)
			r.Get("/{slug:[a-z0-9-]+}", s.handleEventGet)
			r.With(form).Post("/{id:[0-9]+}/register", s.handleEventRegister)
			// Operator routes
			r.Get("/{id:[0-9]+}/registrations", s.handleEventRegistrations)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", s.handleResourceList)
			r.Get("/{slug:[a-z0-9-]+}", s.handleResourceGet)
			r.With(form).Post("/{id:[0-9]+}/download", s.handleResourceDownload)
			// Operator routes
			r.Get("/{id:[0-9]+}/stats", s.handleResourceStats)
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", s.handleBlogList)
			r.Get("/{slug}", s.handleBlogGet)
		})
	})

	s.router = r
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// uintParam parses a numeric URL parameter. A malformed id cannot reference
// anything, so it reads as not found.
func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.ErrCodeNotFound, "Not found")
	}
	return uint(id), nil
}

// pagination reads page/limit query parameters with the usual defaults.
func pagination(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}
