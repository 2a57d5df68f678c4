// Package server exposes the course graph over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/store"
)

// Server serves the read-only query API.
type Server struct {
	store    store.Reader
	careers  *careers.Mapping
	logger   *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
}

// Options configures a Server. Careers and Logger may be nil.
type Options struct {
	Store   store.Reader
	Careers *careers.Mapping
	Logger  *zap.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mapping := opts.Careers
	if mapping == nil {
		mapping = careers.NewMapping(nil)
	}
	return &Server{
		store:    opts.Store,
		careers:  mapping,
		logger:   logger,
		metrics:  NewMetrics(),
		validate: newValidator(),
	}
}

// Handler builds the router with all middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(s.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.listCourses)
			r.Get("/level/{level}", s.coursesByLevel)
			r.Get("/{id}", s.getCourse)
			r.Get("/{id}/progression", s.progression)
			r.Get("/{id}/preceding", s.preceding)
		})
		r.Route("/connections", func(r chi.Router) {
			r.Get("/", s.listConnections)
			r.Get("/{id}", s.getConnection)
		})
		r.Route("/ksb", func(r chi.Router) {
			r.Get("/mappings", s.listMappings)
			r.Get("/mappings/{courseId}", s.getMapping)
			r.Get("/skills", s.skills)
			r.Get("/careers", s.careerRoles)
			r.Post("/search", s.searchKSB)
		})
		r.Route("/career-mapping", func(r chi.Router) {
			r.Get("/", s.careerMapping)
			r.Get("/{jobTitle}", s.careerLink)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
