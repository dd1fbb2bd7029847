package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reachly/reachly/internal/activitylog"
	"github.com/reachly/reachly/internal/campaign"
	"github.com/reachly/reachly/internal/config"
	"github.com/reachly/reachly/internal/directory"
	"github.com/reachly/reachly/internal/metrics"
)

// StatusSource supplies the reconciled contact view.
type StatusSource interface {
	Reconciled(ctx context.Context) ([]campaign.ContactView, error)
}

// Server is the HTTP invocation surface for the campaign engine.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	runner     *Runner
	statuses   StatusSource
	store      *directory.Store
	log        activitylog.Log
	metrics    *metrics.Metrics
	cfg        *config.Config
	logger     *slog.Logger
	startTime  time.Time
}

// NewServer creates an API server around an engine and its storage.
func NewServer(runner *Runner, statuses StatusSource, store *directory.Store, log activitylog.Log, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		runner:    runner,
		statuses:  statuses,
		store:     store,
		log:       log,
		metrics:   m,
		cfg:       cfg,
		logger:    logger.With("component", "api"),
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.HTTPMiddleware)
	}

	s.router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/runs", s.handleStartRun)
		r.Get("/runs/last", s.handleLastRun)
		r.Post("/runs/cancel", s.handleCancelRun)

		r.Get("/contacts", s.handleListContacts)
		r.Post("/contacts", s.handleAddContact)
		r.Post("/contacts/import", s.handleImportContacts)

		r.Get("/log", s.handleLog)
	})
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP API server", "addr", s.cfg.Server.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
