// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the query pipeline over HTTP: POST /search runs a
// query and returns the visualization payload, GET /status is a liveness
// check. See docs/ARCHITECTURE.md § HTTP Surface.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/pdiddy/archive-trends/internal/query"
	"github.com/pdiddy/archive-trends/pkg/types"
)

// Server wraps the router and the orchestrator behind one HTTP listener.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	orch       *query.Orchestrator
	defaults   types.QueryDefaults
	cfg        types.ServerConfig
	log        zerolog.Logger
}

// New builds the HTTP server around an orchestrator. Request defaults fill
// in whatever the POST body omits.
func New(orch *query.Orchestrator, defaults types.QueryDefaults, cfg types.ServerConfig, log zerolog.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		orch:     orch,
		defaults: defaults,
		cfg:      cfg,
		log:      log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	// A search holds the connection for the whole fetch; give the handler
	// headroom beyond the orchestrator's own fetch timeout.
	s.router.Use(middleware.Timeout(query.DefaultFetchTimeout + 10*time.Second))

	if s.cfg.CORSEnabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Post("/search", s.handleSearch)
	s.router.Get("/status", s.handleStatus)
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// Handler returns the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
