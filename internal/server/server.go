// Package server exposes the brick pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render   source document as body, artifact as response
//	GET  /v1/version  build information
//	GET  /v1/stats    event totals, when counters are attached
//	GET  /healthz     liveness probe
//
// Render options are query parameters named like the CLI flags
// (format, pixel-width, mode, tolerance, full, ...). Every response carries
// an X-Request-ID header.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/config"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/observability"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// serve context is cancelled.
const shutdownTimeout = 10 * time.Second

// Server serves render requests with a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	cfg    config.ServerConfig
	logger *log.Logger
	stats  *observability.Counters
	router chi.Router
}

// New creates a server. base holds the options a request starts from before
// its query parameters are applied.
func New(runner *pipeline.Runner, base pipeline.Options, cfg config.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	s := &Server{
		runner: runner,
		base:   base,
		cfg:    cfg,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/stats", s.handleStats)
		r.Post("/render", s.handleRender)
	})
	return r
}

// WithStats exposes c at /v1/stats. The caller registers c as the hooks.
func (s *Server) WithStats(c *observability.Counters) *Server {
	s.stats = c
	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = config.DefaultAddr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
