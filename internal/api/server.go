// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the local status endpoints: health probes, the live
// session snapshot, the content library, the reward journal and metrics.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/rewardtv/internal/api/middleware"
	"github.com/ManuGH/rewardtv/internal/health"
	"github.com/ManuGH/rewardtv/internal/library"
	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/reward"
	"github.com/ManuGH/rewardtv/internal/session"
)

const shutdownTimeout = 5 * time.Second

// SessionSource exposes the live session.
type SessionSource interface {
	Snapshot() session.Snapshot
	Interrupt() bool
}

// CatalogSource exposes the current library listing.
type CatalogSource interface {
	Catalog() library.Catalog
}

// JournalSource exposes the local reward journal.
type JournalSource interface {
	Recent(ctx context.Context, limit int) ([]reward.Event, error)
	Totals(ctx context.Context) (reward.Totals, error)
}

// Config configures the status server.
type Config struct {
	Listen string
	// RateLimit is requests per minute and client IP. Zero disables it.
	RateLimit int
	// TracingService enables request spans when non-empty.
	TracingService string
}

// Deps are the data sources of the server. Nil sources answer 404.
type Deps struct {
	Session SessionSource
	Catalog CatalogSource
	Journal JournalSource
	Health  *health.Manager
}

// Server is the status HTTP server.
type Server struct {
	cfg  Config
	deps Deps
}

// New creates a Server.
func New(cfg Config, deps Deps) *Server {
	if deps.Health == nil {
		deps.Health = health.NewManager("")
	}
	return &Server{cfg: cfg, deps: deps}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
		RateLimit:             s.cfg.RateLimit,
	})

	r.Get("/healthz", s.deps.Health.ServeHealth)
	r.Get("/readyz", s.deps.Health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/session/interrupt", s.handleInterrupt)
		r.Get("/library", s.handleLibrary)
		r.Get("/rewards", s.handleRewards)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := log.WithComponent("api")
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str(log.FieldEvent, "api.listening").
			Str(log.FieldListen, ln.Addr().String()).
			Msg("status server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Str(log.FieldEvent, "api.shutdown_failed").Msg("status server shutdown incomplete")
		return err
	}
	<-errCh
	logger.Info().Str(log.FieldEvent, "api.stopped").Msg("status server stopped")
	return nil
}
