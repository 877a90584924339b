// Package server assembles the HTTP surface: router, middleware chain and
// route registration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/heypico/waypoint/internal/config"
	"github.com/heypico/waypoint/internal/core/admission"
	"github.com/heypico/waypoint/internal/llm"
	"github.com/heypico/waypoint/internal/maps"
	servermw "github.com/heypico/waypoint/internal/server/middleware"
)

// Deps carries everything the server needs to serve traffic.
type Deps struct {
	Config    *config.Config
	Admission *admission.Controller
	LLM       *llm.Service
	Maps      *maps.Client
	Logger    *zap.Logger
	Version   string
}

// Server is the HTTP server for the API.
type Server struct {
	router *chi.Mux
	server *http.Server
	deps   Deps
}

// New builds a server with the middleware chain and all routes registered.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(servermw.RequestID)
	r.Use(servermw.Metrics)
	r.Use(servermw.Recovery(deps.Logger))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeErrorJSON(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s := &Server{
		router: r,
		deps:   deps,
	}
	s.registerRoutes()

	return s
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	cfg := s.deps.Config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  orDuration(cfg.ReadTimeout, 30*time.Second),
		WriteTimeout: orDuration(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  orDuration(cfg.IdleTimeout, 120*time.Second),
	}

	s.deps.Logger.Info("starting HTTP server",
		zap.String("addr", addr),
		zap.String("version", s.deps.Version))

	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.deps.Logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func orDuration(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
