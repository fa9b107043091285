// Package httpserver is a thin chi-based adapter exposing the session +
// tool-dispatch engine over HTTP. None of the request/response shaping
// here is part of the core's correctness envelope; it only translates
// transport requests into store/registry/runtime calls.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/airtrafficctl/atc/internal/config"
	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/event"
	"github.com/airtrafficctl/atc/internal/logging"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

// Server wires the HTTP router to a store, a tool registry, and a default
// settings layer.
type Server struct {
	router   *chi.Mux
	httpSrv  *http.Server
	store    store.Store
	registry *registry.Registry
	bus      *event.Bus
	cfg      config.Config
}

// New builds a Server. cfg.DefaultSettings supplies the global layer used
// in three-layer settings resolution (internal/settings.Resolve).
func New(cfg config.Config, st store.Store, reg *registry.Registry, bus *event.Bus) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    st,
		registry: reg,
		bus:      bus,
		cfg:      cfg,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.routes()
	return s
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// getSession loads a session, translating store.ErrNotFound into the
// session_not_found kind rather than a generic not-found.
func (s *Server) getSession(ctx context.Context, id string) (*types.Session, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, core.New(core.KindSessionNotFound, "session "+id+" not found")
		}
		return nil, core.Wrap(core.KindStorageFailure, "load session", err)
	}
	return sess, nil
}

// Router exposes the chi router, primarily for httptest-based tests.
func (s *Server) Router() *chi.Mux { return s.router }

// ListenAndServe starts the HTTP server and blocks until it exits.
func (s *Server) ListenAndServe() error {
	s.httpSrv = &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.router,
	}
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
