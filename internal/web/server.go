// Package web provides the JSON HTTP API over the student service.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/classmonitor/internal/config"
	"github.com/JonMunkholm/classmonitor/internal/core"
	mw "github.com/JonMunkholm/classmonitor/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// Deps are the collaborators the server exposes over HTTP.
type Deps struct {
	Students   *core.Service
	Imports    *core.ImportRunner
	Settings   *core.Settings
	Programmes *core.Programmes

	// Health reports whether the backing store is reachable. Optional.
	Health func(ctx context.Context) error
}

// Server is the HTTP server for the student API.
type Server struct {
	cfg       config.ServerConfig
	importCfg config.ImportConfig
	deps      Deps
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a Server with all routes registered.
func NewServer(cfg config.ServerConfig, importCfg config.ImportConfig, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		importCfg: importCfg,
		deps:      deps,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Actor)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.Get("/", s.handleListStudents)
			r.Post("/", s.handleCreateStudent)
			r.Get("/{id}", s.handleGetStudent)
			r.Put("/{id}", s.handleUpdateStudent)
			r.Delete("/{id}", s.handleDeleteStudent)
		})

		r.Post("/import", s.handleImport)
		r.Get("/import/status", s.handleImportQueueStatus)
		r.Get("/import/{id}", s.handleImportStatus)
		r.Get("/export", s.handleExport)

		r.Get("/settings/thresholds", s.handleGetThresholds)
		r.Put("/settings/thresholds", s.handlePutThresholds)

		r.Route("/programmes", func(r chi.Router) {
			r.Get("/", s.handleListProgrammes)
			r.Post("/", s.handleAddProgramme)
			r.Put("/{name}", s.handleRenameProgramme)
			r.Delete("/{name}", s.handleDeleteProgramme)
		})

		r.Get("/reports/summary", s.handleReportSummary)
	})
}

// Start begins listening for HTTP requests. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health(r.Context()); err != nil {
			slog.Warn("health check failed", "error", err)
			writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return requestError{status: http.StatusRequestEntityTooLarge, msg: "Request body too large"}
		case errors.Is(err, io.EOF):
			return requestError{status: http.StatusBadRequest, msg: "Request body is empty"}
		default:
			return requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("Invalid JSON: %v", err)}
		}
	}
	return nil
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeJSONStatus is writeJSON with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
