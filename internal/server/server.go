// Package server provides the read-only preview server. It serves an
// assembled registry document tree over HTTP the same way the published
// branch would be served as static pages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/registry"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/versions"
)

const (
	// DefaultAddress is the address the preview server listens on when no
	// override is configured.
	DefaultAddress = ":8080"

	defaultGracefulTimeout = 30 * time.Second
	requestTimeout         = 10 * time.Second // static documents should respond quickly
	readTimeout            = 10 * time.Second // enough for headers and small requests
	writeTimeout           = 15 * time.Second // must exceed requestTimeout so the timeout middleware answers first
	idleTimeout            = 60 * time.Second // keep connections alive for reuse
)

// Option configures the preview server
type Option func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	address     string
	middlewares []func(http.Handler) http.Handler
	gatherer    prometheus.Gatherer
}

// WithAddress sets the listen address
func WithAddress(address string) Option {
	return func(cfg *serverConfig) {
		cfg.address = address
	}
}

// WithMiddlewares appends middleware after the built-in set
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithGatherer sets the Prometheus gatherer backing the /metrics endpoint.
// When unset, /metrics serves the default Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(cfg *serverConfig) {
		cfg.gatherer = g
	}
}

// NewRouter creates and configures the HTTP router serving the given
// document tree with the given options
func NewRouter(tree registry.DocumentTree, opts ...Option) *chi.Mux {
	cfg := &serverConfig{
		address:     DefaultAddress,
		middlewares: []func(http.Handler) http.Handler{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return newRouter(tree, cfg)
}

func newRouter(tree registry.DocumentTree, cfg *serverConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(LoggingMiddleware)
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler)
	r.Get("/metrics", metricsHandler(cfg.gatherer))

	// Everything else resolves against the document tree the way the
	// published pages branch would.
	r.Get("/*", treeHandler(tree))

	return r
}

// Server serves an assembled document tree until interrupted
type Server struct {
	httpServer *http.Server
}

// New creates a preview server for the given document tree
func New(tree registry.DocumentTree, opts ...Option) *Server {
	cfg := &serverConfig{
		address:     DefaultAddress,
		middlewares: []func(http.Handler) http.Handler{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.address,
			Handler:      newRouter(tree, cfg),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}
}

// Addr returns the address the server will listen on
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe starts the server and blocks until the context is
// cancelled or a SIGINT/SIGTERM arrives, then drains in-flight requests
// within the graceful timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Preview server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("Shutting down preview server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Preview server shutdown complete")
	return nil
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Debugf("HTTP %s %s %d %s %s",
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			middleware.GetReqID(r.Context()),
		)
	})
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(versions.GetVersionInfo()); err != nil {
		logger.Errorf("Failed to encode version info: %v", err)
	}
}

// metricsHandler serves Prometheus metrics, preferring the gatherer wired
// in from the telemetry layer
func metricsHandler(g prometheus.Gatherer) http.HandlerFunc {
	h := promhttp.Handler()
	if g != nil {
		h = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return h.ServeHTTP
}

// treeHandler resolves request paths against the document tree. A path
// matches either a document directly or its index.json, mirroring how
// static page hosting resolves directory URLs.
func treeHandler(tree registry.DocumentTree) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requested := strings.Trim(path.Clean(r.URL.Path), "/")

		doc, ok := tree[requested]
		if !ok {
			doc, ok = tree[path.Join(requested, "index.json")]
		}
		if !ok {
			writeErrorResponse(w, fmt.Sprintf("not found: /%s", requested), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(doc))
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		logger.Errorf("Failed to encode error response: %v", err)
	}
}
