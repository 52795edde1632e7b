// ABOUTME: HTTP API exposing the article collection service to a presentation layer
// ABOUTME: chi router with request ids, request logging, body limits, and graceful shutdown

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harper/newsdesk/internal/articles"
)

const (
	defaultMaxBodyBytes    = 1 << 20
	defaultShutdownTimeout = 10 * time.Second
)

// Server serves the article API.
type Server struct {
	svc             *articles.Service
	logger          *log.Logger
	maxBodyBytes    int64
	viewPageSize    int
	shutdownTimeout time.Duration
	router          chi.Router
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes caps request bodies; non-positive keeps 1MB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithViewPageSize sets the default page size of /articles/view.
func WithViewPageSize(n int) Option {
	return func(s *Server) { s.viewPageSize = n }
}

// WithShutdownTimeout bounds how long ListenAndServe waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New creates a server over svc.
func New(svc *articles.Service, opts ...Option) *Server {
	s := &Server{
		svc:             svc,
		logger:          log.Default(),
		maxBodyBytes:    defaultMaxBodyBytes,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/articles", func(r chi.Router) {
		r.Use(withJSON)
		r.Get("/", s.handleLoad)
		r.Post("/", s.handleSave)
		r.Delete("/", s.handleRestore)
		r.Delete("/saved", s.handleClear)
		r.Get("/view", s.handleView)
		r.Patch("/{index}", s.handleEdit)
	})

	s.router = r
}

// Handler returns the root handler, for embedding or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shCtx); err != nil {
			s.logger.Warn("shutdown incomplete", "err", err)
		}
	}()

	s.logger.Info("serving article API", "addr", ln.Addr().String(), "store", s.svc.StoreName(), "source", s.svc.SourceName())
	err := httpServer.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
