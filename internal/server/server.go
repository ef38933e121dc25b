// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the digest pipeline over HTTP: PDFs are uploaded,
// parsed, and stored, and the accumulated summary can be downloaded in any
// export format.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/assignment-digest/internal/digest"
	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/pdftext"
	"github.com/pdiddy/assignment-digest/internal/store"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

const (
	defaultAddr        = ":8081"
	defaultUploadDir   = "uploads"
	defaultMaxUploadMB = 64
	shutdownTimeout    = 10 * time.Second
)

// Store is the persistence the server needs: the digest store operations
// plus row queries for /summary.
type Store interface {
	digest.Store
	Rows(ctx context.Context, f store.Filter) ([]types.SummaryRow, error)
}

// Options configures a Server.
type Options struct {
	Config    types.ServerConfig
	Extractor pdftext.Extractor
	Strategy  parse.Strategy

	// Store, when nil, is replaced by an in-memory row list that lives as
	// long as the process.
	Store Store

	// Workers bounds concurrent documents per upload.
	Workers int

	Logger zerolog.Logger
}

// Server handles upload and summary requests.
type Server struct {
	cfg      types.ServerConfig
	ex       pdftext.Extractor
	strategy parse.Strategy
	store    Store
	workers  int
	log      zerolog.Logger
	metrics  *metrics
	limiter  *rate.Limiter

	// summaryMu serializes summary CSV rewrites.
	summaryMu sync.Mutex
}

// New returns a Server for opts, filling in configuration defaults.
func New(opts Options) (*Server, error) {
	if opts.Extractor == nil {
		return nil, errors.New("server: extractor is required")
	}
	if opts.Strategy == nil {
		opts.Strategy = parse.Sectioned{}
	}

	cfg := opts.Config
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = defaultMaxUploadMB
	}

	st := opts.Store
	if st == nil {
		st = newMemoryStore()
	}

	s := &Server{
		cfg:      cfg,
		ex:       opts.Extractor,
		strategy: opts.Strategy,
		store:    st,
		workers:  opts.Workers,
		log:      opts.Logger,
		metrics:  newMetrics(),
	}
	if cfg.UploadsPerSecond > 0 {
		burst := cfg.UploadBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.UploadsPerSecond), burst)
	}
	return s, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"assignment-digest"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Use(s.rateLimit)
		r.Post("/upload", s.handleUpload)
	})

	r.Get("/summary", s.handleSummary)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return s.cors().Handler(r)
}

func (s *Server) cors() *cors.Cors {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Str("strategy", s.strategy.Name()).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
