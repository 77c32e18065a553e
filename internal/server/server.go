// Package server exposes the matching engine over HTTP. The server holds the
// loaded job pool; requests reference resumes by trusted filesystem path.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/spigell/jobmatch/internal/dashboard"
	"github.com/spigell/jobmatch/internal/extract"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/metrics"
	"github.com/spigell/jobmatch/internal/skills"
)

const (
	defaultMaxConcurrent  = 8
	defaultRequestTimeout = 30 * time.Second
	maxBodyBytes          = 1 << 20
)

var (
	errBusy    = errors.New("server is busy")
	errTimeout = errors.New("request timed out")
)

// Engine bundles the engine components served over HTTP.
type Engine struct {
	Extractor   extract.TextSource
	Scorer      *matching.PairScorer
	Recommender *matching.Recommender
	Similar     *matching.SimilarFinder
	Scanner     *dashboard.Scanner
	Tagger      *skills.Tagger
}

// Options bound the work a server accepts.
type Options struct {
	MaxConcurrent  int
	RequestTimeout time.Duration
	RecommendTopN  int
	SimilarTopN    int
	ScanTopN       int
}

type Server struct {
	pool    *jobs.Pool
	engine  Engine
	opts    Options
	sem     *semaphore.Weighted
	logger  *zap.Logger
	handler http.Handler
}

func New(pool *jobs.Pool, engine Engine, opts Options, logger *zap.Logger) *Server {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if pool == nil {
		pool = jobs.NewPool()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		pool:   pool,
		engine: engine,
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		logger: logger.With(zap.String("component", "http_server")),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLog(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/recommend", s.recommend)
		r.Post("/score", s.score)
		r.Post("/scan", s.scan)
		r.Get("/jobs/{id}/similar", s.similar)
		r.Post("/skills", s.extractSkills)
		r.Post("/skills/tally", s.tallySkills)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server",
			zap.String("addr", addr),
			zap.Int("jobs", s.pool.Len()),
			zap.Int("max_concurrent", s.opts.MaxConcurrent),
			zap.Duration("request_timeout", s.opts.RequestTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// do runs an engine call under the concurrency bound and the request timeout.
// Engine calls cannot be interrupted: on timeout the response is sent while
// the call finishes in the background still holding its slot.
func (s *Server) do(ctx context.Context, fn func(ctx context.Context)) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return errBusy
	}

	done := make(chan struct{})
	go func() {
		defer s.sem.Release(1)
		defer close(done)
		fn(ctx)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errTimeout
	}
}

func (s *Server) writeDoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBusy):
		writeError(w, http.StatusServiceUnavailable, "busy", err.Error())
	case errors.Is(err, errTimeout):
		writeError(w, http.StatusGatewayTimeout, "timeout", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return false
	}
	return true
}
