// Package server exposes the analysis pipeline over HTTP.
//
// The API is a thin layer over pkg/analysis: clients submit a
// fully-materialized input document and receive the complete analysis
// result. Results are cached by input hash, so resubmitting the same
// document (with the same parameters) is served from cache, and every
// result stays retrievable by run ID until its cache entry expires.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/drips-network/gardener-sub000/pkg/analysis"
	"github.com/drips-network/gardener-sub000/pkg/cache"
	"github.com/drips-network/gardener-sub000/pkg/errors"
	"github.com/drips-network/gardener-sub000/pkg/observability"
)

// DefaultResultTTL is how long analysis results stay retrievable.
const DefaultResultTTL = 24 * time.Hour

// MaxDocumentBytes caps the accepted input document size.
const MaxDocumentBytes = 64 << 20

// Server handles analysis API requests.
type Server struct {
	cfg       analysis.Config
	store     cache.Cache
	keyer     cache.Keyer
	resultTTL time.Duration
	log       *charmlog.Logger
}

// Options configures a Server.
type Options struct {
	// Config is the analysis configuration applied to every run.
	Config analysis.Config

	// Cache stores results. Nil falls back to an in-process cache.
	Cache cache.Cache

	// Keyer generates cache keys. Nil uses the default keyer.
	Keyer cache.Keyer

	// ResultTTL bounds result retention. Zero uses DefaultResultTTL.
	ResultTTL time.Duration

	// Logger receives request and pipeline logging. Nil discards.
	Logger *charmlog.Logger
}

// New creates a server.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.ResultTTL == 0 {
		opts.ResultTTL = DefaultResultTTL
	}
	if opts.Logger == nil {
		opts.Logger = charmlog.New(io.Discard)
	}
	return &Server{
		cfg:       opts.Config.WithDefaults(),
		store:     opts.Cache,
		keyer:     opts.Keyer,
		resultTTL: opts.ResultTTL,
		log:       opts.Logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyses", s.handleCreateAnalysis)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
	})
	return r
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxDocumentBytes+1))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading request body"))
		return
	}
	if len(body) > MaxDocumentBytes {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "input document exceeds %d bytes", MaxDocumentBytes))
		return
	}

	docHash := cache.Hash(body)
	keyOpts := s.keyOpts()
	resultKey := s.keyer.AnalysisKey(docHash, keyOpts)

	if data, hit, err := s.store.Get(r.Context(), resultKey); err == nil && hit {
		s.log.Debug("analysis cache hit", "hash", docHash)
		observability.Cache().OnCacheHit(r.Context(), "analysis")
		writeRawJSON(w, http.StatusOK, data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "analysis")

	doc, err := analysis.ParseDocument(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	observability.Analysis().OnRunStart(r.Context(), doc.Repository)
	result, err := analysis.New(s.cfg, s.log).Run(doc)
	nodeCount := 0
	if result != nil {
		nodeCount = result.Details.GraphNodes
	}
	observability.Analysis().OnRunComplete(r.Context(), doc.Repository, nodeCount, time.Since(start), err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encoding result"))
		return
	}

	ctx := r.Context()
	if err := s.store.Set(ctx, resultKey, data, s.resultTTL); err != nil {
		s.log.Warn("caching result failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "analysis", len(data))
	}
	if err := s.store.Set(ctx, runKey(result.RunID), data, s.resultTTL); err != nil {
		s.log.Warn("caching result by run ID failed", "err", err)
	}

	writeRawJSON(w, http.StatusCreated, data)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, hit, err := s.store.Get(r.Context(), runKey(id))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "cache lookup"))
		return
	}
	if !hit {
		s.writeError(w, errors.New(errors.ErrCodeAnalysisNotFound, "analysis %s not found", id))
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) keyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Metric:        string(s.cfg.Metric),
		PageRankAlpha: s.cfg.PageRankAlpha,
		KatzAlpha:     s.cfg.KatzAlpha,
		Weights:       s.cfg.Weights,
		SortKeys:      s.cfg.SortKeys,
	}
}

func runKey(id string) string {
	return "analysis:run:" + id
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.log.Error("request failed", "code", code, "err", err)
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLanguage,
		errors.ErrCodeInvalidMetric, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidManifest, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeAnalysisNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
