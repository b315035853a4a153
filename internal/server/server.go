// Package server provides the HTTP REST API for keyword classification.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/classify"
	"github.com/jonathan/mindtype/internal/config"
	"github.com/jonathan/mindtype/internal/db"
	"github.com/jonathan/mindtype/internal/logger"
	"github.com/jonathan/mindtype/internal/metrics"
	"github.com/jonathan/mindtype/internal/server/middleware"
	"github.com/jonathan/mindtype/internal/server/ratelimit"
	"github.com/jonathan/mindtype/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	engine      *classify.Engine
	store       *catalog.Store
	source      catalog.Source
	db          *db.DB
	persist     bool
	cache       *resultCache
	demo        types.SelectionInput
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	log         *logger.Logger
}

// Options holds server dependencies and settings.
type Options struct {
	Port            string
	Store           *catalog.Store       // Required; holds the published catalog snapshot
	Source          catalog.Source       // Where reloads read from; nil disables reloads
	DB              *db.DB               // Optional; enables persistence and result lookups
	PersistResults  bool                 // Store every classification when DB is set
	ResultCacheSize int                  // 0 disables the result cache
	DemoSelections  types.SelectionInput // nil picks the first keyword of each category
	RateLimit       *ratelimit.Config    // nil uses ratelimit defaults
	JWT             *config.JWTConfig    // nil disables the admin API
	Logger          *logger.Logger
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Store == nil || opts.Store.Current() == nil {
		return nil, fmt.Errorf("server requires a loaded catalog")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		engine:  classify.NewEngine(opts.Store, log),
		store:   opts.Store,
		source:  opts.Source,
		db:      opts.DB,
		persist: opts.PersistResults && opts.DB != nil,
		demo:    opts.DemoSelections,
		log:     log,
	}

	if opts.ResultCacheSize > 0 {
		cache, err := newResultCache(opts.ResultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		s.cache = cache
	}

	s.rateLimiter = ratelimit.NewLimiter(opts.RateLimit)

	if opts.JWT != nil {
		s.jwtService = NewJWTService(opts.JWT)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Catalog browsing
	mux.HandleFunc("GET /api/v1/keywords", s.handleListKeywords)
	mux.HandleFunc("GET /api/v1/keywords/{category_id}", s.handleCategoryKeywords)
	mux.HandleFunc("GET /api/v1/types", s.handleListTypes)
	mux.HandleFunc("GET /api/v1/personality/types/intermediate", s.handleListIntermediateTypes)
	mux.HandleFunc("GET /api/v1/personality/types/final/{id}", s.handleGetFinalType)

	// Classification
	mux.HandleFunc("POST /api/v1/personality/calculate", s.handleCalculate)
	mux.HandleFunc("GET /api/v1/personality/demo", s.handleDemo)
	mux.HandleFunc("GET /api/v1/personality/results/{id}", s.handleGetResult)
	mux.HandleFunc("GET /api/v1/personality/stats", s.handleStats)

	// Admin
	if s.jwtService != nil {
		requireAdmin := middleware.RequireAdmin(s.jwtService.AsTokenValidator())
		mux.Handle("POST /admin/catalog/reload", requireAdmin(http.HandlerFunc(s.handleReloadCatalog)))
	}

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))

	port := opts.Port
	if port == "" {
		port = "8080"
	}
	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr, "catalog_version", s.store.Current().Version())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	s.log.Info("server stopped")
	return nil
}

// Close releases background resources. The database is owned by the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs each request and counts it by route pattern.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID uses the IP from RemoteAddr. Forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error": "Rate limit exceeded. Please try again later.",
		"code":  "rate_limit_exceeded",
		"limit": info.Limit,
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded", "path", r.URL.Path, "client", s.extractClientID(r), "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// envelope is the success body of the /api/v1 endpoints.
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// success writes a 200 envelope.
func (s *Server) success(w http.ResponseWriter, data any, message string) {
	s.jsonResponse(w, http.StatusOK, envelope{Status: "success", Data: data, Message: message})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes {"error", "code"} with the status HTTPStatus assigns to err.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error(), "code": ErrorCode(err)})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":          "ok",
		"catalog_version": s.store.Current().Version(),
		"database":        "disabled",
	}
	if s.db != nil {
		body["database"] = "ok"
		if err := s.db.Ping(r.Context()); err != nil {
			body["database"] = "unavailable"
		}
	}
	s.jsonResponse(w, http.StatusOK, body)
}
