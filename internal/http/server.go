// Package http exposes the tracker as a JSON API: utterance intake,
// transaction listing, and the insight endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budgetai/internal/backend"
	"budgetai/internal/cache"
	"budgetai/internal/core"
	"budgetai/internal/middleware"
	"budgetai/internal/parse"
	"budgetai/internal/predict"
)

type Server struct {
	http.Server

	backend    backend.Backend
	parser     *parse.Parser
	forecaster predict.Forecaster

	rateLimiter *middleware.RateLimiter

	// Aggregates are cached briefly; every accepted utterance purges
	// them.
	summaryCache  *cache.LRU[core.MonthSummary]
	forecastCache *cache.LRU[predict.Forecast]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, b backend.Backend, parser *parse.Parser, forecaster predict.Forecaster) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		backend:          b,
		parser:           parser,
		forecaster:       forecaster,
		rateLimiter:      middleware.NewRateLimiter(60),
		summaryCache:     cache.NewLRU[core.MonthSummary](100, 5*time.Minute),
		forecastCache:    cache.NewLRU[predict.Forecast](10, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/utterances", s.withMiddleware(s.handleCreateUtterance))
	mux.HandleFunc("/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("/insights/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/insights/forecast", s.withMiddleware(s.handleForecast))
	mux.HandleFunc("/insights/analysis", s.withMiddleware(s.handleAnalysis))
	mux.HandleFunc("/insights/tip", s.withMiddleware(s.handleTip))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			summaryCleaned := s.summaryCache.CleanExpired()
			forecastCleaned := s.forecastCache.CleanExpired()
			if summaryCleaned > 0 || forecastCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"summary_entries_removed", summaryCleaned,
					"forecast_entries_removed", forecastCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}

		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request
// logging to a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := middleware.ExtractClientIP(r)
		requestID := middleware.NewRequestID()

		ctx := middleware.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limiting applies to writes only
		if r.Method == http.MethodPost && !s.rateLimiter.Allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later", "")
			return
		}

		middleware.SetSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
