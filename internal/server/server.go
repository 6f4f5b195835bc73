// Package server provides the HTTP REST API for uploading and editing parsed resumes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vigneshm07/resume-parser/internal/observability"
	"github.com/Vigneshm07/resume-parser/internal/pipeline"
	"github.com/Vigneshm07/resume-parser/internal/server/middleware"
	"github.com/Vigneshm07/resume-parser/internal/server/ratelimit"
	"github.com/Vigneshm07/resume-parser/internal/session"
	"github.com/Vigneshm07/resume-parser/internal/upload"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	store          session.Store
	tokens         *session.TokenService
	rateLimiter    *ratelimit.Limiter
	pipelineOpts   pipeline.Options
	maxUploadBytes int64
	onShutdown     []func()
}

// Config holds server configuration
type Config struct {
	Port              int
	MaxUploadBytes    int64 // 0 means upload.MaxUploadBytes
	SkipPDFValidation bool
}

// New creates a new server instance. A nil limiter disables rate limiting.
func New(cfg Config, store session.Store, tokens *session.TokenService, limiter *ratelimit.Limiter) *Server {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = upload.MaxUploadBytes
	}

	s := &Server{
		store:          store,
		tokens:         tokens,
		rateLimiter:    limiter,
		maxUploadBytes: maxUpload,
		pipelineOpts: pipeline.Options{
			MaxUploadBytes:    maxUpload,
			SkipPDFValidation: cfg.SkipPDFValidation,
		},
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	auth := middleware.SessionAuth(s.tokens, s.errorResponse)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /resumes", s.handleUpload)
	mux.HandleFunc("POST /resumes/parse", s.handleParse)

	mux.Handle("GET /sessions/{id}", auth(http.HandlerFunc(s.handleGetSession)))
	mux.Handle("PUT /sessions/{id}/content", auth(http.HandlerFunc(s.handleUpdateContent)))
	mux.Handle("PUT /sessions/{id}/analysis", auth(http.HandlerFunc(s.handleUpdateAnalysis)))
	mux.Handle("POST /sessions/{id}/reset", auth(http.HandlerFunc(s.handleResetSession)))
	mux.Handle("DELETE /sessions/{id}", auth(http.HandlerFunc(s.handleDeleteSession)))

	var h http.Handler = mux
	h = s.withRateLimit(h)
	h = middleware.CORS(h)
	h = middleware.Recover(s.errorResponse)(h)
	h = middleware.Logger(h)
	h = middleware.RequestID(h)
	return h
}

// OnShutdown registers fn to run after the HTTP server has stopped.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Start serves until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, fn := range s.onShutdown {
		fn()
	}
	slog.Info("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
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

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.jsonResponse(w, status, ErrorResponse{
		Error:     message,
		RequestID: observability.RequestID(r.Context()),
	})
}

// fail logs err and writes the status and client-safe message it maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	logger := observability.Logger(r.Context())
	if status >= http.StatusInternalServerError || status == http.StatusUnprocessableEntity {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}
	s.errorResponse(w, r, status, ClientMessage(err))
}

// extractClientID returns the client IP from RemoteAddr. X-Forwarded-For is ignored since
// no trusted proxy list is configured.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":      "Rate limit exceeded. Please try again later.",
		"request_id": observability.RequestID(r.Context()),
		"limit":      info.Limit,
		"remaining":  info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = secs
		w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	}

	observability.Logger(r.Context()).Warn("rate limit exceeded",
		"client", s.extractClientID(r), "path", r.URL.Path, "limit", info.Limit)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
