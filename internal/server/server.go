// Package server provides the HTTP REST API for the resume preview service.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-preview/internal/config"
	"github.com/jonathan/resume-preview/internal/coordinator"
	"github.com/jonathan/resume-preview/internal/pipeline"
	"github.com/jonathan/resume-preview/internal/raster"
	"github.com/jonathan/resume-preview/internal/server/middleware"
	"github.com/jonathan/resume-preview/internal/server/ratelimit"
)

// Server represents the HTTP server.
type Server struct {
	httpServer     *http.Server
	registry       *Registry
	jwtService     *JWTService
	passwordConfig *config.PasswordConfig
	rateLimiter    *ratelimit.Limiter
	verbose        bool
}

// Config holds server configuration.
type Config struct {
	Port     int
	Debounce time.Duration
	Raster   *raster.Options
	Verbose  bool

	// Generator overrides the default Chrome-backed pipeline, for tests.
	Generator coordinator.Generator
}

// New creates a new server instance.
func New(cfg Config) (*Server, error) {
	gen := cfg.Generator
	if gen == nil {
		opts := cfg.Raster
		if opts == nil {
			opts = raster.DefaultOptions()
		}
		gen = pipeline.New(raster.NewChromeCapturer(opts), opts, pipeline.WithVerbose(cfg.Verbose))
	}

	s := &Server{
		registry: NewRegistry(gen, cfg.Debounce),
		verbose:  cfg.Verbose,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.passwordConfig = passwordConfig

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Session endpoints require a bearer token.
	auth := middleware.Auth(s.jwtService.AsTokenValidator())
	sessions := http.NewServeMux()
	sessions.HandleFunc("POST /sessions", s.handleCreateSession)
	sessions.HandleFunc("PUT /sessions/{id}/content", s.handleUpdateContent)
	sessions.HandleFunc("POST /sessions/{id}/preview", s.handlePreview)
	sessions.HandleFunc("GET /sessions/{id}/state", s.handleState)
	sessions.HandleFunc("GET /sessions/{id}/download", s.handleDownload)
	sessions.HandleFunc("POST /sessions/{id}/download/reset", s.handleDownloadReset)
	sessions.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.Handle("/sessions", auth(sessions))
	mux.Handle("/sessions/", auth(sessions))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for synchronous downloads
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the routed handler stack (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until interrupted.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.registry.CloseAll()

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request when verbose mode is on.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.verbose {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Printf("[HTTP] %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies per-client rate limiting keyed by remote IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIP(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
