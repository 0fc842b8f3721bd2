package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driving"
	"github.com/custodia-labs/sitedex-core/internal/runtime"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	authService     driving.AuthService
	ingestService   driving.IngestService
	docService      driving.DocumentService
	searchService   driving.SearchService
	settingsService driving.SettingsService

	// Infrastructure
	runtimeServices *runtime.Services
	db              Pinger // PostgreSQL health check
	redisClient     Pinger // Redis health check (nil on the memory rate limit backend)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	ingestService driving.IngestService,
	docService driving.DocumentService,
	searchService driving.SearchService,
	settingsService driving.SettingsService,
	runtimeServices *runtime.Services,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		logger:          logger,
		authService:     authService,
		ingestService:   ingestService,
		docService:      docService,
		searchService:   searchService,
		settingsService: settingsService,
		runtimeServices: runtimeServices,
		db:              db,
		redisClient:     redisClient,
	}

	s.setupRoutes()

	// Recovery -> CORS -> Logging -> metrics -> router
	var handler http.Handler = s.router
	handler = NewMetricsMiddleware().Handler(handler)
	handler = NewLoggingMiddleware(logger).Handler(handler)
	handler = NewCORSMiddleware(cfg.AllowedOrigins).Handler(handler)
	handler = NewRecoveryMiddleware(logger).Handler(handler)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// No write timeout: ingest responses stream progress events
		// for the lifetime of a crawl.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.Handle("GET /metrics", promhttp.Handler())

	// Ingest endpoint (authenticated)
	s.router.Handle("POST /api/v1/ingest",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleIngest)))

	// Document endpoints (authenticated)
	s.router.Handle("GET /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListDocuments)))
	s.router.Handle("GET /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetDocument)))
	s.router.Handle("GET /api/v1/documents/{id}/chunks",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetDocumentChunks)))
	s.router.Handle("DELETE /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteDocument)))

	// Search endpoint (authenticated)
	s.router.Handle("POST /api/v1/search",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSearch)))

	// Embedding settings endpoints (authenticated)
	s.router.Handle("GET /api/v1/settings/embedding",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetEmbeddingSettings)))
	s.router.Handle("PUT /api/v1/settings/embedding",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUpdateEmbeddingSettings)))
	s.router.Handle("DELETE /api/v1/settings/embedding",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteEmbeddingSettings)))
}

// Handler returns the full middleware chain, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-stop
	s.logger.Info("shutting down server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
