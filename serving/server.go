package serving

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"featuremill/config"
	"featuremill/monitoring"
	"featuremill/store"
	"featuremill/tabular"
	"featuremill/training"
)

// Server hosts the inference hooks and the operational API.
type Server struct {
	cfg    config.Config
	schema tabular.Schema
	logger *zap.Logger
	cache  *ModelCache
	hub    *monitoring.Hub
	runner *training.Runner
	server *http.Server
}

// NewServer wires the handlers, middleware chain, model cache, and progress
// hub. objects may be nil when no object store is configured.
func NewServer(cfg config.Config, logger *zap.Logger, objects store.Store) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := cfg.TabularSchema()
	if err != nil {
		return nil, err
	}
	cache, err := NewModelCache(8, logger)
	if err != nil {
		return nil, err
	}
	hub := monitoring.NewHub(logger)

	s := &Server{
		cfg:    cfg,
		schema: schema,
		logger: logger,
		cache:  cache,
		hub:    hub,
		runner: &training.Runner{Store: objects, Hub: hub, Logger: logger},
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      s.routes(timeout),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(timeout time.Duration) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("POST /invocations", s.handleInvocations)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/jobs", s.handleJobs)
	mux.HandleFunc("GET /api/features", s.handleFeatures)
	mux.HandleFunc("POST /api/train", s.handleTrain)

	chain := Chain(
		RecoveryMiddleware(s.logger),
		LoggerMiddleware(s.logger),
		SecurityHeadersMiddleware,
		CORSMiddleware(s.cfg.HTTP.AllowedOrigins),
		TimeoutMiddleware(timeout),
		GzipMiddleware,
		RateLimitMiddleware(s.cfg.HTTP.RateLimit),
		RequestSizeMiddleware(s.cfg.HTTP.MaxBodyBytes),
	)

	// The websocket endpoint stays outside the chain: upgrades need the raw
	// connection, not a timeout- or gzip-wrapped writer.
	root := http.NewServeMux()
	root.HandleFunc("GET /api/ws/progress", s.hub.ServeWS)
	root.Handle("/", chain(mux))
	return root
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop drains connections and shuts everything down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("http server stopping")
	s.hub.Close()
	if err := s.cache.Close(); err != nil {
		s.logger.Warn("model cache close failed", zap.Error(err))
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler exposes the composed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
