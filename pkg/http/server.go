package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"meetinsight-server/pkg/metrics"
	"meetinsight-server/pkg/pipeline"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default HTTP server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
}

// Server exposes the analysis pipeline over HTTP along with health and
// metrics endpoints.
type Server struct {
	config     *Config
	logger     *logrus.Logger
	processor  *pipeline.Processor
	httpServer *http.Server
	mux        *http.ServeMux
	startTime  time.Time
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(logger *logrus.Logger, config *Config, processor *pipeline.Processor) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	server := &Server{
		config:    config,
		logger:    logger,
		processor: processor,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	server.mux = mux

	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/analyze", server.analyzeHandler)
	metrics.RegisterHandler(mux)

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return server
}

// Handler returns the underlying mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.WithField("port", s.config.Port).Info("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server failed")
		}
	}()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"started_at": s.startTime.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}
