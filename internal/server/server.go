package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/scorecard/internal/metrics"
	"github.com/agentstation/scorecard/internal/session"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/scan"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	scanner  *scan.Scanner
	sessions *session.Store
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
	config   Config
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New creates a new server instance with the given configuration.
func New(scanner *scan.Scanner, sessions *session.Store, cfg Config, opts ...Option) (*Server, error) {
	if scanner == nil {
		return nil, errors.NewConfigError("server", "scanner is required", nil)
	}
	if sessions == nil {
		return nil, errors.NewConfigError("server", "session store is required", nil)
	}
	if cfg.PathPrefix != "" && !strings.HasPrefix(cfg.PathPrefix, "/") {
		return nil, errors.NewConfigError("server", "path prefix must start with /", nil)
	}
	cfg.PathPrefix = strings.TrimSuffix(cfg.PathPrefix, "/")
	if cfg.AuthEnabled && cfg.APIKey == "" {
		return nil, errors.NewConfigError("server", "authentication enabled without an API key", errors.ErrAPIKeyRequired)
	}

	s := &Server{
		scanner:  scanner,
		sessions: sessions,
		logger:   logging.Default(),
		config:   cfg,
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug().
		Str("prefix", cfg.PathPrefix).
		Bool("metrics", s.metrics != nil && cfg.MetricsEnabled).
		Msg("Server instance created")
	return s, nil
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer returns an http.Server for the configured address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown drops all open scan sessions. Unconfirmed scans are never persisted.
func (s *Server) Shutdown(_ context.Context) error {
	n := s.sessions.Len()
	s.sessions.Close()
	s.logger.Info().Int("sessions_dropped", n).Msg("Server shut down")
	return nil
}
