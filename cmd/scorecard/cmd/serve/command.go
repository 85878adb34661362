// Package serve provides the HTTP server command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/metrics"
	"github.com/agentstation/scorecard/internal/server"
	"github.com/agentstation/scorecard/internal/session"
	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/scan"
)

// APIKeyEnv holds the key clients must present when --auth is set.
const APIKeyEnv = "SCORECARD_API_KEY"

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the scan review API",
		Long: `Start the HTTP API for the scan, review and confirm workflow.

Endpoints:
  POST   {prefix}/scans               upload a scorecard image
  GET    {prefix}/scans/{id}          fetch a pending scan
  PATCH  {prefix}/scans/{id}          apply user edits
  POST   {prefix}/scans/{id}/confirm  save the reviewed round
  DELETE {prefix}/scans/{id}          abandon a scan
  GET    {prefix}/courses/match       look up a course by name
  GET    /health, /metrics

Pending scans live in memory and expire after the session TTL.`,
		Example: `  # Start on the default port
  scorecard serve

  # Require an API key and allow a web client
  SCORECARD_API_KEY=secret scorecard serve --auth --cors-origins https://app.example.com

  # Bind all interfaces with a tighter rate limit
  scorecard serve --host 0.0.0.0 --port 9000 --rate-limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd, defaults)
			if err != nil {
				return err
			}
			return run(cmd.Context(), app, cfg)
		},
	}

	cmd.Flags().IntP("port", "p", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")
	cmd.Flags().Int64("max-upload", defaults.MaxUploadBytes, "Largest accepted image in bytes")

	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (comma-separated)")

	cmd.Flags().Bool("auth", false, "Require an API key (read from SCORECARD_API_KEY)")
	cmd.Flags().String("auth-header", "X-API-Key", "Authentication header name")

	cmd.Flags().Int("rate-limit", defaults.RateLimit, "Requests per minute per IP (0 to disable)")

	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	cmd.Flags().Bool("metrics", defaults.MetricsEnabled, "Expose Prometheus metrics on /metrics")

	return cmd
}

func configFromFlags(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	// Flags are defined in NewCommand, so lookups cannot fail
	f := cmd.Flags()
	cfg.Port, _ = f.GetInt("port")
	cfg.Host, _ = f.GetString("host")
	cfg.PathPrefix, _ = f.GetString("prefix")
	cfg.MaxUploadBytes, _ = f.GetInt64("max-upload")
	cfg.CORSEnabled, _ = f.GetBool("cors")
	cfg.CORSOrigins, _ = f.GetStringSlice("cors-origins")
	cfg.AuthEnabled, _ = f.GetBool("auth")
	cfg.AuthHeader, _ = f.GetString("auth-header")
	cfg.RateLimit, _ = f.GetInt("rate-limit")
	cfg.ReadTimeout, _ = f.GetDuration("read-timeout")
	cfg.WriteTimeout, _ = f.GetDuration("write-timeout")
	cfg.IdleTimeout, _ = f.GetDuration("idle-timeout")
	cfg.MetricsEnabled, _ = f.GetBool("metrics")

	// Environment overrides for container deployments
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" && !f.Changed("port") {
		port, err := parsePort(envPort)
		if err != nil {
			return cfg, err
		}
		cfg.Port = port
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !f.Changed("host") {
		cfg.Host = envHost
	}

	cfg.CORSEnabled = cfg.CORSEnabled || len(cfg.CORSOrigins) > 0
	if cfg.AuthEnabled {
		cfg.APIKey = os.Getenv(APIKeyEnv)
	}
	return cfg, nil
}

// parsePort parses a TCP port number.
func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidationError("HTTP_PORT", s, "invalid port number")
	}
	if port < 1 || port > 65535 {
		return 0, errors.NewValidationError("HTTP_PORT", s, "port out of range")
	}
	return port, nil
}

// run wires the scanner, sessions and metrics into the HTTP server and
// serves until ctx is cancelled.
func run(ctx context.Context, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	store, err := app.Store(ctx)
	if err != nil {
		return err
	}
	extractor, err := app.Extractor()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	sessions := session.New(app.SessionTTL(), session.WithEvictionHook(m.SessionEvicted))
	if err := m.SessionGauge(sessions); err != nil {
		return err
	}

	scanner := scan.New(extractor, store, store,
		scan.WithConfig(app.ScanConfig()),
		scan.WithUserTees(store),
		scan.WithObserver(m),
	)

	srv, err := server.New(scanner, sessions, cfg,
		server.WithMetrics(m),
		server.WithLogger(logger),
		server.WithVersion(app.Version()),
	)
	if err != nil {
		return err
	}

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("prefix", srv.Config().PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("session_ttl", sessions.TTL()).
		Msg("Starting API server")

	return serveUntilDone(ctx, srv, logger)
}

// serveUntilDone runs srv until ctx is cancelled, then drains connections.
func serveUntilDone(ctx context.Context, srv *server.Server, logger *zerolog.Logger) error {
	httpServer := srv.HTTPServer()

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("Starting scorecard API on %s\n", httpServer.Addr)
		fmt.Println("Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}
