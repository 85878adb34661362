package server

import (
	"net/http"

	"github.com/agentstation/scorecard/internal/server/handlers"
	"github.com/agentstation/scorecard/internal/server/middleware"
	"github.com/agentstation/scorecard/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.scanner, s.sessions, s.logger,
		handlers.WithMaxUpload(s.config.MaxUploadBytes),
		handlers.WithVersion(s.version),
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Scans
	mux.HandleFunc("POST "+prefix+"/scans", h.HandleCreateScan)
	mux.HandleFunc("GET "+prefix+"/scans/{id}", h.HandleGetScan)
	mux.HandleFunc("PATCH "+prefix+"/scans/{id}", h.HandleReviseScan)
	mux.HandleFunc("DELETE "+prefix+"/scans/{id}", h.HandleDeleteScan)
	mux.HandleFunc("POST "+prefix+"/scans/{id}/confirm", h.HandleConfirmScan)

	// Courses
	mux.HandleFunc("GET "+prefix+"/courses/match", h.HandleMatchCourse)

	if s.config.MetricsEnabled && s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Everything else gets the JSON envelope instead of the mux's text 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found", "no route for "+r.Method+" "+r.URL.Path)
	})
}

// applyMiddleware wraps handler with middleware chain. Metrics sits closest
// to the mux so it sees the matched route pattern.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.MetricsEnabled && s.metrics != nil {
		handler = middleware.Metrics(s.metrics)(handler)
	}

	if cfg.RateLimit > 0 {
		handler = middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, s.logger))(handler)
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig(cfg.PathPrefix)
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
