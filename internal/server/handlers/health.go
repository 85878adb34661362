package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/scorecard/internal/server/response"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "scorecard-api",
		"version": h.version,
	})
}

// HandleReady handles GET /api/v1/ready. It reports the session store and
// the thresholds the scanner runs with.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if h.scanner == nil || h.sessions == nil {
		response.JSON(w, http.StatusServiceUnavailable,
			response.Fail("SERVICE_UNAVAILABLE", "Service unavailable", "scanner not configured"))
		return
	}
	cfg := h.scanner.Config()
	response.OK(w, map[string]any{
		"status":   "ready",
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"sessions": h.sessions.Stats(),
		"thresholds": map[string]float64{
			"match":  cfg.MatchThreshold,
			"high":   cfg.Confidence.HighThreshold,
			"medium": cfg.Confidence.MediumThreshold,
		},
	})
}
