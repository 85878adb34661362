package server

import (
	"fmt"
	"time"

	"github.com/agentstation/scorecard/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix     string
	MaxUploadBytes int64

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// Requests per minute per client (0 to disable)
	RateLimit int

	// HTTP timeouts. Writes cover the extractor call, so they run long.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     constants.DefaultPathPrefix,
		MaxUploadBytes: constants.MaxImageBytes,
		CORSOrigins:    []string{},
		AuthHeader:     "X-API-Key",
		RateLimit:      60,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   constants.ExtractionTimeout + 30*time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
