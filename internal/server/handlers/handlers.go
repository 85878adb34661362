// Package handlers provides HTTP request handlers for the scorecard API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/scorecard/internal/session"
	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/scan"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	scanner   *scan.Scanner
	sessions  *session.Store
	logger    *zerolog.Logger
	maxUpload int64
	version   string
	started   time.Time
}

// Option configures Handlers.
type Option func(*Handlers)

// WithMaxUpload bounds the size of a scan upload in bytes.
func WithMaxUpload(n int64) Option {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(h *Handlers) {
		h.version = v
	}
}

// New creates a new Handlers instance.
func New(scanner *scan.Scanner, sessions *session.Store, logger *zerolog.Logger, opts ...Option) *Handlers {
	h := &Handlers{
		scanner:   scanner,
		sessions:  sessions,
		logger:    logger,
		maxUpload: constants.MaxImageBytes,
		version:   "dev",
		started:   time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
