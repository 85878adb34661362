// Package app provides the application context and dependency management
// for the scorecard CLI: configuration, logging, the storage backend and
// the extraction collaborator, created lazily and shared by all commands.
package app

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/scorecard/cmd/application"
	"github.com/agentstation/scorecard/internal/extractor/gemini"
	"github.com/agentstation/scorecard/internal/store/sqlite"
	"github.com/agentstation/scorecard/pkg/confidence"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/repository"
	"github.com/agentstation/scorecard/pkg/scan"
)

var _ application.Application = (*App)(nil)

// App represents the scorecard application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer

	mu        sync.Mutex
	store     repository.Store
	extractor extraction.Extractor
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// SessionTTL returns how long unconfirmed scans are kept.
func (a *App) SessionTTL() time.Duration {
	return a.config.SessionTTL
}

// ScanConfig returns the scanner configuration with calibration overrides.
func (a *App) ScanConfig() scan.Config {
	cfg := scan.DefaultConfig()
	cfg.Confidence = confidence.Config{
		HighThreshold:   a.config.HighThreshold,
		MediumThreshold: a.config.MediumThreshold,
		FlagPenalty:     a.config.FlagPenalty,
	}
	if a.config.MatchThreshold > 0 {
		cfg.MatchThreshold = a.config.MatchThreshold
	}
	if a.config.ExtractionTimeout > 0 {
		cfg.ExtractionTimeout = a.config.ExtractionTimeout
	}
	return cfg
}

// Store returns the SQLite backend, opening and migrating it on first use.
func (a *App) Store(_ context.Context) (repository.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	store, err := sqlite.Open(a.config.DatabasePath)
	if err != nil {
		return nil, errors.WrapResource("open", "database", a.config.DatabasePath, err)
	}
	a.logger.Debug().Str("path", a.config.DatabasePath).Msg("Database opened")

	a.store = store
	return store, nil
}

// Extractor returns the Gemini extractor, creating it on first use.
func (a *App) Extractor() (extraction.Extractor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.extractor != nil {
		return a.extractor, nil
	}

	client, err := gemini.New(gemini.Config{
		APIKey:   a.config.GeminiAPIKey,
		Model:    a.config.GeminiModel,
		Backend:  gemini.Backend(a.config.GeminiBackend),
		Project:  a.config.GoogleProject,
		Location: a.config.GoogleLocation,
	})
	if err != nil {
		return nil, err
	}

	a.extractor = client
	return client, nil
}

// Shutdown releases the storage backend.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	store := a.store
	a.store = nil
	a.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close database during shutdown")
		return err
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStore sets the storage backend (useful for testing).
func WithStore(store repository.Store) Option {
	return func(a *App) error {
		a.store = store
		return nil
	}
}

// WithExtractor sets the extraction collaborator (useful for testing).
func WithExtractor(ext extraction.Extractor) Option {
	return func(a *App) error {
		a.extractor = ext
		return nil
	}
}

// WithOutput redirects command output (useful for testing).
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
