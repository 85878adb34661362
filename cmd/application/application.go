// Package application provides the application interface for scorecard commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be exercised with a fake that wires in-memory stores and a scripted
// extractor:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            store, err := app.Store(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            // ... use store
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/repository"
	"github.com/agentstation/scorecard/pkg/scan"
)

// Application provides what commands need from the running app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Store returns the persistent backend, opening it on first use.
	Store(ctx context.Context) (repository.Store, error)

	// Extractor returns the OCR/LLM collaborator.
	Extractor() (extraction.Extractor, error)

	// ScanConfig returns the scanner configuration with any overrides applied.
	ScanConfig() scan.Config

	// SessionTTL is how long an unconfirmed scan stays reviewable.
	SessionTTL() time.Duration

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
