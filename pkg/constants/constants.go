// Package constants provides shared constants used throughout the scorecard codebase.
// Calibration values (thresholds, penalties) are defaults only; every component that
// reads them accepts an override through its own options or config struct.
package constants

import "time"

// Confidence calibration. These are documented defaults, to be re-tuned against
// recorded extraction samples.
const (
	// HighConfidenceThreshold is the minimum final confidence for the "high" level
	HighConfidenceThreshold = 0.85

	// MediumConfidenceThreshold is the minimum final confidence for the "medium" level
	MediumConfidenceThreshold = 0.60

	// FlagPenalty is subtracted from raw confidence once per validation flag
	FlagPenalty = 0.30

	// CanonicalConfidence is the confidence assigned to canonical and user-edited values
	CanonicalConfidence = 1.0
)

// Course matching
const (
	// MatchThreshold is the minimum similarity for accepting a fuzzy course match
	MatchThreshold = 0.80

	// MaxMatchCandidates bounds how many similarity candidates a repository returns
	MaxMatchCandidates = 10
)

// Golf domain limits
const (
	// MinHoleNumber is the first hole on a card
	MinHoleNumber = 1

	// MaxHoleNumber is the last hole on a card
	MaxHoleNumber = 18

	// MinPar and MaxPar bound a single hole's par
	MinPar = 3
	MaxPar = 6

	// MinHandicap and MaxHandicap bound a hole's stroke index
	MinHandicap = 1
	MaxHandicap = 18

	// MinStrokes and MaxStrokes bound plausible strokes on a hole
	MinStrokes = 1
	MaxStrokes = 15

	// HighStrokes marks a stroke count as unusual
	HighStrokes = 10

	// MaxPutts bounds plausible putts on a hole
	MaxPutts = 10

	// HighPutts marks a putt count as unusual
	HighPutts = 4

	// FrontNineLast is the last hole of the front nine
	FrontNineLast = 9

	// MaxHoleYardage bounds a single hole's yardage
	MaxHoleYardage = 700

	// MinSlopeRating and MaxSlopeRating bound a tee's slope
	MinSlopeRating = 55.0
	MaxSlopeRating = 155.0

	// MinCourseRating and MaxCourseRating bound a tee's course rating
	MinCourseRating = 55.0
	MaxCourseRating = 85.0
)

// Timeout constants
const (
	// ExtractionTimeout bounds a single OCR/LLM call
	ExtractionTimeout = 2 * time.Minute

	// IdentificationTimeout bounds the narrow course identification call
	IdentificationTimeout = 30 * time.Second

	// RepositoryTimeout bounds a single course repository call
	RepositoryTimeout = 5 * time.Second

	// ShutdownTimeout is how long the server drains connections
	ShutdownTimeout = 5 * time.Second
)

// Session constants
const (
	// SessionTTL is how long an unconfirmed scan result is kept
	SessionTTL = 30 * time.Minute

	// SessionCleanupInterval is how often expired sessions are purged
	SessionCleanupInterval = 5 * time.Minute
)

// Upload limits
const (
	// MaxImageBytes is the largest accepted scorecard upload (20 MB)
	MaxImageBytes = 20 << 20
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Default values
const (
	// DefaultGeminiModel is the model used for scorecard extraction
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultDatabasePath is the SQLite file used when none is configured
	DefaultDatabasePath = "scorecard.db"

	// DefaultPathPrefix is the HTTP API prefix
	DefaultPathPrefix = "/api/v1"
)
