// Package strategy decides which extraction mode to request for a scan.
//
// Without a course hint the whole card is extracted. With one, a narrow
// identify call reads the course name; if that course is known canonically
// only the scores are extracted and the canonical holes and tees fill in the
// rest. Any failure along the identify path falls back to full extraction.
package strategy

import (
	"context"
	"strings"
	"time"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/repository"
)

// Reason explains how a strategy was chosen.
type Reason string

// Selection reasons.
const (
	ReasonNoHint         Reason = "no_hint"
	ReasonRequested      Reason = "requested"
	ReasonCourseFound    Reason = "course_found"
	ReasonCourseNotFound Reason = "course_not_found"
	ReasonIdentifyFailed Reason = "identify_failed"
	ReasonLookupFailed   Reason = "lookup_failed"
)

// Request is the input to Select.
type Request struct {
	Mode        extraction.Strategy // "", full, scores_only or smart
	CourseHint  string              // Free-text course name supplied by the user
	CourseID    string              // Known course for an explicit scores_only request
	Image       []byte
	MIMEType    string
	UserContext string
}

// Selection is the chosen strategy and whatever the selector learned on the way.
type Selection struct {
	Strategy   extraction.Strategy        `json:"strategy"` // full or scores_only
	Reason     Reason                     `json:"reason"`
	Course     *golf.Course               `json:"course,omitempty"` // Canonical course for scores_only
	Match      *matcher.Result            `json:"match,omitempty"`
	Identified *extraction.Identification `json:"identified,omitempty"`
	Calls      int                        `json:"calls"` // Extractor calls made while selecting
}

// Fallback reports whether a requested narrowing fell back to full extraction.
func (s *Selection) Fallback() bool {
	switch s.Reason {
	case ReasonCourseNotFound, ReasonIdentifyFailed, ReasonLookupFailed:
		return true
	}
	return false
}

// Option configures a Selector.
type Option func(*Selector)

// WithIdentifyTimeout bounds the identify call.
func WithIdentifyTimeout(d time.Duration) Option {
	return func(s *Selector) {
		s.identifyTimeout = d
	}
}

// Selector chooses an extraction strategy.
type Selector struct {
	extractor       extraction.Extractor
	matcher         *matcher.Matcher
	courses         repository.CourseRepository
	identifyTimeout time.Duration
}

// New creates a Selector.
func New(extractor extraction.Extractor, m *matcher.Matcher, courses repository.CourseRepository, opts ...Option) *Selector {
	s := &Selector{
		extractor:       extractor,
		matcher:         m,
		courses:         courses,
		identifyTimeout: constants.IdentificationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select picks the strategy for req. It makes at most one extractor call.
// The only error it returns is a caller mistake in req.
func (s *Selector) Select(ctx context.Context, req Request) (*Selection, error) {
	logger := logging.FromContext(ctx)
	hint := strings.TrimSpace(req.CourseHint)

	switch req.Mode {
	case extraction.StrategyFull:
		return &Selection{Strategy: extraction.StrategyFull, Reason: ReasonRequested}, nil
	case extraction.StrategyScoresOnly:
		return s.scoresOnly(ctx, req.CourseID), nil
	case "", extraction.StrategySmart:
	default:
		return nil, errors.NewValidationError("strategy", req.Mode, "strategy must be full, scores_only or smart")
	}

	if hint == "" {
		return &Selection{Strategy: extraction.StrategyFull, Reason: ReasonNoHint}, nil
	}

	sel := &Selection{Strategy: extraction.StrategyFull, Calls: 1}
	idCtx, cancel := context.WithTimeout(ctx, s.identifyTimeout)
	defer cancel()

	ident, err := s.extractor.Identify(idCtx, extraction.Request{
		Image:       req.Image,
		MIMEType:    req.MIMEType,
		UserContext: identifyContext(req.UserContext, hint),
		Strategy:    extraction.StrategyIdentify,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Course identification failed, using full extraction")
		sel.Reason = ReasonIdentifyFailed
		return sel, nil
	}
	if ident == nil {
		logger.Warn().Msg("Course identification returned nothing, using full extraction")
		sel.Reason = ReasonIdentifyFailed
		return sel, nil
	}
	sel.Identified = ident

	name, _ := ident.Name.Get()
	location, _ := ident.Location.Get()
	if strings.TrimSpace(name) == "" {
		name = hint
	}

	match, err := s.matcher.Match(ctx, name, location)
	if err != nil {
		logger.Warn().Err(err).Str("name", name).Msg("Course lookup failed, using full extraction")
		sel.Reason = ReasonLookupFailed
		return sel, nil
	}
	sel.Match = match
	if !match.Matched() {
		logger.Info().Str("name", name).Msg("Identified course not found, using full extraction")
		sel.Reason = ReasonCourseNotFound
		return sel, nil
	}

	sel.Strategy = extraction.StrategyScoresOnly
	sel.Reason = ReasonCourseFound
	sel.Course = match.Course
	logger.Debug().Str("course_id", match.Course.ID).Msg("Course identified, extracting scores only")
	return sel, nil
}

func (s *Selector) scoresOnly(ctx context.Context, courseID string) *Selection {
	logger := logging.FromContext(ctx)
	if courseID == "" {
		logger.Warn().Msg("scores_only requested without a course, using full extraction")
		return &Selection{Strategy: extraction.StrategyFull, Reason: ReasonCourseNotFound}
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		reason := ReasonLookupFailed
		if errors.IsNotFound(err) {
			reason = ReasonCourseNotFound
		}
		logger.Warn().Err(err).Str("course_id", courseID).Msg("Course unavailable, using full extraction")
		return &Selection{Strategy: extraction.StrategyFull, Reason: reason}
	}
	return &Selection{
		Strategy: extraction.StrategyScoresOnly,
		Reason:   ReasonRequested,
		Course:   course,
		Match:    &matcher.Result{Course: course, Score: 1, Exact: true},
	}
}

func identifyContext(userContext, hint string) string {
	h := "The golfer says this course is: " + hint
	if userContext == "" {
		return h
	}
	return userContext + "\n" + h
}
