// Package scan runs one scorecard scan attempt end to end: strategy
// selection, extraction, course matching, field resolution, confidence
// scoring, review flagging and round assembly.
//
// A scan is a single sequential pipeline. The only blocking calls are to
// the extractor and the repositories, and the second extractor call, when
// there is one, depends on the first. Scanners hold no per-scan state and
// may be shared across goroutines.
package scan

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/scorecard/pkg/builder"
	"github.com/agentstation/scorecard/pkg/confidence"
	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/repository"
	"github.com/agentstation/scorecard/pkg/resolve"
	"github.com/agentstation/scorecard/pkg/strategy"
)

// Request is one scan submission.
type Request struct {
	Image       []byte
	MIMEType    string              // Sniffed from Image when empty
	UserContext string              // Free-text hints passed to the extractor
	CourseHint  string              // Course name the user typed, enables identification
	CourseID    string              // Known course for an explicit scores_only request
	Strategy    extraction.Strategy // "", full, scores_only or smart
	UserID      string
	TeeBox      string // Tee color played
}

// Observer is notified of pipeline events. Implementations must be safe
// for concurrent use.
type Observer interface {
	ObserveSelection(sel *strategy.Selection)
	ObserveMatch(res *matcher.Result)
	ObserveScan(sess *Session, elapsed time.Duration)
	ObserveFailure(stage string)
	ObserveConfirm()
}

type nopObserver struct{}

func (nopObserver) ObserveSelection(*strategy.Selection) {}
func (nopObserver) ObserveMatch(*matcher.Result) {}
func (nopObserver) ObserveScan(*Session, time.Duration) {}
func (nopObserver) ObserveFailure(string) {}
func (nopObserver) ObserveConfirm() {}

// Config tunes the scanner.
type Config struct {
	Confidence        confidence.Config
	MatchThreshold    float64
	ExtractionTimeout time.Duration
	IdentifyTimeout   time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Confidence:        confidence.DefaultConfig(),
		MatchThreshold:    constants.MatchThreshold,
		ExtractionTimeout: constants.ExtractionTimeout,
		IdentifyTimeout:   constants.IdentificationTimeout,
	}
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithConfig replaces the scanner configuration.
func WithConfig(cfg Config) Option {
	return func(s *Scanner) {
		s.cfg = cfg
	}
}

// WithUserTees enables yardage lookup from users' saved tees.
func WithUserTees(store repository.UserTeeStore) Option {
	return func(s *Scanner) {
		s.userTees = store
	}
}

// WithObserver registers an observer for pipeline events.
func WithObserver(o Observer) Option {
	return func(s *Scanner) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Scanner) {
		s.newID = fn
	}
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *Scanner) {
		s.now = fn
	}
}

// Scanner runs scans.
type Scanner struct {
	extractor extraction.Extractor
	courses   repository.CourseRepository
	rounds    repository.RoundStore
	userTees  repository.UserTeeStore
	matcher   *matcher.Matcher
	selector  *strategy.Selector
	observer  Observer
	cfg       Config
	newID     func() string
	now       func() time.Time
}

// New creates a Scanner.
func New(extractor extraction.Extractor, courses repository.CourseRepository, rounds repository.RoundStore, opts ...Option) *Scanner {
	s := &Scanner{
		extractor: extractor,
		courses:   courses,
		rounds:    rounds,
		observer:  nopObserver{},
		cfg:       DefaultConfig(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.ExtractionTimeout <= 0 {
		s.cfg.ExtractionTimeout = constants.ExtractionTimeout
	}
	if s.cfg.IdentifyTimeout <= 0 {
		s.cfg.IdentifyTimeout = constants.IdentificationTimeout
	}
	s.matcher = matcher.New(courses, &matcher.Options{Threshold: s.cfg.MatchThreshold})
	s.selector = strategy.New(extractor, s.matcher, courses, strategy.WithIdentifyTimeout(s.cfg.IdentifyTimeout))
	return s
}

// Matcher returns the course matcher the scanner uses.
func (s *Scanner) Matcher() *matcher.Matcher {
	return s.matcher
}

// Config returns the scanner configuration.
func (s *Scanner) Config() Config {
	return s.cfg
}

// Scan runs one attempt. The only failures are a bad request and a failed
// primary extraction; everything else degrades into lower confidence.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Session, error) {
	start := s.now()
	id := s.newID()
	ctx = logging.WithScan(ctx, id)
	logger := logging.FromContext(ctx)

	if err := s.validate(&req); err != nil {
		s.observer.ObserveFailure("request")
		return nil, err
	}

	sel, err := s.selector.Select(ctx, strategy.Request{
		Mode:        req.Strategy,
		CourseHint:  req.CourseHint,
		CourseID:    req.CourseID,
		Image:       req.Image,
		MIMEType:    req.MIMEType,
		UserContext: req.UserContext,
	})
	if err != nil {
		s.observer.ObserveFailure("strategy")
		return nil, err
	}
	s.observer.ObserveSelection(sel)
	logger.Debug().Str("strategy", string(sel.Strategy)).Str("reason", string(sel.Reason)).Msg("Strategy selected")

	extracted, err := s.extract(ctx, req, sel)
	if err != nil {
		s.observer.ObserveFailure("extract")
		logger.Error().Err(err).Msg("Extraction failed")
		return nil, err
	}
	extraction.Validate(extracted)

	sess := &Session{
		ID:        id,
		UserID:    req.UserID,
		TeeColor:  strings.TrimSpace(req.TeeBox),
		CreatedAt: start,
		UpdatedAt: start,
		Selection: sel,
		Extracted: extracted,
	}

	sess.Match, sess.Course = s.linkCourse(ctx, sel, extracted)
	s.observer.ObserveMatch(sess.Match)
	sess.UserTee = s.lookupUserTee(ctx, sess)

	sess.evaluate(s.cfg.Confidence)
	s.observer.ObserveScan(sess, s.now().Sub(start))
	logger.Info().
		Int("holes", len(sess.Round.HoleScores)).
		Float64("confidence", sess.Confidence.Overall).
		Int("needs_review", len(sess.Review)).
		Msg("Scan complete")
	return sess, nil
}

// Revise applies edits to a session and recomputes it. The tee box may have
// changed, so the user's saved tee is looked up again.
func (s *Scanner) Revise(ctx context.Context, sess *Session, edits resolve.Edits) (*Session, error) {
	if sess == nil {
		return nil, errors.NewValidationError("session", nil, "session is required")
	}
	if err := edits.Validate(); err != nil {
		return nil, err
	}
	next := *sess
	next.Edits = sess.Edits.Merge(edits)
	next.UserTee = s.lookupUserTee(logging.WithScan(ctx, sess.ID), &next)
	return next.Revise(resolve.Edits{}, s.cfg.Confidence, s.now()), nil
}

// Confirm persists the session's round exactly as reviewed.
func (s *Scanner) Confirm(ctx context.Context, sess *Session) (*golf.Round, error) {
	if sess == nil || sess.Round == nil {
		return nil, errors.NewValidationError("session", nil, "session has no round")
	}
	ctx = logging.WithScan(ctx, sess.ID)
	saved, err := builder.Confirm(ctx, s.rounds, sess.Round)
	if err != nil {
		s.observer.ObserveFailure("confirm")
		return nil, err
	}
	s.observer.ObserveConfirm()
	logging.FromContext(ctx).Info().Str("round_id", saved.ID).Msg("Round confirmed")
	return saved, nil
}

func (s *Scanner) validate(req *Request) error {
	if len(req.Image) == 0 {
		return errors.NewValidationError("image", nil, "image is required")
	}
	if len(req.Image) > constants.MaxImageBytes {
		return errors.NewValidationError("image", len(req.Image), "image exceeds 20 MB")
	}
	if req.MIMEType == "" {
		req.MIMEType = http.DetectContentType(req.Image)
	}
	if !extraction.IsSupportedMIMEType(req.MIMEType) {
		return errors.NewValidationError("image", req.MIMEType, "unsupported image type "+req.MIMEType)
	}
	return nil
}

func (s *Scanner) extract(ctx context.Context, req Request, sel *strategy.Selection) (*extraction.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ExtractionTimeout)
	defer cancel()

	result, err := s.extractor.Extract(ctx, extraction.Request{
		Image:       req.Image,
		MIMEType:    req.MIMEType,
		UserContext: req.UserContext,
		Strategy:    sel.Strategy,
		Course:      sel.Course,
	})
	if err != nil {
		if errors.IsCollaboratorUnavailable(err) {
			return nil, err
		}
		return nil, errors.NewCollaboratorError("extractor", "extract", err)
	}
	if result == nil {
		return nil, errors.NewCollaboratorError("extractor", "extract", errors.New("empty extraction result"))
	}
	return result, nil
}

// linkCourse returns the canonical course for the scan. A course chosen by
// the strategy is kept; otherwise the card's course header is matched.
// Repository failures leave the round unlinked.
func (s *Scanner) linkCourse(ctx context.Context, sel *strategy.Selection, extracted *extraction.Result) (*matcher.Result, *golf.Course) {
	if sel.Course != nil {
		return sel.Match, sel.Course
	}
	name, _ := extracted.Course.Name.Get()
	location, _ := extracted.Course.Location.Get()
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	res, err := s.matcher.Match(ctx, name, location)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Course match failed, keeping round unlinked")
		return nil, nil
	}
	return res, res.Course
}

func (s *Scanner) lookupUserTee(ctx context.Context, sess *Session) *golf.UserTee {
	if s.userTees == nil || sess.UserID == "" {
		return nil
	}
	color := resolve.TeeBox(sess.Inputs())
	if color == "" {
		return nil
	}
	q := repository.UserTeeQuery{UserID: sess.UserID, Color: color}
	switch {
	case sess.Course != nil && sess.Course.ID != "":
		q.CourseID = sess.Course.ID
	case sess.Extracted != nil:
		name, _ := sess.Extracted.Course.Name.Get()
		q.CourseName = matcher.Normalize(name)
	}
	if q.CourseID == "" && q.CourseName == "" {
		return nil
	}
	tee, err := s.userTees.FindUserTee(ctx, q)
	if err != nil {
		if !errors.IsNotFound(err) {
			logging.FromContext(ctx).Warn().Err(err).Msg("User tee lookup failed")
		}
		return nil
	}
	return tee
}
