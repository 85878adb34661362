package scan

import (
	"time"

	"github.com/agentstation/scorecard/pkg/builder"
	"github.com/agentstation/scorecard/pkg/confidence"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/resolve"
	"github.com/agentstation/scorecard/pkg/review"
	"github.com/agentstation/scorecard/pkg/strategy"
)

// Session is one scan attempt under review. Sessions are values: Revise
// returns a new session and never changes the receiver.
type Session struct {
	ID        string
	UserID    string
	TeeColor  string // Tee requested at scan time
	CreatedAt time.Time
	UpdatedAt time.Time

	Selection *strategy.Selection
	Match     *matcher.Result
	Course    *golf.Course
	UserTee   *golf.UserTee
	Extracted *extraction.Result
	Edits     resolve.Edits

	Resolution *resolve.Resolution
	Confidence confidence.RoundConfidence
	Review     []review.Item
	Round      *golf.Round
}

// Inputs returns the resolver inputs for the session's current edits.
func (s *Session) Inputs() resolve.Inputs {
	return resolve.Inputs{
		Course:    s.Course,
		TeeColor:  s.TeeColor,
		UserTee:   s.UserTee,
		Extracted: s.Extracted,
		Edits:     s.Edits,
	}
}

// evaluate runs resolution, scoring, review and build over the session's
// inputs. It depends on nothing but the session and cfg.
func (s *Session) evaluate(cfg confidence.Config) {
	s.Resolution = resolve.Resolve(s.Inputs())
	s.Confidence = confidence.Aggregate(s.Resolution, cfg)
	s.Review = review.Items(s.Confidence)
	s.Round = builder.Build(s.Resolution, s.UserID)
}

// Revise returns a copy of the session with edits merged over the existing
// ones and everything downstream recomputed.
func (s *Session) Revise(edits resolve.Edits, cfg confidence.Config, now time.Time) *Session {
	next := *s
	next.Edits = s.Edits.Merge(edits)
	next.UpdatedAt = now
	next.evaluate(cfg)
	return &next
}

// FieldsNeedingReview returns the review identifiers in order.
func (s *Session) FieldsNeedingReview() []string {
	ids := make([]string, len(s.Review))
	for i, it := range s.Review {
		ids[i] = it.ID
	}
	return ids
}

// MatchSummary describes the course link of a scan.
type MatchSummary struct {
	CourseID   string  `json:"course_id,omitempty"`
	CourseName string  `json:"course_name,omitempty"`
	Score      float64 `json:"score"`
	Exact      bool    `json:"exact"`
}

// Result is the wire shape surfaced to the reviewing user.
type Result struct {
	ScanID              string                     `json:"scan_id,omitempty"`
	Round               *golf.Round                `json:"round"`
	Confidence          confidence.RoundConfidence `json:"confidence"`
	FieldsNeedingReview []string                   `json:"fields_needing_review"`
	ReviewDetails       []review.Item              `json:"review_details,omitempty"`
	Strategy            extraction.Strategy        `json:"strategy,omitempty"`
	StrategyReason      strategy.Reason            `json:"strategy_reason,omitempty"`
	CourseMatch         *MatchSummary              `json:"course_match,omitempty"`
	Edits               *resolve.Edits             `json:"edits,omitempty"`
}

// Result returns the session's wire representation.
func (s *Session) Result() *Result {
	r := &Result{
		ScanID:              s.ID,
		Round:               s.Round,
		Confidence:          s.Confidence,
		FieldsNeedingReview: s.FieldsNeedingReview(),
		ReviewDetails:       s.Review,
	}
	if s.Selection != nil {
		r.Strategy = s.Selection.Strategy
		r.StrategyReason = s.Selection.Reason
	}
	if s.Match != nil {
		m := &MatchSummary{Score: s.Match.Score, Exact: s.Match.Exact}
		if s.Match.Course != nil {
			m.CourseID = s.Match.Course.ID
			m.CourseName = s.Match.Course.Name
		}
		r.CourseMatch = m
	}
	if len(s.Edits.Holes) > 0 || s.Edits.TeeBox.Provided() || s.Edits.Date.Provided() || s.Edits.Notes.Provided() {
		e := s.Edits
		r.Edits = &e
	}
	return r
}
