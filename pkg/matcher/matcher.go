// Package matcher resolves a free-text course name and location, as read off
// a scorecard, to a canonical course record.
//
// An exact normalized match always wins. Otherwise the best similarity
// candidate is accepted only at or above the threshold; below it there is
// no match, since a round linked to the wrong course is worse than one left
// unlinked.
package matcher

import (
	"context"
	"math"
	"sort"

	"github.com/agentstation/scorecard/internal/similarity"
	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/repository"
)

// scoreEpsilon is how close two similarity scores must be to count as tied.
const scoreEpsilon = 1e-9

// Options configures the matcher behavior.
type Options struct {
	// Threshold is the minimum similarity for a fuzzy match
	Threshold float64
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{Threshold: constants.MatchThreshold}
}

// Result is the outcome of a match attempt.
type Result struct {
	Course     *golf.Course `json:"course,omitempty"`
	Score      float64      `json:"score"`                // Similarity of the accepted or best rejected candidate
	Exact      bool         `json:"exact"`                // Matched on normalized name without fuzzing
	Candidates int          `json:"candidates,omitempty"` // Similarity candidates considered
}

// Matched reports whether a course was accepted.
func (r *Result) Matched() bool {
	return r != nil && r.Course != nil
}

// Matcher matches course names against a CourseRepository.
type Matcher struct {
	repo      repository.CourseRepository
	threshold float64
}

// New creates a Matcher over repo.
func New(repo repository.CourseRepository, opts ...*Options) *Matcher {
	options := DefaultOptions()
	if len(opts) > 0 && opts[0] != nil {
		options = opts[0]
	}
	threshold := options.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = constants.MatchThreshold
	}
	return &Matcher{repo: repo, threshold: threshold}
}

// Threshold returns the similarity threshold in use.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match resolves name and location to a canonical course. A miss is a
// Result with no Course, not an error; errors come only from the repository.
func (m *Matcher) Match(ctx context.Context, name, location string) (*Result, error) {
	logger := logging.FromContext(ctx)
	normName := Normalize(name)
	normLoc := Normalize(location)
	if normName == "" {
		return &Result{}, nil
	}

	if course, err := m.exact(ctx, normName, normLoc); err != nil {
		return nil, err
	} else if course != nil {
		logger.Debug().Str("course_id", course.ID).Msg("Exact course match")
		return &Result{Course: course, Score: 1, Exact: true}, nil
	}

	candidates, err := m.repo.FindBySimilarity(ctx, normName, normLoc, m.threshold)
	if err != nil {
		return nil, errors.WrapCollaborator("course_repository", "find_by_similarity", err)
	}
	result := &Result{Candidates: len(candidates)}
	if len(candidates) == 0 {
		logger.Info().Str("name", name).Msg("No course candidates above threshold")
		return result, nil
	}

	Rank(candidates, normLoc)
	best := candidates[0]
	result.Score = best.Similarity
	if best.Similarity+scoreEpsilon < m.threshold {
		logger.Info().
			Str("name", name).
			Float64("best_score", best.Similarity).
			Float64("threshold", m.threshold).
			Msg("Course match below threshold")
		return result, nil
	}

	course := best.Course
	result.Course = &course
	logger.Debug().
		Str("course_id", course.ID).
		Float64("score", best.Similarity).
		Msg("Fuzzy course match")
	return result, nil
}

func (m *Matcher) exact(ctx context.Context, name, location string) (*golf.Course, error) {
	courses, err := m.repo.FindByNormalizedNameAndLocation(ctx, name, location)
	if err != nil {
		return nil, errors.WrapCollaborator("course_repository", "find_by_name", err)
	}
	if len(courses) == 0 && location != "" {
		courses, err = m.repo.FindByNormalizedNameAndLocation(ctx, name, "")
		if err != nil {
			return nil, errors.WrapCollaborator("course_repository", "find_by_name", err)
		}
	}
	if len(courses) == 0 {
		return nil, nil
	}
	cands := make([]repository.Candidate, len(courses))
	for i, c := range courses {
		cands[i] = repository.Candidate{Course: c, Similarity: 1}
	}
	Rank(cands, location)
	course := cands[0].Course
	return &course, nil
}

// Rank orders candidates by descending similarity. Equal scores prefer a
// candidate whose normalized location equals location, then the smallest ID.
func Rank(candidates []repository.Candidate, location string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if math.Abs(a.Similarity-b.Similarity) > scoreEpsilon {
			return a.Similarity > b.Similarity
		}
		if location != "" {
			la := Normalize(a.Course.Location) == location
			lb := Normalize(b.Course.Location) == location
			if la != lb {
				return la
			}
		}
		return a.Course.ID < b.Course.ID
	})
}

// Score returns the similarity the matcher uses between two raw names.
func Score(a, b string) float64 {
	return similarity.Names(Normalize(a), Normalize(b))
}
