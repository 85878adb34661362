// Package memory provides an in-memory implementation of the repository
// interfaces, used by tests and by the CLI when no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/scorecard/internal/similarity"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/repository"
)

var _ repository.Store = (*Store)(nil)

// Option is a function that configures a Store.
type Option func(*Store)

// WithCourses preloads canonical courses.
func WithCourses(courses ...golf.Course) Option {
	return func(s *Store) {
		for i := range courses {
			c := courses[i].Clone()
			if c.ID == "" {
				c.ID = s.newID()
			}
			s.courses[c.ID] = c
		}
	}
}

// WithUserTees preloads user tee configurations.
func WithUserTees(tees ...golf.UserTee) Option {
	return func(s *Store) {
		for i := range tees {
			t := tees[i].Clone()
			if t.ID == "" {
				t.ID = s.newID()
			}
			s.userTees[t.ID] = t
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.now = fn
	}
}

// Store is a thread-safe in-memory store.
type Store struct {
	mu       sync.RWMutex
	courses  map[string]*golf.Course
	rounds   map[string]*golf.Round
	userTees map[string]*golf.UserTee
	newID    func() string
	now      func() time.Time
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		courses:  make(map[string]*golf.Course),
		rounds:   make(map[string]*golf.Round),
		userTees: make(map[string]*golf.UserTee),
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByNormalizedNameAndLocation implements repository.CourseRepository.
func (s *Store) FindByNormalizedNameAndLocation(_ context.Context, name, location string) ([]golf.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []golf.Course
	for _, c := range s.courses {
		if matcher.Normalize(c.Name) != name {
			continue
		}
		if location != "" && matcher.Normalize(c.Location) != location {
			continue
		}
		out = append(out, *c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindBySimilarity implements repository.CourseRepository.
func (s *Store) FindBySimilarity(_ context.Context, name, location string, threshold float64) ([]repository.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all, local []repository.Candidate
	for _, c := range s.courses {
		score := similarity.Names(name, matcher.Normalize(c.Name))
		if score < threshold {
			continue
		}
		cand := repository.Candidate{Course: *c.Clone(), Similarity: score}
		all = append(all, cand)
		if location != "" && similarity.LocationMatches(location, matcher.Normalize(c.Location)) {
			local = append(local, cand)
		}
	}
	out := all
	if len(local) > 0 {
		out = local
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Course.ID < out[j].Course.ID
	})
	return out, nil
}

// GetByID implements repository.CourseRepository.
func (s *Store) GetByID(_ context.Context, id string) (*golf.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, errors.NewNotFoundError("course", id)
	}
	return c.Clone(), nil
}

// SaveCourse stores a course, assigning an ID when it has none.
func (s *Store) SaveCourse(_ context.Context, course *golf.Course) (*golf.Course, error) {
	if course == nil {
		return nil, errors.NewValidationError("course", nil, "course is required")
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := course.Clone()
	if c.ID == "" {
		c.ID = s.newID()
	}
	c.SortHoles()
	s.courses[c.ID] = c
	return c.Clone(), nil
}

// ListCourses returns all courses ordered by name, then ID.
func (s *Store) ListCourses(_ context.Context) ([]golf.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]golf.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, *c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveRound implements repository.RoundStore. The round is stored as given.
func (s *Store) SaveRound(_ context.Context, round *golf.Round) (*golf.Round, error) {
	if round == nil {
		return nil, errors.NewValidationError("round", nil, "round is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r := round.Clone()
	if r.ID == "" {
		r.ID = s.newID()
	}
	if _, exists := s.rounds[r.ID]; exists {
		return nil, errors.WrapResource("create", "round", r.ID, errors.ErrAlreadyExists)
	}
	if r.CreatedAt == nil {
		now := s.now().UTC()
		r.CreatedAt = &now
	}
	s.rounds[r.ID] = r
	return r.Clone(), nil
}

// GetRound implements repository.RoundStore.
func (s *Store) GetRound(_ context.Context, id string) (*golf.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rounds[id]
	if !ok {
		return nil, errors.NewNotFoundError("round", id)
	}
	return r.Clone(), nil
}

// FindUserTee implements repository.UserTeeStore.
func (s *Store) FindUserTee(_ context.Context, q repository.UserTeeQuery) (*golf.UserTee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*golf.UserTee
	for _, t := range s.userTees {
		if t.UserID != q.UserID || !t.Matches(q.Color) {
			continue
		}
		switch {
		case q.CourseID != "":
			if t.CourseID != q.CourseID {
				continue
			}
		case q.CourseName != "":
			if matcher.Normalize(t.CourseName) != q.CourseName {
				continue
			}
		default:
			continue
		}
		matches = append(matches, t)
	}
	if len(matches) == 0 {
		return nil, errors.NewNotFoundError("user_tee", strings.TrimSpace(q.UserID+" "+q.Color))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches[0].Clone(), nil
}

// SaveUserTee implements repository.UserTeeStore.
func (s *Store) SaveUserTee(_ context.Context, tee *golf.UserTee) (*golf.UserTee, error) {
	if tee == nil || tee.UserID == "" || strings.TrimSpace(tee.Name) == "" {
		return nil, errors.NewValidationError("user_tee", nil, "user ID and tee name are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := tee.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	s.userTees[t.ID] = t
	return t.Clone(), nil
}

// Close implements repository.Store.
func (s *Store) Close() error {
	return nil
}
