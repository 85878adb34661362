// Package repository defines the capabilities the engine needs from its
// downstream stores. Each backend implements them directly.
package repository

import (
	"context"

	"github.com/agentstation/scorecard/pkg/golf"
)

// Candidate is a course returned by a similarity search.
type Candidate struct {
	Course     golf.Course
	Similarity float64 // 0-1, name similarity after normalization
}

// CourseRepository looks up canonical courses.
//
// Names and locations passed in are already normalized by the caller.
type CourseRepository interface {
	// FindByNormalizedNameAndLocation returns courses whose normalized name
	// equals name and, when location is non-empty, whose normalized location
	// equals location.
	FindByNormalizedNameAndLocation(ctx context.Context, name, location string) ([]golf.Course, error)

	// FindBySimilarity returns courses whose name similarity is at least
	// threshold, sorted by descending similarity. A non-empty location
	// narrows the search to courses whose location contains it, when any do.
	FindBySimilarity(ctx context.Context, name, location string, threshold float64) ([]Candidate, error)

	// GetByID returns a course, or an error matching errors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*golf.Course, error)
}

// CourseWriter stores canonical courses.
type CourseWriter interface {
	SaveCourse(ctx context.Context, course *golf.Course) (*golf.Course, error)
	ListCourses(ctx context.Context) ([]golf.Course, error)
}

// RoundStore persists confirmed rounds.
type RoundStore interface {
	// SaveRound stores the round as given and returns it with an ID.
	SaveRound(ctx context.Context, round *golf.Round) (*golf.Round, error)
	GetRound(ctx context.Context, id string) (*golf.Round, error)
}

// UserTeeQuery selects a user's tee. CourseID wins over CourseName when set.
type UserTeeQuery struct {
	UserID     string
	CourseID   string
	CourseName string // Normalized course name for courses with no canonical record
	Color      string
}

// UserTeeStore looks up tee configurations users saved for a course.
type UserTeeStore interface {
	// FindUserTee returns the matching tee or an error matching errors.ErrNotFound.
	// Color matching is case-insensitive and exact.
	FindUserTee(ctx context.Context, q UserTeeQuery) (*golf.UserTee, error)
	SaveUserTee(ctx context.Context, tee *golf.UserTee) (*golf.UserTee, error)
}

// Store is everything a full backend provides.
type Store interface {
	CourseRepository
	CourseWriter
	RoundStore
	UserTeeStore
	Close() error
}
