// Package golf defines the round and course records the engine reconciles.
package golf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
)

// Course is a canonical course record.
type Course struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`             // Repository identifier (empty until persisted)
	Name     string `json:"name" yaml:"name"`                             // Display name
	Location string `json:"location,omitempty" yaml:"location,omitempty"` // Free-text location, e.g. "Pebble Beach, CA"
	Par      *int   `json:"par,omitempty" yaml:"par,omitempty"`           // Course par; derived from holes when nil
	Holes    []Hole `json:"holes,omitempty" yaml:"holes,omitempty"`       // Ordered by number
	Tees     []Tee  `json:"tees,omitempty" yaml:"tees,omitempty"`         // Ordered as printed on the card
	OwnerID  string `json:"owner_id,omitempty" yaml:"owner_id,omitempty"` // Set for user-contributed courses
}

// Hole is a single hole of a course.
type Hole struct {
	Number   int `json:"number" yaml:"number"`                         // 1-18
	Par      int `json:"par" yaml:"par"`                               // 3-6
	Handicap int `json:"handicap,omitempty" yaml:"handicap,omitempty"` // Stroke index, 1-18, unique per course
}

// Tee is a tee box with its ratings and per-hole yardage.
type Tee struct {
	Color        string      `json:"color" yaml:"color"`
	TotalYardage *int        `json:"total_yardage,omitempty" yaml:"total_yardage,omitempty"`
	HoleYardages map[int]int `json:"hole_yardages,omitempty" yaml:"hole_yardages,omitempty"` // hole number -> yards
	SlopeRating  *float64    `json:"slope_rating,omitempty" yaml:"slope_rating,omitempty"`   // 55-155
	CourseRating *float64    `json:"course_rating,omitempty" yaml:"course_rating,omitempty"` // 55-85
}

// Hole returns the hole with the given number.
func (c *Course) Hole(number int) (Hole, bool) {
	for _, h := range c.Holes {
		if h.Number == number {
			return h, true
		}
	}
	return Hole{}, false
}

// Tee returns the tee whose color matches exactly, ignoring case.
// There is no nearest-color fallback.
func (c *Course) Tee(color string) (*Tee, bool) {
	color = strings.TrimSpace(color)
	if color == "" {
		return nil, false
	}
	for i := range c.Tees {
		if strings.EqualFold(strings.TrimSpace(c.Tees[i].Color), color) {
			return &c.Tees[i], true
		}
	}
	return nil, false
}

// TotalPar returns the stored par or the sum of hole pars.
func (c *Course) TotalPar() (int, bool) {
	if c.Par != nil {
		return *c.Par, true
	}
	if len(c.Holes) == 0 {
		return 0, false
	}
	total := 0
	for _, h := range c.Holes {
		total += h.Par
	}
	return total, true
}

// SortHoles orders holes by number.
func (c *Course) SortHoles() {
	sort.Slice(c.Holes, func(i, j int) bool { return c.Holes[i].Number < c.Holes[j].Number })
}

// Validate checks hole numbering, par and handicap ranges, and tee data.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.NewValidationError("name", c.Name, "course name is required")
	}
	numbers := make(map[int]bool, len(c.Holes))
	handicaps := make(map[int]int, len(c.Holes))
	for _, h := range c.Holes {
		if err := h.Validate(); err != nil {
			return err
		}
		if numbers[h.Number] {
			return errors.NewValidationError("holes", h.Number, fmt.Sprintf("duplicate hole number %d", h.Number))
		}
		numbers[h.Number] = true
		if h.Handicap == 0 {
			continue
		}
		if other, ok := handicaps[h.Handicap]; ok {
			return errors.NewValidationError("holes", h.Handicap,
				fmt.Sprintf("handicap %d used by holes %d and %d", h.Handicap, other, h.Number))
		}
		handicaps[h.Handicap] = h.Number
	}
	for i := range c.Tees {
		if err := c.Tees[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the hole's number, par and handicap ranges.
func (h Hole) Validate() error {
	if h.Number < constants.MinHoleNumber || h.Number > constants.MaxHoleNumber {
		return errors.NewValidationError("hole.number", h.Number, "hole number must be 1-18")
	}
	if h.Par < constants.MinPar || h.Par > constants.MaxPar {
		return errors.NewValidationError("hole.par", h.Par, fmt.Sprintf("par for hole %d must be 3-6", h.Number))
	}
	if h.Handicap != 0 && (h.Handicap < constants.MinHandicap || h.Handicap > constants.MaxHandicap) {
		return errors.NewValidationError("hole.handicap", h.Handicap, fmt.Sprintf("handicap for hole %d must be 1-18", h.Number))
	}
	return nil
}

// Yardage returns the yardage for a hole on this tee.
func (t *Tee) Yardage(hole int) (int, bool) {
	y, ok := t.HoleYardages[hole]
	return y, ok
}

// CalculatedTotal sums the hole yardages.
func (t *Tee) CalculatedTotal() (int, bool) {
	if len(t.HoleYardages) == 0 {
		return 0, false
	}
	total := 0
	for _, y := range t.HoleYardages {
		total += y
	}
	return total, true
}

// Validate checks yardage and rating ranges.
func (t *Tee) Validate() error {
	for hole, y := range t.HoleYardages {
		if hole < constants.MinHoleNumber || hole > constants.MaxHoleNumber {
			return errors.NewValidationError("tee.hole_yardages", hole, fmt.Sprintf("tee %s: hole number %d must be 1-18", t.Color, hole))
		}
		if y < 0 || y > constants.MaxHoleYardage {
			return errors.NewValidationError("tee.hole_yardages", y, fmt.Sprintf("tee %s: yardage %d for hole %d out of range", t.Color, y, hole))
		}
	}
	if t.SlopeRating != nil && (*t.SlopeRating < constants.MinSlopeRating || *t.SlopeRating > constants.MaxSlopeRating) {
		return errors.NewValidationError("tee.slope_rating", *t.SlopeRating, "slope rating must be 55-155")
	}
	if t.CourseRating != nil && (*t.CourseRating < constants.MinCourseRating || *t.CourseRating > constants.MaxCourseRating) {
		return errors.NewValidationError("tee.course_rating", *t.CourseRating, "course rating must be 55-85")
	}
	return nil
}

// UserTee is a tee configuration a user saved for a course, used when the
// canonical course has no yardage for the tee they played.
type UserTee struct {
	ID           string      `json:"id,omitempty" yaml:"id,omitempty"`
	UserID       string      `json:"user_id" yaml:"user_id"`
	CourseID     string      `json:"course_id,omitempty" yaml:"course_id,omitempty"`
	CourseName   string      `json:"course_name,omitempty" yaml:"course_name,omitempty"`
	Name         string      `json:"name" yaml:"name"` // Tee color or label
	HoleYardages map[int]int `json:"hole_yardages,omitempty" yaml:"hole_yardages,omitempty"`
	SlopeRating  *float64    `json:"slope_rating,omitempty" yaml:"slope_rating,omitempty"`
	CourseRating *float64    `json:"course_rating,omitempty" yaml:"course_rating,omitempty"`
}

// Matches reports whether the user tee is named color, ignoring case.
func (u *UserTee) Matches(color string) bool {
	color = strings.TrimSpace(color)
	return color != "" && strings.EqualFold(strings.TrimSpace(u.Name), color)
}
