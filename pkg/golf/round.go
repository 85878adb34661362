package golf

import (
	"fmt"
	"sort"
	"time"

	"github.com/agentstation/scorecard/pkg/errors"
)

// HoleScore is a player's result on one hole.
type HoleScore struct {
	HoleNumber        int   `json:"hole_number" yaml:"hole_number"`
	Strokes           *int  `json:"strokes" yaml:"strokes"`
	Putts             *int  `json:"putts" yaml:"putts"`
	ParPlayed         *int  `json:"par_played" yaml:"par_played"`               // Effective par after resolution
	HandicapPlayed    *int  `json:"handicap_played" yaml:"handicap_played"`     // Effective stroke index after resolution
	Yardage           *int  `json:"yardage,omitempty" yaml:"yardage,omitempty"` // From canonical or user tee only
	FairwayHit        *bool `json:"fairway_hit" yaml:"fairway_hit"`
	GreenInRegulation *bool `json:"green_in_regulation" yaml:"green_in_regulation"`
}

// ToPar returns strokes relative to the effective par.
func (s HoleScore) ToPar() (int, bool) {
	if s.Strokes == nil || s.ParPlayed == nil {
		return 0, false
	}
	return *s.Strokes - *s.ParPlayed, true
}

// ScoreName names the result relative to par: "birdie", "bogey" and so on.
// It returns "" when strokes or par are missing.
func (s HoleScore) ScoreName() string {
	rel, ok := s.ToPar()
	if !ok {
		return ""
	}
	switch {
	case rel <= -3:
		return "albatross"
	case rel == -2:
		return "eagle"
	case rel == -1:
		return "birdie"
	case rel == 0:
		return "par"
	case rel == 1:
		return "bogey"
	case rel == 2:
		return "double bogey"
	case rel == 3:
		return "triple bogey"
	case rel == 4:
		return "quadruple bogey"
	default:
		return "quintuple+"
	}
}

// Validate enforces putts <= strokes when both are present.
func (s HoleScore) Validate() error {
	if s.Strokes != nil && s.Putts != nil && *s.Putts > *s.Strokes {
		return errors.NewValidationError(fmt.Sprintf("hole_%d.putts", s.HoleNumber), *s.Putts,
			fmt.Sprintf("putts (%d) cannot exceed strokes (%d)", *s.Putts, *s.Strokes))
	}
	return nil
}

// Totals are the round aggregates. A nil pointer means no hole contributed.
type Totals struct {
	Strokes            *int `json:"strokes" yaml:"strokes"`
	Putts              *int `json:"putts" yaml:"putts"`
	ToPar              *int `json:"to_par" yaml:"to_par"`
	FrontNine          *int `json:"front_nine" yaml:"front_nine"`
	BackNine           *int `json:"back_nine" yaml:"back_nine"`
	HolesPlayed        int  `json:"holes_played" yaml:"holes_played"`
	Fairways           *int `json:"fairways_hit" yaml:"fairways_hit"`
	GreensInRegulation *int `json:"greens_in_regulation" yaml:"greens_in_regulation"`
}

// Round is a played round.
type Round struct {
	ID                   string      `json:"id,omitempty" yaml:"id,omitempty"`
	UserID               string      `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	CourseID             string      `json:"course_id,omitempty" yaml:"course_id,omitempty"`                   // Set when a canonical course matched
	CourseNamePlayed     string      `json:"course_name_played,omitempty" yaml:"course_name_played,omitempty"` // Denormalized name when unmatched
	CourseLocationPlayed string      `json:"course_location_played,omitempty" yaml:"course_location_played,omitempty"`
	TeeBox               string      `json:"tee_box,omitempty" yaml:"tee_box,omitempty"`
	Date                 *time.Time  `json:"date,omitempty" yaml:"date,omitempty"`
	HoleScores           []HoleScore `json:"hole_scores" yaml:"hole_scores"`
	Notes                string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Totals               Totals      `json:"totals" yaml:"totals"`
	CreatedAt            *time.Time  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// SortHoleScores orders hole scores by hole number.
func (r *Round) SortHoleScores() {
	sort.SliceStable(r.HoleScores, func(i, j int) bool {
		return r.HoleScores[i].HoleNumber < r.HoleScores[j].HoleNumber
	})
}

// HoleScore returns the score for a hole.
func (r *Round) HoleScore(number int) (*HoleScore, bool) {
	for i := range r.HoleScores {
		if r.HoleScores[i].HoleNumber == number {
			return &r.HoleScores[i], true
		}
	}
	return nil, false
}

// Validate checks that hole scores are unique, sorted and individually valid.
func (r *Round) Validate() error {
	prev := 0
	for _, s := range r.HoleScores {
		if s.HoleNumber <= prev {
			return errors.NewValidationError("hole_scores", s.HoleNumber,
				fmt.Sprintf("hole %d is duplicated or out of order", s.HoleNumber))
		}
		prev = s.HoleNumber
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }
