package golf

import (
	"maps"
	"slices"
)

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of the course.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.Par = clonePtr(c.Par)
	out.Holes = slices.Clone(c.Holes)
	if c.Tees != nil {
		out.Tees = make([]Tee, len(c.Tees))
		for i, t := range c.Tees {
			out.Tees[i] = t.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the tee.
func (t Tee) Clone() Tee {
	t.TotalYardage = clonePtr(t.TotalYardage)
	t.HoleYardages = maps.Clone(t.HoleYardages)
	t.SlopeRating = clonePtr(t.SlopeRating)
	t.CourseRating = clonePtr(t.CourseRating)
	return t
}

// Clone returns a deep copy of the user tee.
func (u *UserTee) Clone() *UserTee {
	if u == nil {
		return nil
	}
	out := *u
	out.HoleYardages = maps.Clone(u.HoleYardages)
	out.SlopeRating = clonePtr(u.SlopeRating)
	out.CourseRating = clonePtr(u.CourseRating)
	return &out
}

// Clone returns a deep copy of the hole score.
func (s HoleScore) Clone() HoleScore {
	s.Strokes = clonePtr(s.Strokes)
	s.Putts = clonePtr(s.Putts)
	s.ParPlayed = clonePtr(s.ParPlayed)
	s.HandicapPlayed = clonePtr(s.HandicapPlayed)
	s.Yardage = clonePtr(s.Yardage)
	s.FairwayHit = clonePtr(s.FairwayHit)
	s.GreenInRegulation = clonePtr(s.GreenInRegulation)
	return s
}

// Clone returns a deep copy of the round.
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	out := *r
	out.Date = clonePtr(r.Date)
	out.CreatedAt = clonePtr(r.CreatedAt)
	if r.HoleScores != nil {
		out.HoleScores = make([]HoleScore, len(r.HoleScores))
		for i, s := range r.HoleScores {
			out.HoleScores[i] = s.Clone()
		}
	}
	out.Totals = Totals{
		Strokes:            clonePtr(r.Totals.Strokes),
		Putts:              clonePtr(r.Totals.Putts),
		ToPar:              clonePtr(r.Totals.ToPar),
		FrontNine:          clonePtr(r.Totals.FrontNine),
		BackNine:           clonePtr(r.Totals.BackNine),
		HolesPlayed:        r.Totals.HolesPlayed,
		Fairways:           clonePtr(r.Totals.Fairways),
		GreensInRegulation: clonePtr(r.Totals.GreensInRegulation),
	}
	return &out
}
