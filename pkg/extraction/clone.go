package extraction

import "slices"

func (a Annotated[T]) clone() Annotated[T] {
	a.Flags = slices.Clone(a.Flags)
	return a
}

// Clone returns a deep copy so validation on the copy leaves r untouched.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{
		Course: ExtractedCourse{
			Name:     r.Course.Name.clone(),
			Location: r.Course.Location.clone(),
			Par:      r.Course.Par.clone(),
		},
		Date:       r.Date.clone(),
		PlayerName: r.PlayerName.clone(),
		Totals: ExtractedTotals{
			TotalScore:     r.Totals.TotalScore.clone(),
			FrontNineScore: r.Totals.FrontNineScore.clone(),
			BackNineScore:  r.Totals.BackNineScore.clone(),
			TotalPutts:     r.Totals.TotalPutts.clone(),
		},
		Notes: r.Notes.clone(),
	}
	if r.Holes != nil {
		out.Holes = make([]ExtractedHole, len(r.Holes))
		for i, h := range r.Holes {
			out.Holes[i] = ExtractedHole{
				HoleNumber:        h.HoleNumber.clone(),
				Par:               h.Par.clone(),
				Handicap:          h.Handicap.clone(),
				Strokes:           h.Strokes.clone(),
				Putts:             h.Putts.clone(),
				FairwayHit:        h.FairwayHit.clone(),
				GreenInRegulation: h.GreenInRegulation.clone(),
			}
		}
	}
	if r.Tees != nil {
		out.Tees = make([]ExtractedTee, len(r.Tees))
		for i, t := range r.Tees {
			tee := ExtractedTee{
				Color:        t.Color.clone(),
				SlopeRating:  t.SlopeRating.clone(),
				CourseRating: t.CourseRating.clone(),
			}
			if t.HoleYardages != nil {
				tee.HoleYardages = make([]TeeYardage, len(t.HoleYardages))
				for j, y := range t.HoleYardages {
					tee.HoleYardages[j] = TeeYardage{HoleNumber: y.HoleNumber, Yardage: y.Yardage.clone()}
				}
			}
			out.Tees[i] = tee
		}
	}
	return out
}
