package extraction

import (
	"github.com/agentstation/scorecard/pkg/constants"
)

// Validation flags raised against extracted fields. A flag never changes or
// drops a value; it only lowers the field's confidence.
const (
	FlagStrokesOutOfRange    = "strokes_out_of_range"
	FlagStrokesUnusuallyHigh = "strokes_unusually_high"
	FlagPuttsOutOfRange      = "putts_out_of_range"
	FlagPuttsUnusuallyHigh   = "putts_unusually_high"
	FlagPuttsExceedStrokes   = "putts_exceed_strokes"
	FlagParOutOfRange        = "par_out_of_range"
	FlagHandicapOutOfRange   = "handicap_out_of_range"
	FlagGIRInconsistent      = "gir_inconsistent"
	FlagTotalMismatch        = "total_mismatch"
	FlagDuplicateHole        = "duplicate_hole"
	FlagHoleOutOfSequence    = "hole_out_of_sequence"
	FlagCourseParMismatch    = "course_par_mismatch"
	FlagSlopeOutOfRange      = "slope_out_of_range"
	FlagRatingOutOfRange     = "course_rating_out_of_range"
	FlagYardageOutOfRange    = "yardage_out_of_range"
)

const (
	minCoursePar = 54
	maxCoursePar = 80
	minYardage   = 50
)

// Validate runs domain checks over an extraction and raises flags in place.
// It is safe to call more than once.
func Validate(r *Result) {
	if r == nil {
		return
	}

	seen := make(map[int]int, len(r.Holes))
	for i := range r.Holes {
		h := &r.Holes[i]
		if n, ok := h.HoleNumber.Get(); ok {
			if n != i+1 {
				h.HoleNumber.AddFlag(FlagHoleOutOfSequence)
			}
			if first, dup := seen[n]; dup {
				// Resolution uses the first entry; make the user look at it.
				r.Holes[first].Strokes.AddFlag(FlagDuplicateHole)
				h.HoleNumber.AddFlag(FlagDuplicateHole)
			} else {
				seen[n] = i
			}
		}
		validateHole(h)
	}

	validateTotals(r)
	validateCourse(r)
}

func validateHole(h *ExtractedHole) {
	strokes, hasStrokes := h.Strokes.Get()
	putts, hasPutts := h.Putts.Get()

	if hasStrokes {
		switch {
		case strokes < constants.MinStrokes || strokes > constants.MaxStrokes:
			h.Strokes.AddFlag(FlagStrokesOutOfRange)
		case strokes > constants.HighStrokes:
			h.Strokes.AddFlag(FlagStrokesUnusuallyHigh)
		}
	}

	if hasPutts {
		switch {
		case putts < 0 || putts > constants.MaxPutts:
			h.Putts.AddFlag(FlagPuttsOutOfRange)
		case putts > constants.HighPutts:
			h.Putts.AddFlag(FlagPuttsUnusuallyHigh)
		}
	}

	if hasStrokes && hasPutts && PuttsExceedStrokes(strokes, putts) {
		h.Putts.AddFlag(FlagPuttsExceedStrokes)
		h.Strokes.AddFlag(FlagPuttsExceedStrokes)
	}

	par, hasPar := h.Par.Get()
	if hasPar && (par < constants.MinPar || par > constants.MaxPar) {
		h.Par.AddFlag(FlagParOutOfRange)
	}

	if hc, ok := h.Handicap.Get(); ok && (hc < constants.MinHandicap || hc > constants.MaxHandicap) {
		h.Handicap.AddFlag(FlagHandicapOutOfRange)
	}

	if gir, ok := h.GreenInRegulation.Get(); ok && hasStrokes && hasPutts && hasPar && !GIRConsistent(gir, strokes, putts, par) {
		h.GreenInRegulation.AddFlag(FlagGIRInconsistent)
	}
}

// PuttsExceedStrokes reports a hole with more putts than strokes.
func PuttsExceedStrokes(strokes, putts int) bool {
	return putts > strokes
}

// GIRConsistent reports whether a green-in-regulation mark agrees with the
// hole's strokes, putts and par: the green was reached in par-2 or fewer.
func GIRConsistent(gir bool, strokes, putts, par int) bool {
	return gir == (strokes-putts <= par-2)
}

// CrossFieldFlags are the flags that depend on more than one field of a
// hole. They are recomputed whenever any of those fields change.
var CrossFieldFlags = []string{FlagPuttsExceedStrokes, FlagGIRInconsistent}

func validateTotals(r *Result) {
	var (
		total, front, back, putts     int
		nTotal, nFront, nBack, nPutts int
	)
	for i, h := range r.Holes {
		if s, ok := h.Strokes.Get(); ok {
			total += s
			nTotal++
			if i < constants.FrontNineLast {
				front += s
				nFront++
			} else {
				back += s
				nBack++
			}
		}
		if p, ok := h.Putts.Get(); ok {
			putts += p
			nPutts++
		}
	}

	check := func(a *Annotated[int], sum, n int) {
		if v, ok := a.Get(); ok && n > 0 && v != sum {
			a.AddFlag(FlagTotalMismatch)
		}
	}
	check(&r.Totals.TotalScore, total, nTotal)
	check(&r.Totals.FrontNineScore, front, nFront)
	check(&r.Totals.BackNineScore, back, nBack)
	check(&r.Totals.TotalPutts, putts, nPutts)

	f, okF := r.Totals.FrontNineScore.Get()
	b, okB := r.Totals.BackNineScore.Get()
	t, okT := r.Totals.TotalScore.Get()
	if okF && okB && okT && f+b != t {
		r.Totals.TotalScore.AddFlag(FlagTotalMismatch)
		r.Totals.FrontNineScore.AddFlag(FlagTotalMismatch)
		r.Totals.BackNineScore.AddFlag(FlagTotalMismatch)
	}
}

func validateCourse(r *Result) {
	if par, ok := r.Course.Par.Get(); ok {
		sum, n := 0, 0
		for _, h := range r.Holes {
			if p, ok := h.Par.Get(); ok {
				sum += p
				n++
			}
		}
		if n > 0 && sum != par {
			r.Course.Par.AddFlag(FlagCourseParMismatch)
		}
		if par < minCoursePar || par > maxCoursePar {
			r.Course.Par.AddFlag(FlagParOutOfRange)
		}
	}

	for i := range r.Tees {
		t := &r.Tees[i]
		if v, ok := t.SlopeRating.Get(); ok && (v < constants.MinSlopeRating || v > constants.MaxSlopeRating) {
			t.SlopeRating.AddFlag(FlagSlopeOutOfRange)
		}
		if v, ok := t.CourseRating.Get(); ok && (v < constants.MinCourseRating || v > constants.MaxCourseRating) {
			t.CourseRating.AddFlag(FlagRatingOutOfRange)
		}
		for j := range t.HoleYardages {
			y := &t.HoleYardages[j].Yardage
			if v, ok := y.Get(); ok && (v < minYardage || v > constants.MaxHoleYardage) {
				y.AddFlag(FlagYardageOutOfRange)
			}
		}
	}
}
