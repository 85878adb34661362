// Package resolve merges canonical course data, extracted card data and user
// edits into one value per field, recording which source won.
//
// Every field has a fixed precedence chain (see Chain). Resolution is a pure
// function of its inputs and never fails: a field with no source is unset.
package resolve

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/field"
	"github.com/agentstation/scorecard/pkg/golf"
)

// Resolved is the winning value of one field and where it came from.
type Resolved[T any] struct {
	Value      field.Value[T] `json:"value"`
	Provenance Provenance     `json:"provenance,omitempty"`
	Source     Source         `json:"source,omitempty"`
	Step       int            `json:"step"`                 // Index of Source in the field's chain, -1 when unset
	Confidence float64        `json:"confidence,omitempty"` // Extractor confidence, extracted values only
	Flags      []string       `json:"flags,omitempty"`      // Validation flags; cross-field flags apply to any source
}

func unresolved[T any]() Resolved[T] {
	return Resolved[T]{Step: -1}
}

// Outcome is a type-erased view of a Resolved field.
type Outcome struct {
	Field      Field
	State      field.State
	Provenance Provenance
	Source     Source
	Confidence float64
	Flags      []string
}

func (r Resolved[T]) outcome(f Field) Outcome {
	return Outcome{
		Field:      f,
		State:      r.Value.State(),
		Provenance: r.Provenance,
		Source:     r.Source,
		Confidence: r.Confidence,
		Flags:      r.Flags,
	}
}

// Hole is the resolution of one hole.
type Hole struct {
	Number            int            `json:"hole_number"`
	Strokes           Resolved[int]  `json:"strokes"`
	Putts             Resolved[int]  `json:"putts"`
	FairwayHit        Resolved[bool] `json:"fairway_hit"`
	GreenInRegulation Resolved[bool] `json:"green_in_regulation"`
	Par               Resolved[int]  `json:"par"`
	Handicap          Resolved[int]  `json:"handicap"`
	Yardage           Resolved[int]  `json:"yardage"`
}

// Outcomes returns the hole's fields in review order.
func (h *Hole) Outcomes() []Outcome {
	return []Outcome{
		h.Strokes.outcome(FieldStrokes),
		h.Putts.outcome(FieldPutts),
		h.FairwayHit.outcome(FieldFairwayHit),
		h.GreenInRegulation.outcome(FieldGreenInRegulation),
		h.Par.outcome(FieldPar),
		h.Handicap.outcome(FieldHandicap),
		h.Yardage.outcome(FieldYardage),
	}
}

// Inputs are everything resolution reads.
type Inputs struct {
	Course    *golf.Course       // Matched canonical course, nil when unmatched
	TeeColor  string             // Tee the round was played from, as requested
	UserTee   *golf.UserTee      // The user's saved tee for this course and color
	Extracted *extraction.Result // Card data, already validated
	Edits     Edits
}

// Resolution is the resolved round.
type Resolution struct {
	Holes          []Hole       `json:"holes"`
	TeeBox         string       `json:"tee_box,omitempty"`
	Date           *time.Time   `json:"date,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	CourseName     string       `json:"course_name,omitempty"`     // As read from the card
	CourseLocation string       `json:"course_location,omitempty"` // As read from the card
	Course         *golf.Course `json:"-"`
}

// Hole returns the resolution for hole n.
func (r *Resolution) Hole(n int) (*Hole, bool) {
	for i := range r.Holes {
		if r.Holes[i].Number == n {
			return &r.Holes[i], true
		}
	}
	return nil, false
}

// Resolve resolves every field of every hole in ascending hole order.
func Resolve(in Inputs) *Resolution {
	res := &Resolution{Course: in.Course}
	res.TeeBox = TeeBox(in)

	if in.Extracted != nil {
		res.CourseName, _ = in.Extracted.Course.Name.Get()
		res.CourseLocation, _ = in.Extracted.Course.Location.Get()
	}
	res.Date = date(in)
	res.Notes = notes(in)

	var userTee *golf.UserTee
	if in.UserTee != nil && in.UserTee.Matches(res.TeeBox) {
		userTee = in.UserTee
	}
	var canonicalTee *golf.Tee
	if in.Course != nil {
		canonicalTee, _ = in.Course.Tee(res.TeeBox)
	}

	for _, n := range holeNumbers(in) {
		hi := holeInputs{
			number:       n,
			course:       in.Course,
			canonicalTee: canonicalTee,
			userTee:      userTee,
			edits:        in.Edits.Hole(n),
		}
		if in.Extracted != nil {
			hi.extracted, _ = in.Extracted.Hole(n)
		}
		h := Hole{
			Number:            n,
			Strokes:           resolveInt(FieldStrokes, &hi),
			Putts:             resolveInt(FieldPutts, &hi),
			FairwayHit:        resolveBool(FieldFairwayHit, &hi),
			GreenInRegulation: resolveBool(FieldGreenInRegulation, &hi),
			Par:               resolveInt(FieldPar, &hi),
			Handicap:          resolveInt(FieldHandicap, &hi),
			Yardage:           resolveInt(FieldYardage, &hi),
		}
		checkHole(&h)
		res.Holes = append(res.Holes, h)
	}
	return res
}

type holeInputs struct {
	number       int
	course       *golf.Course
	canonicalTee *golf.Tee
	userTee      *golf.UserTee
	extracted    *extraction.ExtractedHole
	edits        HoleEdits
}

func resolveInt(f Field, hi *holeInputs) Resolved[int] {
	for step, src := range chains[f] {
		if r, ok := hi.intFrom(src, f); ok {
			r.Provenance = src.Provenance()
			r.Source = src
			r.Step = step
			return r
		}
	}
	return unresolved[int]()
}

func resolveBool(f Field, hi *holeInputs) Resolved[bool] {
	for step, src := range chains[f] {
		if r, ok := hi.boolFrom(src, f); ok {
			r.Provenance = src.Provenance()
			r.Source = src
			r.Step = step
			return r
		}
	}
	return unresolved[bool]()
}

func (hi *holeInputs) intFrom(src Source, f Field) (Resolved[int], bool) {
	switch src {
	case SourceUserEdit:
		var v field.Value[int]
		switch f {
		case FieldStrokes:
			v = hi.edits.Strokes
		case FieldPutts:
			v = hi.edits.Putts
		}
		// An explicit clear wins too; it must not fall through to the card.
		return Resolved[int]{Value: v}, v.Provided()

	case SourceExtracted:
		if hi.extracted == nil {
			return Resolved[int]{}, false
		}
		var a extraction.Annotated[int]
		switch f {
		case FieldStrokes:
			a = hi.extracted.Strokes
		case FieldPutts:
			a = hi.extracted.Putts
		case FieldPar:
			a = hi.extracted.Par
		case FieldHandicap:
			a = hi.extracted.Handicap
		}
		return fromAnnotated(a)

	case SourceCanonicalHole:
		if hi.course == nil {
			return Resolved[int]{}, false
		}
		h, ok := hi.course.Hole(hi.number)
		if !ok {
			return Resolved[int]{}, false
		}
		v := 0
		switch f {
		case FieldPar:
			v = h.Par
		case FieldHandicap:
			v = h.Handicap
		}
		if v == 0 {
			return Resolved[int]{}, false
		}
		return Resolved[int]{Value: field.Set(v), Confidence: constants.CanonicalConfidence}, true

	case SourceCanonicalTee:
		if hi.canonicalTee == nil {
			return Resolved[int]{}, false
		}
		y, ok := hi.canonicalTee.Yardage(hi.number)
		return Resolved[int]{Value: field.Set(y), Confidence: constants.CanonicalConfidence}, ok

	case SourceUserTee:
		if hi.userTee == nil {
			return Resolved[int]{}, false
		}
		y, ok := hi.userTee.HoleYardages[hi.number]
		return Resolved[int]{Value: field.Set(y), Confidence: constants.CanonicalConfidence}, ok
	}
	return Resolved[int]{}, false
}

func (hi *holeInputs) boolFrom(src Source, f Field) (Resolved[bool], bool) {
	switch src {
	case SourceUserEdit:
		var v field.Value[bool]
		switch f {
		case FieldFairwayHit:
			v = hi.edits.FairwayHit
		case FieldGreenInRegulation:
			v = hi.edits.GreenInRegulation
		}
		return Resolved[bool]{Value: v}, v.Provided()

	case SourceExtracted:
		if hi.extracted == nil {
			return Resolved[bool]{}, false
		}
		var a extraction.Annotated[bool]
		switch f {
		case FieldFairwayHit:
			a = hi.extracted.FairwayHit
		case FieldGreenInRegulation:
			a = hi.extracted.GreenInRegulation
		}
		return fromAnnotated(a)
	}
	return Resolved[bool]{}, false
}

// fromAnnotated yields an extracted value only when one was read. A blank
// scan is null and falls through the chain.
func fromAnnotated[T any](a extraction.Annotated[T]) (Resolved[T], bool) {
	v, ok := a.Get()
	if !ok {
		return Resolved[T]{}, false
	}
	return Resolved[T]{
		Value:      field.Set(v),
		Confidence: a.Confidence,
		Flags:      slices.Clone(a.Flags),
	}, true
}

// holeNumbers is the union of extracted and edited holes. A card with no
// hole entries at all falls back to the canonical course's holes.
func holeNumbers(in Inputs) []int {
	seen := make(map[int]bool)
	add := func(n int) {
		if n >= constants.MinHoleNumber && n <= constants.MaxHoleNumber {
			seen[n] = true
		}
	}
	if in.Extracted != nil {
		for _, n := range in.Extracted.HoleNumbers() {
			add(n)
		}
	}
	for n, e := range in.Edits.Holes {
		if !e.Empty() {
			add(n)
		}
	}
	if len(seen) == 0 && in.Course != nil {
		for _, h := range in.Course.Holes {
			add(h.Number)
		}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// TeeBox returns the tee the round resolves to: the user's edit, then the
// requested tee, then the only tee printed on the card.
func TeeBox(in Inputs) string {
	if in.Edits.TeeBox.Provided() {
		v, _ := in.Edits.TeeBox.Get()
		return strings.TrimSpace(v)
	}
	if t := strings.TrimSpace(in.TeeColor); t != "" {
		return t
	}
	if in.Extracted != nil {
		if colors := in.Extracted.TeeColors(); len(colors) == 1 {
			return strings.TrimSpace(colors[0])
		}
	}
	return ""
}

func date(in Inputs) *time.Time {
	if in.Edits.Date.Provided() {
		s, ok := in.Edits.Date.Get()
		if !ok {
			return nil
		}
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
		if err != nil {
			return nil
		}
		return &t
	}
	if t, ok := in.Extracted.ParsedDate(); ok {
		return &t
	}
	return nil
}

func notes(in Inputs) string {
	if in.Edits.Notes.Provided() {
		v, _ := in.Edits.Notes.Get()
		return v
	}
	if in.Extracted != nil {
		v, _ := in.Extracted.Notes.Get()
		return v
	}
	return ""
}
