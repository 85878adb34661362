package resolve

// Field names a per-hole field.
type Field string

// Per-hole fields, in review order.
const (
	FieldStrokes           Field = "strokes"
	FieldPutts             Field = "putts"
	FieldFairwayHit        Field = "fairway_hit"
	FieldGreenInRegulation Field = "green_in_regulation"
	FieldPar               Field = "par"
	FieldHandicap          Field = "handicap"
	FieldYardage           Field = "yardage"
)

// Fields lists every per-hole field in review order.
var Fields = []Field{
	FieldStrokes,
	FieldPutts,
	FieldFairwayHit,
	FieldGreenInRegulation,
	FieldPar,
	FieldHandicap,
	FieldYardage,
}

// Order returns the field's position in Fields, or len(Fields) if unknown.
func (f Field) Order() int {
	for i, x := range Fields {
		if x == f {
			return i
		}
	}
	return len(Fields)
}

// Provenance is the kind of source that won a field.
type Provenance string

// Provenances. The empty provenance means the field resolved to unset.
const (
	ProvenanceNone       Provenance = ""
	ProvenanceCanonical  Provenance = "canonical"
	ProvenanceExtracted  Provenance = "extracted"
	ProvenanceUserEdited Provenance = "user_edited"
)

// Source is one step of a precedence chain.
type Source string

// Sources.
const (
	SourceCanonicalHole Source = "canonical_hole"
	SourceCanonicalTee  Source = "canonical_tee"
	SourceUserTee       Source = "user_tee"
	SourceUserEdit      Source = "user_edit"
	SourceExtracted     Source = "extracted"
)

// Provenance returns the provenance a value from this source carries.
// A user's saved tee is user-owned data and counts as user_edited.
func (s Source) Provenance() Provenance {
	switch s {
	case SourceCanonicalHole, SourceCanonicalTee:
		return ProvenanceCanonical
	case SourceUserTee, SourceUserEdit:
		return ProvenanceUserEdited
	case SourceExtracted:
		return ProvenanceExtracted
	default:
		return ProvenanceNone
	}
}

// chains is the precedence table. The first source yielding a value wins;
// when none does the field is unset. Yardage is never read from the card.
var chains = map[Field][]Source{
	FieldPar:               {SourceCanonicalHole, SourceExtracted},
	FieldHandicap:          {SourceCanonicalHole, SourceExtracted},
	FieldYardage:           {SourceCanonicalTee, SourceUserTee},
	FieldStrokes:           {SourceUserEdit, SourceExtracted},
	FieldPutts:             {SourceUserEdit, SourceExtracted},
	FieldFairwayHit:        {SourceUserEdit, SourceExtracted},
	FieldGreenInRegulation: {SourceUserEdit, SourceExtracted},
}

// Chain returns a copy of the precedence order for a field.
func Chain(f Field) []Source {
	c := chains[f]
	out := make([]Source, len(c))
	copy(out, c)
	return out
}
