package extraction

import (
	"sort"

	"github.com/agentstation/scorecard/pkg/field"
)

// Annotated is one extracted value with the extractor's confidence in it
// and any validation flags raised against it.
//
// A JSON "value": null decodes as Cleared (scanned as blank); a missing
// value key leaves it Unset (not attempted).
type Annotated[T any] struct {
	Value      field.Value[T] `json:"value"`
	Confidence float64        `json:"confidence"`
	Flags      []string       `json:"flags,omitempty"`
}

// Read returns an annotated value that was read from the card.
func Read[T any](v T, confidence float64) Annotated[T] {
	return Annotated[T]{Value: field.Set(v), Confidence: confidence}
}

// Blank returns an annotated value that was scanned but empty.
func Blank[T any](confidence float64) Annotated[T] {
	return Annotated[T]{Value: field.Clear[T](), Confidence: confidence}
}

// Get returns the value and whether one was read.
func (a Annotated[T]) Get() (T, bool) {
	return a.Value.Get()
}

// Ptr returns the value as a pointer, nil when none was read.
func (a Annotated[T]) Ptr() *T {
	return a.Value.Ptr()
}

// HasFlag reports whether flag has been raised.
func (a Annotated[T]) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag raises flag once, keeping flags sorted.
func (a *Annotated[T]) AddFlag(flag string) {
	if a.HasFlag(flag) {
		return
	}
	a.Flags = append(a.Flags, flag)
	sort.Strings(a.Flags)
}
