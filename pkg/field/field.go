// Package field provides a three-state optional value used wherever "never
// touched" and "explicitly cleared" must stay distinguishable.
//
// A Value is Unset by default. JSON decoding maps an absent key to Unset
// (the zero value is left alone), a literal null to Cleared, and anything
// else to Set. Encoding writes Cleared as null and, combined with the
// `omitzero` struct tag, drops Unset values entirely.
package field

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// State is the presence state of a Value.
type State uint8

const (
	// Unset means the value was never provided.
	Unset State = iota
	// Cleared means the value was explicitly provided as empty.
	Cleared
	// Present means the value holds data.
	Present
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unset:
		return "unset"
	case Cleared:
		return "cleared"
	case Present:
		return "set"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Value is a three-state optional.
type Value[T any] struct {
	state State
	v     T
}

// Set returns a Value holding v.
func Set[T any](v T) Value[T] {
	return Value[T]{state: Present, v: v}
}

// Clear returns an explicitly cleared Value.
func Clear[T any]() Value[T] {
	return Value[T]{state: Cleared}
}

// FromPtr returns Set(*p) for a non-nil pointer and an Unset value otherwise.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Value[T]{}
	}
	return Set(*p)
}

// State returns the presence state.
func (v Value[T]) State() State {
	return v.state
}

// IsSet reports whether the value holds data.
func (v Value[T]) IsSet() bool {
	return v.state == Present
}

// IsCleared reports whether the value was explicitly cleared.
func (v Value[T]) IsCleared() bool {
	return v.state == Cleared
}

// IsZero reports whether the value is Unset. It lets `omitzero` drop untouched fields.
func (v Value[T]) IsZero() bool {
	return v.state == Unset
}

// Provided reports whether the value was given at all, cleared or set.
func (v Value[T]) Provided() bool {
	return v.state != Unset
}

// Get returns the held value and whether it is set.
func (v Value[T]) Get() (T, bool) {
	return v.v, v.state == Present
}

// Ptr returns a pointer to a copy of the held value, or nil when not set.
func (v Value[T]) Ptr() *T {
	if v.state != Present {
		return nil
	}
	out := v.v
	return &out
}

// String renders the value for logs and tables.
func (v Value[T]) String() string {
	switch v.state {
	case Present:
		return fmt.Sprint(v.v)
	case Cleared:
		return "<cleared>"
	default:
		return "<unset>"
	}
}

// MarshalJSON writes the held value, or null when not set.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.state != Present {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON decodes null as Cleared and anything else as Set.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Clear[T]()
		return nil
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*v = Set(out)
	return nil
}
