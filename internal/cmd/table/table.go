// Package table converts scorecard values into rows for CLI table output.
package table

import (
	"fmt"
	"strconv"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Empty is printed for a value that is not known.
const Empty = "-"

// IntCell formats an optional integer.
func IntCell(v *int) string {
	if v == nil {
		return Empty
	}
	return strconv.Itoa(*v)
}

// BoolCell formats an optional yes/no statistic.
func BoolCell(v *bool) string {
	switch {
	case v == nil:
		return Empty
	case *v:
		return "yes"
	default:
		return "no"
	}
}

// ToParCell formats a score relative to par as E, +n or -n.
func ToParCell(v *int) string {
	switch {
	case v == nil:
		return Empty
	case *v == 0:
		return "E"
	case *v > 0:
		return fmt.Sprintf("+%d", *v)
	default:
		return strconv.Itoa(*v)
	}
}

// Score formats a 0-1 score with two decimals.
func Score(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
