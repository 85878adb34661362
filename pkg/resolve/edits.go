package resolve

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/field"
)

// HoleEdits are a user's corrections to one hole. An Unset field was never
// touched; a Cleared field was deliberately emptied and stays empty.
type HoleEdits struct {
	Strokes           field.Value[int]  `json:"strokes,omitzero"`
	Putts             field.Value[int]  `json:"putts,omitzero"`
	FairwayHit        field.Value[bool] `json:"fairway_hit,omitzero"`
	GreenInRegulation field.Value[bool] `json:"green_in_regulation,omitzero"`
}

// Empty reports whether no field was touched.
func (h HoleEdits) Empty() bool {
	return !h.Strokes.Provided() && !h.Putts.Provided() &&
		!h.FairwayHit.Provided() && !h.GreenInRegulation.Provided()
}

// Merge overlays next on h field by field.
func (h HoleEdits) Merge(next HoleEdits) HoleEdits {
	if next.Strokes.Provided() {
		h.Strokes = next.Strokes
	}
	if next.Putts.Provided() {
		h.Putts = next.Putts
	}
	if next.FairwayHit.Provided() {
		h.FairwayHit = next.FairwayHit
	}
	if next.GreenInRegulation.Provided() {
		h.GreenInRegulation = next.GreenInRegulation
	}
	return h
}

// Edits are all of a user's corrections to a scan, keyed by hole number.
type Edits struct {
	Holes  map[int]HoleEdits   `json:"holes,omitempty"`
	TeeBox field.Value[string] `json:"tee_box,omitzero"`
	Date   field.Value[string] `json:"date,omitzero"` // YYYY-MM-DD
	Notes  field.Value[string] `json:"notes,omitzero"`
}

// Hole returns the edits for a hole.
func (e Edits) Hole(n int) HoleEdits {
	return e.Holes[n]
}

// Merge overlays next on e. Fields next leaves Unset keep their value in e.
func (e Edits) Merge(next Edits) Edits {
	out := Edits{TeeBox: e.TeeBox, Date: e.Date, Notes: e.Notes}
	if len(e.Holes) > 0 || len(next.Holes) > 0 {
		out.Holes = make(map[int]HoleEdits, len(e.Holes)+len(next.Holes))
		for n, h := range e.Holes {
			out.Holes[n] = h
		}
		for n, h := range next.Holes {
			out.Holes[n] = out.Holes[n].Merge(h)
		}
	}
	if next.TeeBox.Provided() {
		out.TeeBox = next.TeeBox
	}
	if next.Date.Provided() {
		out.Date = next.Date
	}
	if next.Notes.Provided() {
		out.Notes = next.Notes
	}
	return out
}

// Validate rejects edits no scorecard could hold, reporting the lowest bad
// hole first. Cross-field problems such as putts exceeding strokes are
// flagged during resolution and rejected when the round is confirmed.
func (e Edits) Validate() error {
	for _, n := range slices.Sorted(maps.Keys(e.Holes)) {
		h := e.Holes[n]
		if n < constants.MinHoleNumber || n > constants.MaxHoleNumber {
			return errors.NewValidationError("holes", n, fmt.Sprintf("hole %d must be 1-18", n))
		}
		if v, ok := h.Strokes.Get(); ok && (v < constants.MinStrokes || v > constants.MaxStrokes) {
			return errors.NewValidationError(fmt.Sprintf("hole_%d.strokes", n), v, "strokes must be 1-15")
		}
		if v, ok := h.Putts.Get(); ok && (v < 0 || v > constants.MaxPutts) {
			return errors.NewValidationError(fmt.Sprintf("hole_%d.putts", n), v, "putts must be 0-10")
		}
	}
	if d, ok := e.Date.Get(); ok {
		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(d)); err != nil {
			return errors.NewValidationError("date", d, "date must be YYYY-MM-DD")
		}
	}
	return nil
}
