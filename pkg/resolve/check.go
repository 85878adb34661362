package resolve

import (
	"slices"

	"github.com/agentstation/scorecard/pkg/extraction"
)

// checkHole recomputes the cross-field flags of a resolved hole. Flags the
// card raised for the extracted pair are dropped first, so an edit on either
// side clears a conflict it fixes and raises one it creates, whatever the
// source of each value.
func checkHole(h *Hole) {
	h.Strokes.dropCrossField()
	h.Putts.dropCrossField()
	h.GreenInRegulation.dropCrossField()

	strokes, hasStrokes := h.Strokes.Value.Get()
	putts, hasPutts := h.Putts.Value.Get()
	if hasStrokes && hasPutts && extraction.PuttsExceedStrokes(strokes, putts) {
		h.Strokes.addFlag(extraction.FlagPuttsExceedStrokes)
		h.Putts.addFlag(extraction.FlagPuttsExceedStrokes)
	}

	par, hasPar := h.Par.Value.Get()
	gir, hasGIR := h.GreenInRegulation.Value.Get()
	if hasGIR && hasStrokes && hasPutts && hasPar && !extraction.GIRConsistent(gir, strokes, putts, par) {
		h.GreenInRegulation.addFlag(extraction.FlagGIRInconsistent)
	}
}

func (r *Resolved[T]) dropCrossField() {
	r.Flags = slices.DeleteFunc(r.Flags, func(f string) bool {
		return slices.Contains(extraction.CrossFieldFlags, f)
	})
	if len(r.Flags) == 0 {
		r.Flags = nil
	}
}

func (r *Resolved[T]) addFlag(flag string) {
	if !slices.Contains(r.Flags, flag) {
		r.Flags = append(r.Flags, flag)
	}
}

// HasFlag reports whether the field carries flag.
func (r Resolved[T]) HasFlag(flag string) bool {
	return slices.Contains(r.Flags, flag)
}
