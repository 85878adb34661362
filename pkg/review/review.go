// Package review picks the fields worth asking the user to confirm.
//
// Low-confidence fields are always surfaced. Medium confidence is surfaced
// only for strokes, which drive the score; putts, fairways and greens at
// medium are left alone.
package review

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/scorecard/pkg/confidence"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/resolve"
)

// Item is one field needing review.
type Item struct {
	ID              string           `json:"id"`
	HoleNumber      int              `json:"hole_number"`
	Field           resolve.Field    `json:"field"`
	FinalConfidence float64          `json:"final_confidence"`
	Level           confidence.Level `json:"level"`
	Flags           []string         `json:"flags,omitempty"`
}

// NeedsReview reports whether a field at the given level is surfaced.
func NeedsReview(f resolve.Field, level confidence.Level) bool {
	switch level {
	case confidence.LevelLow:
		return true
	case confidence.LevelMedium:
		return f == resolve.FieldStrokes
	default:
		return false
	}
}

// Items returns the fields needing review, by hole and then field order.
func Items(rc confidence.RoundConfidence) []Item {
	var items []Item
	for _, hc := range rc.HoleScores {
		for f, fc := range hc.Fields {
			if !NeedsReview(f, fc.Level) {
				continue
			}
			items = append(items, Item{
				ID:              FieldID(hc.HoleNumber, f),
				HoleNumber:      hc.HoleNumber,
				Field:           f,
				FinalConfidence: fc.FinalConfidence,
				Level:           fc.Level,
				Flags:           fc.ValidationFlags,
			})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].HoleNumber != items[j].HoleNumber {
			return items[i].HoleNumber < items[j].HoleNumber
		}
		return items[i].Field.Order() < items[j].Field.Order()
	})
	return items
}

// Flag returns the identifiers of the fields needing review.
func Flag(rc confidence.RoundConfidence) []string {
	items := Items(rc)
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// FieldID formats a field identifier as "hole_<n>.<field>".
func FieldID(hole int, f resolve.Field) string {
	return fmt.Sprintf("hole_%d.%s", hole, f)
}

// ParseFieldID parses an identifier produced by FieldID.
func ParseFieldID(id string) (int, resolve.Field, error) {
	hole, f, ok := strings.Cut(strings.TrimPrefix(id, "hole_"), ".")
	if !ok || !strings.HasPrefix(id, "hole_") {
		return 0, "", errors.NewValidationError("field_id", id, "want hole_<n>.<field>")
	}
	n, err := strconv.Atoi(hole)
	if err != nil {
		return 0, "", errors.NewValidationError("field_id", id, "hole number is not an integer")
	}
	field := resolve.Field(f)
	if field.Order() == len(resolve.Fields) {
		return 0, "", errors.NewValidationError("field_id", id, fmt.Sprintf("unknown field %q", f))
	}
	return n, field, nil
}
