// Package confidence scores resolved fields, holes and rounds.
//
// Scores depend on provenance, not on the value. Canonical values are fully
// trusted. User-supplied values start at full trust and extracted values at
// the extractor's own confidence; both lose a fixed penalty per validation
// flag. Only the cross-field checks can flag a user-supplied value. A hole is only as
// trustworthy as its weakest field; a round is the mean of its holes.
package confidence

import (
	"math"
	"slices"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/field"
	"github.com/agentstation/scorecard/pkg/resolve"
)

// FlagMissingValue marks strokes that no source could supply.
const FlagMissingValue = "missing_value"

// Level is a confidence bucket.
type Level string

// Levels.
const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Config holds the calibration constants.
type Config struct {
	HighThreshold   float64 `json:"high_threshold" yaml:"high_threshold"`
	MediumThreshold float64 `json:"medium_threshold" yaml:"medium_threshold"`
	FlagPenalty     float64 `json:"flag_penalty" yaml:"flag_penalty"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		HighThreshold:   constants.HighConfidenceThreshold,
		MediumThreshold: constants.MediumConfidenceThreshold,
		FlagPenalty:     constants.FlagPenalty,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HighThreshold <= 0 {
		c.HighThreshold = d.HighThreshold
	}
	if c.MediumThreshold <= 0 {
		c.MediumThreshold = d.MediumThreshold
	}
	if c.FlagPenalty < 0 {
		c.FlagPenalty = d.FlagPenalty
	}
	return c
}

// Level buckets a score.
func (c Config) Level(score float64) Level {
	c = c.withDefaults()
	switch {
	case score >= c.HighThreshold:
		return LevelHigh
	case score >= c.MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Final applies the flag penalty to a raw extractor confidence.
func (c Config) Final(raw float64, flags int) float64 {
	c = c.withDefaults()
	return round4(clamp(raw - float64(flags)*c.FlagPenalty))
}

// FieldConfidence is the score of one field.
type FieldConfidence struct {
	RawConfidence   float64            `json:"raw_confidence"`
	FinalConfidence float64            `json:"final_confidence"`
	Level           Level              `json:"level"`
	ValidationFlags []string           `json:"validation_flags"`
	Provenance      resolve.Provenance `json:"provenance,omitempty"`
	Source          resolve.Source     `json:"source,omitempty"`
}

// HoleConfidence is the score of one hole.
type HoleConfidence struct {
	HoleNumber int                               `json:"hole_number"`
	Fields     map[resolve.Field]FieldConfidence `json:"fields"`
	Overall    float64                           `json:"overall"`
	Level      Level                             `json:"level"`
	Counted    bool                              `json:"-"` // Has at least one field with a value
}

// RoundConfidence is the score of a round.
type RoundConfidence struct {
	Overall    float64          `json:"overall"`
	Level      Level            `json:"level"`
	HoleScores []HoleConfidence `json:"hole_scores"`
}

// Hole returns the confidence for hole n.
func (r *RoundConfidence) Hole(n int) (*HoleConfidence, bool) {
	for i := range r.HoleScores {
		if r.HoleScores[i].HoleNumber == n {
			return &r.HoleScores[i], true
		}
	}
	return nil, false
}

// ScoreField scores one resolved field. It returns false for fields that do
// not take part in scoring: any unset field other than strokes, and strokes
// the user deliberately cleared.
func ScoreField(o resolve.Outcome, cfg Config) (FieldConfidence, bool) {
	cfg = cfg.withDefaults()

	if o.State != field.Present {
		if o.Field != resolve.FieldStrokes || o.State == field.Cleared {
			return FieldConfidence{}, false
		}
		return FieldConfidence{
			FinalConfidence: 0,
			Level:           LevelLow,
			ValidationFlags: []string{FlagMissingValue},
		}, true
	}

	if o.Provenance == resolve.ProvenanceCanonical {
		return FieldConfidence{
			RawConfidence:   constants.CanonicalConfidence,
			FinalConfidence: constants.CanonicalConfidence,
			Level:           LevelHigh,
			ValidationFlags: []string{},
			Provenance:      o.Provenance,
			Source:          o.Source,
		}, true
	}

	raw := o.Confidence
	if o.Provenance == resolve.ProvenanceUserEdited {
		raw = constants.CanonicalConfidence
	}
	flags := slices.Clone(o.Flags)
	if flags == nil {
		flags = []string{}
	}
	final := cfg.Final(raw, len(flags))
	return FieldConfidence{
		RawConfidence:   raw,
		FinalConfidence: final,
		Level:           cfg.Level(final),
		ValidationFlags: flags,
		Provenance:      o.Provenance,
		Source:          o.Source,
	}, true
}

// ScoreHole scores every field of a hole and takes the minimum.
func ScoreHole(h *resolve.Hole, cfg Config) HoleConfidence {
	hc := HoleConfidence{
		HoleNumber: h.Number,
		Fields:     make(map[resolve.Field]FieldConfidence),
	}
	overall := math.Inf(1)
	for _, o := range h.Outcomes() {
		fc, ok := ScoreField(o, cfg)
		if !ok {
			continue
		}
		hc.Fields[o.Field] = fc
		overall = math.Min(overall, fc.FinalConfidence)
		if o.State == field.Present {
			hc.Counted = true
		}
	}
	if math.IsInf(overall, 1) {
		overall = 0
	}
	hc.Overall = overall
	hc.Level = cfg.Level(overall)
	return hc
}

// Aggregate scores a resolution. It is a pure function of its arguments.
func Aggregate(res *resolve.Resolution, cfg Config) RoundConfidence {
	cfg = cfg.withDefaults()
	rc := RoundConfidence{HoleScores: []HoleConfidence{}}
	if res == nil {
		rc.Level = LevelLow
		return rc
	}

	sum, n := 0.0, 0
	for i := range res.Holes {
		hc := ScoreHole(&res.Holes[i], cfg)
		rc.HoleScores = append(rc.HoleScores, hc)
		if hc.Counted {
			sum += hc.Overall
			n++
		}
	}
	if n > 0 {
		rc.Overall = round4(sum / float64(n))
	}
	rc.Level = cfg.Level(rc.Overall)
	return rc
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
