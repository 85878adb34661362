package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/field"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/resolve"
)

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		score float64
		want  Level
	}{
		{1.0, LevelHigh},
		{0.85, LevelHigh},
		{0.8499, LevelMedium},
		{0.60, LevelMedium},
		{0.5999, LevelLow},
		{0, LevelLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Level(tt.score), "score %v", tt.score)
	}
}

func TestFinalClampsAndPenalizes(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.9, cfg.Final(0.9, 0))
	assert.Equal(t, 0.6, cfg.Final(0.9, 1))
	assert.Equal(t, 0.0, cfg.Final(0.5, 2))
	assert.Equal(t, 1.0, cfg.Final(1.4, 0))

	custom := Config{FlagPenalty: 0.1}
	assert.Equal(t, 0.8, custom.Final(0.9, 1))
}

func TestScoreFieldByProvenance(t *testing.T) {
	cfg := DefaultConfig()

	canonical, ok := ScoreField(resolve.Outcome{
		Field:      resolve.FieldPar,
		State:      field.Present,
		Provenance: resolve.ProvenanceCanonical,
		Confidence: 0.2,
		Flags:      []string{extraction.FlagParOutOfRange},
	}, cfg)
	require.True(t, ok)
	assert.Equal(t, 1.0, canonical.FinalConfidence)
	assert.Equal(t, LevelHigh, canonical.Level)
	assert.Empty(t, canonical.ValidationFlags)

	edited, ok := ScoreField(resolve.Outcome{Field: resolve.FieldStrokes, State: field.Present, Provenance: resolve.ProvenanceUserEdited}, cfg)
	require.True(t, ok)
	assert.Equal(t, 1.0, edited.FinalConfidence)

	conflicting, ok := ScoreField(resolve.Outcome{
		Field:      resolve.FieldStrokes,
		State:      field.Present,
		Provenance: resolve.ProvenanceUserEdited,
		Flags:      []string{extraction.FlagPuttsExceedStrokes},
	}, cfg)
	require.True(t, ok)
	assert.Equal(t, 0.7, conflicting.FinalConfidence)
	assert.Equal(t, LevelMedium, conflicting.Level)
	assert.Equal(t, []string{extraction.FlagPuttsExceedStrokes}, conflicting.ValidationFlags)

	ext, ok := ScoreField(resolve.Outcome{
		Field:      resolve.FieldPutts,
		State:      field.Present,
		Provenance: resolve.ProvenanceExtracted,
		Confidence: 0.95,
		Flags:      []string{extraction.FlagPuttsExceedStrokes},
	}, cfg)
	require.True(t, ok)
	assert.Equal(t, 0.65, ext.FinalConfidence)
	assert.Equal(t, LevelMedium, ext.Level)
	assert.Equal(t, 0.95, ext.RawConfidence)
}

func TestScoreFieldUnset(t *testing.T) {
	cfg := DefaultConfig()

	_, ok := ScoreField(resolve.Outcome{Field: resolve.FieldPutts, State: field.Unset}, cfg)
	assert.False(t, ok)

	missing, ok := ScoreField(resolve.Outcome{Field: resolve.FieldStrokes, State: field.Unset}, cfg)
	require.True(t, ok)
	assert.Equal(t, 0.0, missing.FinalConfidence)
	assert.Equal(t, []string{FlagMissingValue}, missing.ValidationFlags)

	_, ok = ScoreField(resolve.Outcome{Field: resolve.FieldStrokes, State: field.Cleared, Provenance: resolve.ProvenanceUserEdited}, cfg)
	assert.False(t, ok)
}

func threeHoleResolution() *resolve.Resolution {
	course := &golf.Course{
		ID:    "pebble",
		Holes: []golf.Hole{{Number: 1, Par: 4, Handicap: 6}, {Number: 2, Par: 5, Handicap: 10}, {Number: 3, Par: 4, Handicap: 2}},
		Tees:  []golf.Tee{{Color: "blue", HoleYardages: map[int]int{1: 380, 2: 502, 3: 390}}},
	}
	ext := &extraction.Result{Holes: []extraction.ExtractedHole{
		{HoleNumber: extraction.Read(1, 1), Par: extraction.Read(5, 0.4), Strokes: extraction.Read(5, 0.92), Putts: extraction.Read(2, 0.7)},
		{HoleNumber: extraction.Read(2, 1), Strokes: extraction.Read(6, 0.7), Putts: extraction.Read(2, 0.9)},
		{HoleNumber: extraction.Read(3, 1), Strokes: extraction.Blank[int](0.2), Putts: extraction.Read(2, 0.9)},
	}}
	return resolve.Resolve(resolve.Inputs{Course: course, TeeColor: "Blue", Extracted: ext})
}

func TestHoleOverallIsMinimumOfFields(t *testing.T) {
	rc := Aggregate(threeHoleResolution(), DefaultConfig())
	require.Len(t, rc.HoleScores, 3)

	for _, hc := range rc.HoleScores {
		lowest := 1.0
		for _, fc := range hc.Fields {
			if fc.FinalConfidence < lowest {
				lowest = fc.FinalConfidence
			}
		}
		assert.Equal(t, lowest, hc.Overall, "hole %d", hc.HoleNumber)
	}

	h1, _ := rc.Hole(1)
	assert.Equal(t, 0.7, h1.Overall)
	assert.Equal(t, 1.0, h1.Fields[resolve.FieldPar].FinalConfidence, "canonical par ignores the extraction signal")
	assert.Equal(t, 1.0, h1.Fields[resolve.FieldYardage].FinalConfidence)
	assert.Equal(t, 0.92, h1.Fields[resolve.FieldStrokes].FinalConfidence)

	h3, _ := rc.Hole(3)
	assert.Equal(t, 0.0, h3.Overall)
	assert.Equal(t, []string{FlagMissingValue}, h3.Fields[resolve.FieldStrokes].ValidationFlags)
}

func TestRoundOverallIsMeanOfCountedHoles(t *testing.T) {
	rc := Aggregate(threeHoleResolution(), DefaultConfig())
	assert.InDelta(t, (0.7+0.7+0.0)/3, rc.Overall, 1e-4)
	assert.Equal(t, LevelLow, rc.Level)

	res := &resolve.Resolution{Holes: []resolve.Hole{{Number: 4}}}
	res.Holes[0].Strokes.Value = field.Clear[int]()
	res.Holes[0].Strokes.Provenance = resolve.ProvenanceUserEdited
	empty := Aggregate(res, DefaultConfig())
	assert.Equal(t, 0.0, empty.Overall)
	assert.Equal(t, LevelLow, empty.Level)
	assert.False(t, empty.HoleScores[0].Counted)
}

func TestAggregateIsPure(t *testing.T) {
	res := threeHoleResolution()
	a := Aggregate(res, DefaultConfig())
	b := Aggregate(res, DefaultConfig())
	assert.Equal(t, a, b)
	assert.Equal(t, Aggregate(nil, DefaultConfig()).Level, LevelLow)
}
