package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/internal/store/memory"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/field"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/repository"
	"github.com/agentstation/scorecard/pkg/resolve"
)

func scoredHole(n, par, strokes, putts int, fw, gir bool) extraction.ExtractedHole {
	return extraction.ExtractedHole{
		HoleNumber:        extraction.Read(n, 1),
		Par:               extraction.Read(par, 0.9),
		Strokes:           extraction.Read(strokes, 0.9),
		Putts:             extraction.Read(putts, 0.9),
		FairwayHit:        extraction.Read(fw, 0.9),
		GreenInRegulation: extraction.Read(gir, 0.9),
	}
}

func fullCard() *extraction.Result {
	r := &extraction.Result{
		Course: extraction.ExtractedCourse{
			Name:     extraction.Read("Muni Links", 0.9),
			Location: extraction.Read("Springfield", 0.8),
		},
	}
	for n := 1; n <= 18; n++ {
		r.Holes = append(r.Holes, scoredHole(n, 4, 5, 2, n%2 == 0, n%3 == 0))
	}
	return r
}

func TestBuildUnmatchedRound(t *testing.T) {
	res := resolve.Resolve(resolve.Inputs{Extracted: fullCard()})
	round := Build(res, "u1")

	assert.Equal(t, "u1", round.UserID)
	assert.Empty(t, round.CourseID)
	assert.Equal(t, "Muni Links", round.CourseNamePlayed)
	assert.Equal(t, "Springfield", round.CourseLocationPlayed)
	require.Len(t, round.HoleScores, 18)
	assert.Equal(t, 4, *round.HoleScores[0].ParPlayed)
	assert.Nil(t, round.HoleScores[0].Yardage)

	tot := round.Totals
	assert.Equal(t, 90, *tot.Strokes)
	assert.Equal(t, 36, *tot.Putts)
	assert.Equal(t, 18, *tot.ToPar)
	assert.Equal(t, 45, *tot.FrontNine)
	assert.Equal(t, 45, *tot.BackNine)
	assert.Equal(t, 18, tot.HolesPlayed)
	assert.Equal(t, 9, *tot.Fairways)
	assert.Equal(t, 6, *tot.GreensInRegulation)
}

func TestBuildMatchedRoundUsesCourseID(t *testing.T) {
	course := &golf.Course{ID: "muni", Name: "Muni Links", Holes: []golf.Hole{{Number: 1, Par: 3}}}
	res := resolve.Resolve(resolve.Inputs{Course: course, Extracted: fullCard()})
	round := Build(res, "")

	assert.Equal(t, "muni", round.CourseID)
	assert.Empty(t, round.CourseNamePlayed)
	assert.Equal(t, 3, *round.HoleScores[0].ParPlayed)
	assert.Equal(t, 17+2, *round.Totals.ToPar)
}

func TestTotalStrokesDelta(t *testing.T) {
	card := fullCard()
	base := Build(resolve.Resolve(resolve.Inputs{Extracted: card}), "")

	for _, delta := range []int{-3, -1, 1, 4} {
		edits := resolve.Edits{Holes: map[int]resolve.HoleEdits{7: {Strokes: field.Set(5 + delta)}}}
		changed := Build(resolve.Resolve(resolve.Inputs{Extracted: card, Edits: edits}), "")
		assert.Equal(t, *base.Totals.Strokes+delta, *changed.Totals.Strokes, "delta %d", delta)
		assert.Equal(t, *base.Totals.ToPar+delta, *changed.Totals.ToPar, "delta %d", delta)
	}
}

func TestTotalsSkipMissingValues(t *testing.T) {
	card := &extraction.Result{Holes: []extraction.ExtractedHole{
		{HoleNumber: extraction.Read(1, 1), Strokes: extraction.Read(4, 0.9)},
		{HoleNumber: extraction.Read(10, 1), Strokes: extraction.Blank[int](0.1), Par: extraction.Read(4, 0.9)},
	}}
	round := Build(resolve.Resolve(resolve.Inputs{Extracted: card}), "")

	assert.Equal(t, 4, *round.Totals.Strokes)
	assert.Equal(t, 1, round.Totals.HolesPlayed)
	assert.Nil(t, round.Totals.Putts)
	assert.Nil(t, round.Totals.ToPar)
	assert.Nil(t, round.Totals.BackNine)
	assert.Nil(t, round.Totals.Fairways)
}

func TestBuildNil(t *testing.T) {
	round := Build(nil, "u1")
	assert.Empty(t, round.HoleScores)
	assert.Nil(t, round.Totals.Strokes)
}

type recordingStore struct {
	repository.RoundStore
	saved *golf.Round
	err   error
}

func (s *recordingStore) SaveRound(_ context.Context, r *golf.Round) (*golf.Round, error) {
	s.saved = r
	if s.err != nil {
		return nil, s.err
	}
	out := r.Clone()
	out.ID = "r1"
	return out, nil
}

func TestConfirmPassesRoundVerbatim(t *testing.T) {
	round := Build(resolve.Resolve(resolve.Inputs{Extracted: fullCard()}), "u1")
	store := &recordingStore{}

	saved, err := Confirm(context.Background(), store, round)
	require.NoError(t, err)
	assert.Same(t, round, store.saved)
	assert.Equal(t, "r1", saved.ID)
	assert.Equal(t, round.Totals, saved.Totals)
}

func TestConfirmRejectsInvalidRound(t *testing.T) {
	round := &golf.Round{HoleScores: []golf.HoleScore{{HoleNumber: 1, Strokes: golf.IntPtr(2), Putts: golf.IntPtr(3)}}}
	store := &recordingStore{}

	_, err := Confirm(context.Background(), store, round)
	assert.True(t, errors.IsValidationError(err))
	assert.Nil(t, store.saved)
}

func TestConfirmStoreFailure(t *testing.T) {
	round := Build(resolve.Resolve(resolve.Inputs{Extracted: fullCard()}), "u1")
	_, err := Confirm(context.Background(), &recordingStore{err: assert.AnError}, round)
	require.Error(t, err)
	assert.True(t, errors.IsCollaboratorUnavailable(err))
}

func TestConfirmWithMemoryStore(t *testing.T) {
	store := memory.New()
	round := Build(resolve.Resolve(resolve.Inputs{Extracted: fullCard()}), "u1")

	saved, err := Confirm(context.Background(), store, round)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := store.GetRound(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, round.HoleScores, got.HoleScores)
	assert.Equal(t, round.Totals, got.Totals)
}
