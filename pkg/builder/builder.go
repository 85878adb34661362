// Package builder assembles the round record from a resolution and computes
// its totals. Totals are computed here and nowhere else, so what the user
// reviews and what is stored cannot drift apart.
package builder

import (
	"context"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/repository"
	"github.com/agentstation/scorecard/pkg/resolve"
)

// Build turns a resolution into a round owned by userID.
func Build(res *resolve.Resolution, userID string) *golf.Round {
	round := &golf.Round{UserID: userID, HoleScores: []golf.HoleScore{}}
	if res == nil {
		round.Totals = totals(round.HoleScores)
		return round
	}

	if res.Course != nil && res.Course.ID != "" {
		round.CourseID = res.Course.ID
	} else {
		round.CourseNamePlayed = res.CourseName
		round.CourseLocationPlayed = res.CourseLocation
	}
	round.TeeBox = res.TeeBox
	if res.Date != nil {
		d := *res.Date
		round.Date = &d
	}
	round.Notes = res.Notes

	for _, h := range res.Holes {
		round.HoleScores = append(round.HoleScores, golf.HoleScore{
			HoleNumber:        h.Number,
			Strokes:           h.Strokes.Value.Ptr(),
			Putts:             h.Putts.Value.Ptr(),
			ParPlayed:         h.Par.Value.Ptr(),
			HandicapPlayed:    h.Handicap.Value.Ptr(),
			Yardage:           h.Yardage.Value.Ptr(),
			FairwayHit:        h.FairwayHit.Value.Ptr(),
			GreenInRegulation: h.GreenInRegulation.Value.Ptr(),
		})
	}
	round.SortHoleScores()
	round.Totals = totals(round.HoleScores)
	return round
}

type counter struct {
	sum int
	n   int
}

func (c *counter) add(v int) {
	c.sum += v
	c.n++
}

func (c counter) ptr() *int {
	if c.n == 0 {
		return nil
	}
	v := c.sum
	return &v
}

func totals(scores []golf.HoleScore) golf.Totals {
	var strokes, putts, toPar, front, back, fairways, greens counter
	for _, s := range scores {
		if s.Strokes != nil {
			strokes.add(*s.Strokes)
			if s.HoleNumber <= constants.FrontNineLast {
				front.add(*s.Strokes)
			} else {
				back.add(*s.Strokes)
			}
		}
		if s.Putts != nil {
			putts.add(*s.Putts)
		}
		if rel, ok := s.ToPar(); ok {
			toPar.add(rel)
		}
		if s.FairwayHit != nil {
			fairways.add(boolInt(*s.FairwayHit))
		}
		if s.GreenInRegulation != nil {
			greens.add(boolInt(*s.GreenInRegulation))
		}
	}
	return golf.Totals{
		Strokes:            strokes.ptr(),
		Putts:              putts.ptr(),
		ToPar:              toPar.ptr(),
		FrontNine:          front.ptr(),
		BackNine:           back.ptr(),
		HolesPlayed:        strokes.n,
		Fairways:           fairways.ptr(),
		GreensInRegulation: greens.ptr(),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Confirm validates the round and hands it unchanged to the store.
func Confirm(ctx context.Context, store repository.RoundStore, round *golf.Round) (*golf.Round, error) {
	if round == nil {
		return nil, errors.NewValidationError("round", nil, "round is required")
	}
	if err := round.Validate(); err != nil {
		return nil, err
	}
	saved, err := store.SaveRound(ctx, round)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("Failed to save round")
		return nil, errors.WrapCollaborator("round_store", "save", err)
	}
	return saved, nil
}
