package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/repository"
)

func seeded() *Store {
	return New(WithCourses(
		golf.Course{ID: "pebble", Name: "Pebble Beach Golf Links", Location: "Pebble Beach, CA",
			Holes: []golf.Hole{{Number: 1, Par: 4, Handicap: 6}}},
		golf.Course{ID: "spyglass", Name: "Spyglass Hill Golf Course", Location: "Pebble Beach, CA"},
		golf.Course{ID: "torrey-s", Name: "Torrey Pines South", Location: "La Jolla, CA"},
	))
}

func TestFindByNormalizedNameAndLocation(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	got, err := s.FindByNormalizedNameAndLocation(ctx, "pebble beach golf links", "pebble beach ca")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pebble", got[0].ID)

	got, err = s.FindByNormalizedNameAndLocation(ctx, "pebble beach golf links", "monterey ca")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.FindByNormalizedNameAndLocation(ctx, "pebble beach golf links", "")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindBySimilarity(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	got, err := s.FindBySimilarity(ctx, "pebble beach", "pebble beach ca", 0.8)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "pebble", got[0].Course.ID)
	assert.Equal(t, 1.0, got[0].Similarity)

	got, err = s.FindBySimilarity(ctx, "augusta national", "", 0.8)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	c, err := s.GetByID(ctx, "pebble")
	require.NoError(t, err)
	c.Holes[0].Par = 5

	again, err := s.GetByID(ctx, "pebble")
	require.NoError(t, err)
	assert.Equal(t, 4, again.Holes[0].Par)

	_, err = s.GetByID(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestSaveRoundAssignsID(t *testing.T) {
	s := New(WithIDGenerator(func() string { return "round-1" }))
	ctx := context.Background()

	in := &golf.Round{CourseNamePlayed: "Muni", HoleScores: []golf.HoleScore{{HoleNumber: 1, Strokes: golf.IntPtr(5)}}}
	saved, err := s.SaveRound(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "round-1", saved.ID)
	assert.NotNil(t, saved.CreatedAt)
	assert.Empty(t, in.ID)

	got, err := s.GetRound(ctx, "round-1")
	require.NoError(t, err)
	assert.Equal(t, saved.HoleScores, got.HoleScores)

	_, err = s.SaveRound(ctx, in)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
}

func TestUserTees(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.SaveUserTee(ctx, &golf.UserTee{UserID: "u1", CourseName: "Muni Links", Name: "Gold",
		HoleYardages: map[int]int{1: 350}})
	require.NoError(t, err)

	tee, err := s.FindUserTee(ctx, repository.UserTeeQuery{UserID: "u1", CourseName: "muni links", Color: "gold"})
	require.NoError(t, err)
	assert.Equal(t, 350, tee.HoleYardages[1])

	_, err = s.FindUserTee(ctx, repository.UserTeeQuery{UserID: "u2", CourseName: "muni links", Color: "gold"})
	assert.True(t, errors.IsNotFound(err))

	_, err = s.SaveUserTee(ctx, &golf.UserTee{Name: "Gold"})
	assert.True(t, errors.IsValidationError(err))
}
