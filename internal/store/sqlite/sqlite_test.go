package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logging.DisableLoggingForTest(t)

	seq := 0
	s, err := Open(MemoryPath,
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%02d", seq)
		}),
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func course(id, name, location string) *golf.Course {
	c := &golf.Course{ID: id, Name: name, Location: location}
	for n := 1; n <= 18; n++ {
		c.Holes = append(c.Holes, golf.Hole{Number: n, Par: 4, Handicap: 19 - n})
	}
	c.Tees = []golf.Tee{
		{Color: "Blue", HoleYardages: map[int]int{1: 380, 2: 502}, SlopeRating: golf.FloatPtr(144)},
		{Color: "White", HoleYardages: map[int]int{1: 350}},
	}
	return c
}

func TestCourseRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveCourse(ctx, course("", "Pebble Beach Golf Links", "Pebble Beach, CA"))
	require.NoError(t, err)
	assert.Equal(t, "id-01", saved.ID)

	got, err := s.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Name, got.Name)
	require.Len(t, got.Holes, 18)
	assert.Equal(t, 1, got.Holes[0].Number)
	assert.Equal(t, 18, got.Holes[0].Handicap)
	require.Len(t, got.Tees, 2)
	assert.Equal(t, "Blue", got.Tees[0].Color)
	assert.Equal(t, 502, got.Tees[0].HoleYardages[2])
	require.NotNil(t, got.Tees[0].SlopeRating)
	assert.Equal(t, 144.0, *got.Tees[0].SlopeRating)
}

func TestSaveCourseReplacesChildren(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveCourse(ctx, course("c1", "Old Course", "St Andrews"))
	require.NoError(t, err)

	updated := course("c1", "Old Course", "St Andrews")
	updated.Tees = updated.Tees[:1]
	updated.Holes[0].Par = 5
	_, err = s.SaveCourse(ctx, updated)
	require.NoError(t, err)

	got, err := s.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got.Holes, 18)
	assert.Len(t, got.Tees, 1)
	assert.Equal(t, 5, got.Holes[0].Par)
}

func TestSaveCourseRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	bad := course("c1", "Bad", "")
	bad.Holes[0].Par = 9

	_, err := s.SaveCourse(context.Background(), bad)
	assert.True(t, errors.IsValidationError(err))
}

func TestGetByIDNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetByID(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestFindByNormalizedNameAndLocation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, c := range []*golf.Course{
		course("a", "Pinehurst No. 2", "Pinehurst, NC"),
		course("b", "PINEHURST  no 2", "Somewhere Else"),
		course("c", "Torrey Pines South", "La Jolla, CA"),
	} {
		_, err := s.SaveCourse(ctx, c)
		require.NoError(t, err)
	}

	name := matcher.Normalize("Pinehurst No. 2")
	got, err := s.FindByNormalizedNameAndLocation(ctx, name, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	got, err = s.FindByNormalizedNameAndLocation(ctx, name, matcher.Normalize("Pinehurst, NC"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestFindBySimilarity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, c := range []*golf.Course{
		course("a", "Pebble Beach Golf Links", "Pebble Beach, CA"),
		course("b", "Spyglass Hill", "Pebble Beach, CA"),
		course("c", "Pebble Creek", "Taylors, SC"),
	} {
		_, err := s.SaveCourse(ctx, c)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		query    string
		location string
		wantIDs  []string
	}{
		{"generic words ignored", "pebble beach", "", []string{"a"}},
		{"below threshold", "augusta national", "", nil},
		{"location narrows", "pebble beach", "pebble beach", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands, err := s.FindBySimilarity(ctx, matcher.Normalize(tt.query), matcher.Normalize(tt.location), 0.8)
			require.NoError(t, err)
			var ids []string
			for _, c := range cands {
				ids = append(ids, c.Course.ID)
				assert.GreaterOrEqual(t, c.Similarity, 0.8)
				assert.Len(t, c.Course.Holes, 18)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRoundRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	date := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)

	round := &golf.Round{
		UserID:           "u1",
		CourseNamePlayed: "Muni",
		TeeBox:           "White",
		Date:             &date,
		HoleScores: []golf.HoleScore{
			{HoleNumber: 1, Strokes: golf.IntPtr(5), Putts: golf.IntPtr(2), ParPlayed: golf.IntPtr(4), FairwayHit: golf.BoolPtr(false)},
			{HoleNumber: 2, Strokes: nil, Putts: golf.IntPtr(1)},
		},
		Totals: golf.Totals{Strokes: golf.IntPtr(5), Putts: golf.IntPtr(3), HolesPlayed: 1},
	}

	saved, err := s.SaveRound(ctx, round)
	require.NoError(t, err)
	assert.Equal(t, "id-01", saved.ID)
	require.NotNil(t, saved.CreatedAt)
	assert.Empty(t, round.ID, "input is not modified")

	got, err := s.GetRound(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Muni", got.CourseNamePlayed)
	require.Len(t, got.HoleScores, 2)
	assert.Nil(t, got.HoleScores[1].Strokes)
	assert.Equal(t, 1, *got.HoleScores[1].Putts)
	assert.False(t, *got.HoleScores[0].FairwayHit)
	assert.Nil(t, got.HoleScores[0].GreenInRegulation)
	assert.Equal(t, round.Totals, got.Totals)
	require.NotNil(t, got.Date)
	assert.True(t, date.Equal(*got.Date))

	_, err = s.SaveRound(ctx, saved)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	_, err = s.GetRound(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestUserTees(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveUserTee(ctx, &golf.UserTee{UserID: "u1", CourseID: "c1", Name: " Gold ", HoleYardages: map[int]int{1: 333}})
	require.NoError(t, err)
	_, err = s.SaveUserTee(ctx, &golf.UserTee{UserID: "u1", CourseName: "The Muni", Name: "Red"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   repository.UserTeeQuery
		wantID  string
		wantErr bool
	}{
		{"by course id, case-insensitive", repository.UserTeeQuery{UserID: "u1", CourseID: "c1", Color: "GOLD"}, "id-01", false},
		{"by normalized name", repository.UserTeeQuery{UserID: "u1", CourseName: matcher.Normalize("the muni"), Color: "red"}, "id-02", false},
		{"other user", repository.UserTeeQuery{UserID: "u2", CourseID: "c1", Color: "gold"}, "", true},
		{"no course", repository.UserTeeQuery{UserID: "u1", Color: "gold"}, "", true},
		{"prefix is not a match", repository.UserTeeQuery{UserID: "u1", CourseID: "c1", Color: "gol"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindUserTee(ctx, tt.query)
			if tt.wantErr {
				assert.True(t, errors.IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}

	_, err = s.SaveUserTee(ctx, &golf.UserTee{UserID: "u1"})
	assert.True(t, errors.IsValidationError(err))
}
