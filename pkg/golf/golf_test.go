package golf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/pkg/errors"
)

func testCourse() *Course {
	return &Course{
		ID:       "pebble",
		Name:     "Pebble Beach Golf Links",
		Location: "Pebble Beach, CA",
		Holes: []Hole{
			{Number: 2, Par: 5, Handicap: 1},
			{Number: 1, Par: 4, Handicap: 2},
		},
		Tees: []Tee{
			{Color: "Blue", HoleYardages: map[int]int{1: 380, 2: 502}},
			{Color: "white", HoleYardages: map[int]int{1: 360}},
		},
	}
}

func TestCourseTeeMatchesCaseInsensitiveExact(t *testing.T) {
	c := testCourse()

	tests := []struct {
		color string
		found bool
	}{
		{"blue", true},
		{"BLUE", true},
		{" White ", true},
		{"blu", false},
		{"black", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			_, ok := c.Tee(tt.color)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestCourseTotalPar(t *testing.T) {
	c := testCourse()
	par, ok := c.TotalPar()
	require.True(t, ok)
	assert.Equal(t, 9, par)

	c.Par = IntPtr(72)
	par, _ = c.TotalPar()
	assert.Equal(t, 72, par)

	_, ok = (&Course{Name: "x"}).TotalPar()
	assert.False(t, ok)
}

func TestCourseValidate(t *testing.T) {
	c := testCourse()
	require.NoError(t, c.Validate())

	c.SortHoles()
	assert.Equal(t, 1, c.Holes[0].Number)

	dup := testCourse()
	dup.Holes = append(dup.Holes, Hole{Number: 3, Par: 4, Handicap: 1})
	err := dup.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	badPar := testCourse()
	badPar.Holes[0].Par = 7
	assert.Error(t, badPar.Validate())

	badTee := testCourse()
	badTee.Tees[0].SlopeRating = FloatPtr(200)
	assert.Error(t, badTee.Validate())

	assert.Error(t, (&Course{}).Validate())
}

func TestHoleScoreName(t *testing.T) {
	tests := []struct {
		strokes, par int
		want         string
	}{
		{1, 4, "albatross"},
		{3, 5, "eagle"},
		{3, 4, "birdie"},
		{4, 4, "par"},
		{5, 4, "bogey"},
		{6, 4, "double bogey"},
		{7, 4, "triple bogey"},
		{8, 4, "quadruple bogey"},
		{11, 4, "quintuple+"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := HoleScore{HoleNumber: 1, Strokes: IntPtr(tt.strokes), ParPlayed: IntPtr(tt.par)}
			assert.Equal(t, tt.want, s.ScoreName())
		})
	}

	assert.Empty(t, HoleScore{HoleNumber: 1, Strokes: IntPtr(4)}.ScoreName())
}

func TestRoundValidate(t *testing.T) {
	r := &Round{HoleScores: []HoleScore{
		{HoleNumber: 2, Strokes: IntPtr(5)},
		{HoleNumber: 1, Strokes: IntPtr(4), Putts: IntPtr(2)},
	}}
	assert.Error(t, r.Validate())

	r.SortHoleScores()
	require.NoError(t, r.Validate())

	s, ok := r.HoleScore(2)
	require.True(t, ok)
	assert.Equal(t, 5, *s.Strokes)

	r.HoleScores[0].Putts = IntPtr(5)
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "putts (5) cannot exceed strokes (4)")

	dup := &Round{HoleScores: []HoleScore{{HoleNumber: 1}, {HoleNumber: 1}}}
	assert.Error(t, dup.Validate())
}

func TestUserTeeMatches(t *testing.T) {
	u := &UserTee{Name: "Gold"}
	assert.True(t, u.Matches("gold"))
	assert.False(t, u.Matches("golden"))
	assert.False(t, u.Matches(""))
}

func TestCloneIsDeep(t *testing.T) {
	c := testCourse()
	cp := c.Clone()
	cp.Tees[0].HoleYardages[1] = 999
	cp.Holes[0].Par = 3
	assert.Equal(t, 380, c.Tees[0].HoleYardages[1])
	assert.Equal(t, 5, c.Holes[0].Par)

	r := &Round{HoleScores: []HoleScore{{HoleNumber: 1, Strokes: IntPtr(4)}}, Totals: Totals{Strokes: IntPtr(4)}}
	rc := r.Clone()
	*rc.HoleScores[0].Strokes = 7
	*rc.Totals.Strokes = 7
	assert.Equal(t, 4, *r.HoleScores[0].Strokes)
	assert.Equal(t, 4, *r.Totals.Strokes)
}
