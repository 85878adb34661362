package courses

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/internal/store/memory"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/logging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr string
	}{
		{
			name: "courses document",
			input: `courses:
  - name: Alpha
    holes:
      - {number: 1, par: 4, handicap: 1}
    tees:
      - color: Blue
        hole_yardages: {1: 410}
`,
			want: 1,
		},
		{
			name:  "bare list",
			input: "- name: Alpha\n- name: Beta\n",
			want:  2,
		},
		{
			name:    "unknown field",
			input:   "courses:\n  - name: Alpha\n    colour: red\n",
			wantErr: "colour",
		},
		{
			name:    "missing name",
			input:   "courses:\n  - location: Nowhere\n",
			wantErr: "course name is required",
		},
		{
			name:    "invalid par",
			input:   "courses:\n  - name: Alpha\n    holes:\n      - {number: 1, par: 8}\n",
			wantErr: "par for hole 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input), "test.yaml")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseValidationErrorIsDetectable(t *testing.T) {
	_, err := Parse([]byte("- name: A\n  holes:\n    - {number: 19, par: 4}\n"), "x.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadFileSortsHoles(t *testing.T) {
	got, err := Load(filepath.Join("testdata", "list.yaml"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Holes[0].Number)
	assert.Equal(t, 3, got[0].Holes[0].Par)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("- name: Beta\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("- name: Alpha\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Beta", got[1].Name)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	got, err := Sample()
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Len(t, c.Holes, 18, c.Name)
		sum := 0
		for _, h := range c.Holes {
			sum += h.Par
		}
		require.NotNil(t, c.Par)
		assert.Equal(t, *c.Par, sum, c.Name)
		for _, tee := range c.Tees {
			assert.Len(t, tee.HoleYardages, 18, c.Name+" "+tee.Color)
		}
	}
}

func TestImportAndMarshal(t *testing.T) {
	logging.DisableLoggingForTest(t)
	sample, err := Sample()
	require.NoError(t, err)

	store := memory.New()
	saved, err := Import(context.Background(), store, sample)
	require.NoError(t, err)
	assert.Len(t, saved, len(sample))

	listed, err := store.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, len(sample))

	data, err := Marshal(listed)
	require.NoError(t, err)
	again, err := Parse(data, "roundtrip.yaml")
	require.NoError(t, err)
	require.Len(t, again, len(listed))
	for i := range listed {
		assert.Equal(t, listed[i].ID, again[i].ID)
		assert.Equal(t, listed[i].Holes, again[i].Holes)
		assert.Equal(t, listed[i].Tees, again[i].Tees)
	}
}
