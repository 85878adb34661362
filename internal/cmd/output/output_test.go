package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/pkg/confidence"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/scan"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{" JSON ", FormatJSON, false},
		{"wide", FormatWide, false},
		{"yaml", FormatYAML, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestIsTable(t *testing.T) {
	assert.True(t, FormatTable.IsTable())
	assert.True(t, FormatWide.IsTable())
	assert.True(t, Format("").IsTable())
	assert.False(t, FormatJSON.IsTable())
}

func result() *scan.Result {
	return &scan.Result{
		ScanID: "scan-9",
		Round: &golf.Round{
			CourseNamePlayed: "Cedar Ridge",
			HoleScores: []golf.HoleScore{
				{HoleNumber: 1, Strokes: golf.IntPtr(5), ParPlayed: golf.IntPtr(4)},
			},
			Totals: golf.Totals{Strokes: golf.IntPtr(5), ToPar: golf.IntPtr(1), HolesPlayed: 1},
		},
		Confidence: confidence.RoundConfidence{Overall: 0.9, Level: confidence.LevelHigh},
		Strategy:   "full",
	}
}

func TestFormatScanTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatScan(&buf, result(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "scan-9")
	assert.Contains(t, out, "Cedar Ridge (unmatched)")
	assert.Contains(t, strings.ToUpper(out), "STROKES")
	assert.NotContains(t, strings.ToUpper(out), "BOGEY")
}

func TestFormatScanWide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatScan(&buf, result(), FormatWide))
	assert.Contains(t, strings.ToUpper(buf.String()), "BOGEY")
}

func TestFormatScanJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatScan(&buf, result(), FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "scan-9", got["scan_id"])
}

func TestFormatScanYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatScan(&buf, result(), FormatYAML))
	assert.Contains(t, buf.String(), "scan_id: scan-9")
}

func TestFormatRoundJSON(t *testing.T) {
	res := result()
	var buf bytes.Buffer
	require.NoError(t, FormatRound(&buf, res, res.Round, FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Cedar Ridge", got["course_name_played"])
	assert.NotContains(t, got, "scan_id")
}

func TestFormatCourses(t *testing.T) {
	courses := []golf.Course{{ID: "c1", Name: "Cedar Ridge", Holes: []golf.Hole{{Number: 1, Par: 4}}}}

	var buf bytes.Buffer
	require.NoError(t, FormatCourses(&buf, courses, FormatTable))
	assert.Contains(t, buf.String(), "Cedar Ridge")

	buf.Reset()
	require.NoError(t, FormatCourses(&buf, courses, FormatJSON))
	assert.Contains(t, buf.String(), `"name": "Cedar Ridge"`)
}

func TestFormatMatch(t *testing.T) {
	var buf bytes.Buffer
	res := &matcher.Result{Score: 0.31}
	require.NoError(t, FormatMatch(&buf, res, 0.8, FormatTable))
	assert.Contains(t, buf.String(), "no match")
	assert.Contains(t, buf.String(), "0.80")
}

func TestTableFormatterReflection(t *testing.T) {
	type row struct {
		Name  string `json:"course_name"`
		Holes *int   `json:"holes"`
		note  string
	}

	var buf bytes.Buffer
	f := &TableFormatter{}
	require.NoError(t, f.Format(&buf, []row{{Name: "Cedar Ridge"}, {Name: "Harbor Pines", Holes: golf.IntPtr(18)}}))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "COURSE NAME")
	assert.Contains(t, out, "Harbor Pines")
	assert.Contains(t, out, "18")
	assert.NotContains(t, strings.ToUpper(out), "NOTE")

	buf.Reset()
	require.NoError(t, f.Format(&buf, &row{Name: "Cedar Ridge"}))
	assert.Contains(t, strings.ToUpper(buf.String()), "PROPERTY")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"holes": 18}))
	assert.Contains(t, buf.String(), `"holes": 18`)
}
