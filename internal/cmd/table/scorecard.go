package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/resolve"
	"github.com/agentstation/scorecard/pkg/review"
	"github.com/agentstation/scorecard/pkg/scan"
)

// reviewMark follows a value that needs the user's attention.
const reviewMark = " ?"

// HolesToTableData converts a scan result into one row per hole and a
// totals row. Values flagged for review carry a trailing "?". The wide
// form adds the score name, the hole confidence and the flagged field names.
func HolesToTableData(res *scan.Result, wide bool) Data {
	headers := []string{"Hole", "Par", "Hcp", "Yards", "Strokes", "Putts", "FIR", "GIR"}
	if wide {
		headers = append(headers, "Result", "Confidence", "Review")
	}

	flagged := reviewedFields(res.FieldsNeedingReview)
	mark := func(hole int, f resolve.Field, cell string) string {
		if flagged[hole][f] {
			return cell + reviewMark
		}
		return cell
	}

	var rows [][]string
	if res.Round != nil {
		for _, hs := range res.Round.HoleScores {
			n := hs.HoleNumber
			row := []string{
				strconv.Itoa(n),
				mark(n, resolve.FieldPar, IntCell(hs.ParPlayed)),
				mark(n, resolve.FieldHandicap, IntCell(hs.HandicapPlayed)),
				mark(n, resolve.FieldYardage, IntCell(hs.Yardage)),
				mark(n, resolve.FieldStrokes, IntCell(hs.Strokes)),
				mark(n, resolve.FieldPutts, IntCell(hs.Putts)),
				mark(n, resolve.FieldFairwayHit, BoolCell(hs.FairwayHit)),
				mark(n, resolve.FieldGreenInRegulation, BoolCell(hs.GreenInRegulation)),
			}
			if wide {
				conf := Empty
				if hc, ok := res.Confidence.Hole(n); ok {
					conf = fmt.Sprintf("%s %s", Score(hc.Overall), hc.Level)
				}
				row = append(row, orEmpty(hs.ScoreName()), conf, reviewFields(flagged[n]))
			}
			rows = append(rows, row)
		}

		t := res.Round.Totals
		total := []string{"Total", "", "", "", IntCell(t.Strokes), IntCell(t.Putts), IntCell(t.Fairways), IntCell(t.GreensInRegulation)}
		if wide {
			total = append(total, "", fmt.Sprintf("%s %s", Score(res.Confidence.Overall), res.Confidence.Level), "")
		}
		rows = append(rows, total)
	}

	align := []Align{AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignCenter, AlignCenter}
	if wide {
		align = append(align, AlignLeft, AlignLeft, AlignLeft)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// reviewedFields groups review identifiers by hole. Identifiers that do not
// name a hole field are skipped.
func reviewedFields(ids []string) map[int]map[resolve.Field]bool {
	flagged := map[int]map[resolve.Field]bool{}
	for _, id := range ids {
		n, f, err := review.ParseFieldID(id)
		if err != nil {
			continue
		}
		if flagged[n] == nil {
			flagged[n] = map[resolve.Field]bool{}
		}
		flagged[n][f] = true
	}
	return flagged
}

func reviewFields(fields map[resolve.Field]bool) string {
	var names []string
	for _, f := range resolve.Fields {
		if fields[f] {
			names = append(names, string(f))
		}
	}
	return strings.Join(names, ", ")
}

// SummaryToTableData converts the round-level facts of a scan result into
// a property/value table.
func SummaryToTableData(res *scan.Result) Data {
	rows := [][]string{{"Scan ID", orEmpty(res.ScanID)}}

	course := Empty
	if res.Round != nil {
		switch {
		case res.CourseMatch != nil && res.CourseMatch.CourseName != "":
			course = res.CourseMatch.CourseName
		case res.Round.CourseNamePlayed != "":
			course = res.Round.CourseNamePlayed + " (unmatched)"
		}
	}
	rows = append(rows, []string{"Course", course})
	if res.CourseMatch != nil {
		match := Score(res.CourseMatch.Score)
		if res.CourseMatch.Exact {
			match += " exact"
		}
		rows = append(rows, []string{"Match", match})
	}

	strategy := orEmpty(string(res.Strategy))
	if res.StrategyReason != "" {
		strategy += " (" + string(res.StrategyReason) + ")"
	}
	rows = append(rows, []string{"Strategy", strategy})

	if res.Round != nil {
		rows = append(rows,
			[]string{"Tee", orEmpty(res.Round.TeeBox)},
			[]string{"Date", dateCell(res.Round)},
			[]string{"Score", fmt.Sprintf("%s (%s)", IntCell(res.Round.Totals.Strokes), ToParCell(res.Round.Totals.ToPar))},
		)
	}
	rows = append(rows,
		[]string{"Confidence", fmt.Sprintf("%s %s", Score(res.Confidence.Overall), res.Confidence.Level)},
		[]string{"Needs review", reviewSummary(res.FieldsNeedingReview)},
	)
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func reviewSummary(ids []string) string {
	if len(ids) == 0 {
		return "nothing"
	}
	return strings.Join(ids, ", ")
}

func dateCell(r *golf.Round) string {
	if r.Date == nil {
		return Empty
	}
	return r.Date.Format("2006-01-02")
}

func orEmpty(s string) string {
	if s == "" {
		return Empty
	}
	return s
}

// CoursesToTableData converts canonical courses to table format.
func CoursesToTableData(courses []golf.Course) Data {
	rows := make([][]string, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		par := Empty
		if p, ok := c.TotalPar(); ok {
			par = strconv.Itoa(p)
		}
		tees := make([]string, 0, len(c.Tees))
		for _, t := range c.Tees {
			tees = append(tees, t.Color)
		}
		rows = append(rows, []string{
			c.ID,
			c.Name,
			orEmpty(c.Location),
			par,
			strconv.Itoa(len(c.Holes)),
			orEmpty(strings.Join(tees, ", ")),
		})
	}
	return Data{
		Headers:         []string{"ID", "Name", "Location", "Par", "Holes", "Tees"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// MatchToTableData converts a course match outcome to a property/value table.
func MatchToTableData(res *matcher.Result, threshold float64) Data {
	outcome := "no match"
	switch {
	case res.Matched() && res.Exact:
		outcome = "exact"
	case res.Matched():
		outcome = "fuzzy"
	}
	rows := [][]string{
		{"Outcome", outcome},
		{"Score", Score(res.Score)},
		{"Threshold", Score(threshold)},
		{"Candidates", strconv.Itoa(res.Candidates)},
	}
	if res.Course != nil {
		rows = append(rows,
			[]string{"Course ID", res.Course.ID},
			[]string{"Name", res.Course.Name},
			[]string{"Location", orEmpty(res.Course.Location)},
		)
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}
