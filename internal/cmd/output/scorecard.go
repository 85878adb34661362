package output

import (
	"io"

	"github.com/agentstation/scorecard/internal/cmd/table"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/matcher"
	"github.com/agentstation/scorecard/pkg/scan"
)

// FormatScan writes a scan result. Tables show the summary followed by the
// per-hole grid; other formats write the result as is.
func FormatScan(w io.Writer, res *scan.Result, format Format) error {
	var data any = res
	if format.IsTable() {
		data = []Data{
			table.SummaryToTableData(res),
			table.HolesToTableData(res, format == FormatWide),
		}
	}
	return NewFormatter(format).Format(w, data)
}

// FormatRound writes a confirmed round.
func FormatRound(w io.Writer, res *scan.Result, round *golf.Round, format Format) error {
	if !format.IsTable() {
		return NewFormatter(format).Format(w, round)
	}
	confirmed := *res
	confirmed.Round = round
	return FormatScan(w, &confirmed, format)
}

// FormatCourses writes a list of canonical courses.
func FormatCourses(w io.Writer, courses []golf.Course, format Format) error {
	var data any = courses
	if format.IsTable() {
		data = table.CoursesToTableData(courses)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatMatch writes a course match outcome.
func FormatMatch(w io.Writer, res *matcher.Result, threshold float64, format Format) error {
	var data any = res
	if format.IsTable() {
		data = table.MatchToTableData(res, threshold)
	}
	return NewFormatter(format).Format(w, data)
}
