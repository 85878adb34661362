package handlers

import (
	"net/http"
	"strings"

	"github.com/agentstation/scorecard/internal/server/response"
	"github.com/agentstation/scorecard/pkg/golf"
)

// CourseMatch is the body of a course match response.
type CourseMatch struct {
	Matched    bool         `json:"matched"`
	Exact      bool         `json:"exact"`
	Score      float64      `json:"score"`
	Threshold  float64      `json:"threshold"`
	Candidates int          `json:"candidates"`
	Course     *golf.Course `json:"course,omitempty"`
}

// HandleMatchCourse handles GET /api/v1/courses/match?name=&location=.
// A miss is a successful response with matched=false.
func (h *Handlers) HandleMatchCourse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		response.BadRequest(w, "name is required", "pass the course name as ?name=")
		return
	}

	m := h.scanner.Matcher()
	res, err := m.Match(r.Context(), name, q.Get("location"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, CourseMatch{
		Matched:    res.Matched(),
		Exact:      res.Exact,
		Score:      res.Score,
		Threshold:  m.Threshold(),
		Candidates: res.Candidates,
		Course:     res.Course,
	})
}
