// Package extraction defines the contract with the OCR/LLM collaborator that
// turns a scorecard image into untrusted, confidence-annotated data.
package extraction

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentstation/scorecard/pkg/golf"
)

// Extractor is the upstream OCR/LLM collaborator.
type Extractor interface {
	// Extract reads the card using req.Strategy (full or scores_only).
	Extract(ctx context.Context, req Request) (*Result, error)
	// Identify reads only the course name and location.
	Identify(ctx context.Context, req Request) (*Identification, error)
}

// Request is a single call to the extractor.
type Request struct {
	Image       []byte
	MIMEType    string
	UserContext string       // Free-text hints, e.g. "I write scores as score to par"
	Strategy    Strategy     // full, scores_only or identify
	Course      *golf.Course // Known course for scores_only
}

// Result is the structured extraction of one card.
type Result struct {
	Course     ExtractedCourse   `json:"course"`
	Tees       []ExtractedTee    `json:"tees"`
	Date       Annotated[string] `json:"date"`
	PlayerName Annotated[string] `json:"player_name"`
	Holes      []ExtractedHole   `json:"holes"`
	Totals     ExtractedTotals   `json:"totals"`
	Notes      Annotated[string] `json:"notes"`
}

// ExtractedCourse is the course header as printed on the card.
type ExtractedCourse struct {
	Name     Annotated[string] `json:"name"`
	Location Annotated[string] `json:"location"`
	Par      Annotated[int]    `json:"par"`
}

// ExtractedTee is one tee row as printed on the card.
type ExtractedTee struct {
	Color        Annotated[string]  `json:"color"`
	SlopeRating  Annotated[float64] `json:"slope_rating"`
	CourseRating Annotated[float64] `json:"course_rating"`
	HoleYardages []TeeYardage       `json:"hole_yardages"`
}

// TeeYardage is one printed hole yardage.
type TeeYardage struct {
	HoleNumber int            `json:"hole_number"`
	Yardage    Annotated[int] `json:"yardage"`
}

// ExtractedHole is one hole column of the card.
type ExtractedHole struct {
	HoleNumber        Annotated[int]  `json:"hole_number"`
	Par               Annotated[int]  `json:"par"`
	Handicap          Annotated[int]  `json:"handicap"`
	Strokes           Annotated[int]  `json:"strokes"`
	Putts             Annotated[int]  `json:"putts"`
	FairwayHit        Annotated[bool] `json:"fairway_hit"`
	GreenInRegulation Annotated[bool] `json:"green_in_regulation"`
}

// Number returns the hole number, or 0 when the extractor omitted it.
func (h ExtractedHole) Number() int {
	n, _ := h.HoleNumber.Get()
	return n
}

// ExtractedTotals are the subtotals written on the card.
type ExtractedTotals struct {
	TotalScore     Annotated[int] `json:"total_score"`
	FrontNineScore Annotated[int] `json:"front_nine_score"`
	BackNineScore  Annotated[int] `json:"back_nine_score"`
	TotalPutts     Annotated[int] `json:"total_putts"`
}

// Identification is the result of an identify call.
type Identification struct {
	Name     Annotated[string] `json:"name"`
	Location Annotated[string] `json:"location"`
}

// Hole returns the first extracted entry for a hole number.
func (r *Result) Hole(number int) (*ExtractedHole, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Holes {
		if r.Holes[i].Number() == number {
			return &r.Holes[i], true
		}
	}
	return nil, false
}

// HoleNumbers returns the distinct hole numbers in card order.
func (r *Result) HoleNumbers() []int {
	if r == nil {
		return nil
	}
	seen := make(map[int]bool, len(r.Holes))
	out := make([]int, 0, len(r.Holes))
	for _, h := range r.Holes {
		n := h.Number()
		if n == 0 || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ParsedDate parses the extracted date as YYYY-MM-DD.
func (r *Result) ParsedDate() (time.Time, bool) {
	if r == nil {
		return time.Time{}, false
	}
	s, ok := r.Date.Get()
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TeeColors returns the extracted tee colors in card order.
func (r *Result) TeeColors() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, t := range r.Tees {
		if c, ok := t.Color.Get(); ok && strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
	".pdf":  "application/pdf",
}

// SupportedMIMEType returns the MIME type for a file extension or path.
func SupportedMIMEType(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "." + strings.TrimPrefix(strings.ToLower(name), ".")
	}
	mt, ok := mimeTypes[ext]
	return mt, ok
}

// IsSupportedMIMEType reports whether the extractor accepts a MIME type.
func IsSupportedMIMEType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	for _, mt := range mimeTypes {
		if mt == mimeType {
			return true
		}
	}
	return false
}
