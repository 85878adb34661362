package sqlite

import (
	"strings"
	"time"

	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/matcher"
)

// courseRecord is a canonical course row. Normalized columns back the
// exact-match lookup.
type courseRecord struct {
	ID                 string `gorm:"primaryKey"`
	Name               string `gorm:"not null"`
	NormalizedName     string `gorm:"index:idx_courses_normalized"`
	Location           string
	NormalizedLocation string `gorm:"index:idx_courses_normalized"`
	Par                *int
	OwnerID            string       `gorm:"index"`
	Holes              []holeRecord `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Tees               []teeRecord  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (courseRecord) TableName() string { return "courses" }

type holeRecord struct {
	ID       uint   `gorm:"primaryKey"`
	CourseID string `gorm:"uniqueIndex:idx_holes_course_number;not null"`
	Number   int    `gorm:"uniqueIndex:idx_holes_course_number"`
	Par      int
	Handicap int
}

func (holeRecord) TableName() string { return "holes" }

type teeRecord struct {
	ID           uint   `gorm:"primaryKey"`
	CourseID     string `gorm:"index;not null"`
	Position     int    // Order printed on the card
	Color        string
	TotalYardage *int
	HoleYardages map[int]int `gorm:"serializer:json"`
	SlopeRating  *float64
	CourseRating *float64
}

func (teeRecord) TableName() string { return "tees" }

type userTeeRecord struct {
	ID                   string `gorm:"primaryKey"`
	UserID               string `gorm:"index:idx_user_tees_lookup;not null"`
	CourseID             string `gorm:"index:idx_user_tees_lookup"`
	CourseName           string
	NormalizedCourseName string `gorm:"index"`
	Name                 string
	LowerName            string      `gorm:"index:idx_user_tees_lookup"`
	HoleYardages         map[int]int `gorm:"serializer:json"`
	SlopeRating          *float64
	CourseRating         *float64
}

func (userTeeRecord) TableName() string { return "user_tees" }

type roundRecord struct {
	ID                   string `gorm:"primaryKey"`
	UserID               string `gorm:"index"`
	CourseID             string `gorm:"index"`
	CourseNamePlayed     string
	CourseLocationPlayed string
	TeeBox               string
	Date                 *time.Time
	Notes                string
	Totals               golf.Totals       `gorm:"serializer:json"`
	HoleScores           []holeScoreRecord `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time
}

func (roundRecord) TableName() string { return "rounds" }

type holeScoreRecord struct {
	ID                uint   `gorm:"primaryKey"`
	RoundID           string `gorm:"uniqueIndex:idx_hole_scores_round_hole;not null"`
	HoleNumber        int    `gorm:"uniqueIndex:idx_hole_scores_round_hole"`
	Strokes           *int
	Putts             *int
	ParPlayed         *int
	HandicapPlayed    *int
	Yardage           *int
	FairwayHit        *bool
	GreenInRegulation *bool
}

func (holeScoreRecord) TableName() string { return "hole_scores" }

func courseToRecord(c *golf.Course) *courseRecord {
	rec := &courseRecord{
		ID:                 c.ID,
		Name:               c.Name,
		NormalizedName:     matcher.Normalize(c.Name),
		Location:           c.Location,
		NormalizedLocation: matcher.Normalize(c.Location),
		Par:                c.Par,
		OwnerID:            c.OwnerID,
	}
	for _, h := range c.Holes {
		rec.Holes = append(rec.Holes, holeRecord{CourseID: c.ID, Number: h.Number, Par: h.Par, Handicap: h.Handicap})
	}
	for i, t := range c.Tees {
		t = t.Clone()
		rec.Tees = append(rec.Tees, teeRecord{
			CourseID:     c.ID,
			Position:     i,
			Color:        t.Color,
			TotalYardage: t.TotalYardage,
			HoleYardages: t.HoleYardages,
			SlopeRating:  t.SlopeRating,
			CourseRating: t.CourseRating,
		})
	}
	return rec
}

func (r *courseRecord) course() golf.Course {
	c := golf.Course{
		ID:       r.ID,
		Name:     r.Name,
		Location: r.Location,
		Par:      r.Par,
		OwnerID:  r.OwnerID,
	}
	for _, h := range r.Holes {
		c.Holes = append(c.Holes, golf.Hole{Number: h.Number, Par: h.Par, Handicap: h.Handicap})
	}
	for _, t := range r.Tees {
		c.Tees = append(c.Tees, golf.Tee{
			Color:        t.Color,
			TotalYardage: t.TotalYardage,
			HoleYardages: t.HoleYardages,
			SlopeRating:  t.SlopeRating,
			CourseRating: t.CourseRating,
		})
	}
	c.SortHoles()
	return c
}

func userTeeToRecord(t *golf.UserTee) *userTeeRecord {
	name := strings.TrimSpace(t.Name)
	return &userTeeRecord{
		ID:                   t.ID,
		UserID:               t.UserID,
		CourseID:             t.CourseID,
		CourseName:           t.CourseName,
		NormalizedCourseName: matcher.Normalize(t.CourseName),
		Name:                 name,
		LowerName:            strings.ToLower(name),
		HoleYardages:         t.HoleYardages,
		SlopeRating:          t.SlopeRating,
		CourseRating:         t.CourseRating,
	}
}

func (r *userTeeRecord) userTee() *golf.UserTee {
	return &golf.UserTee{
		ID:           r.ID,
		UserID:       r.UserID,
		CourseID:     r.CourseID,
		CourseName:   r.CourseName,
		Name:         r.Name,
		HoleYardages: r.HoleYardages,
		SlopeRating:  r.SlopeRating,
		CourseRating: r.CourseRating,
	}
}

func roundToRecord(r *golf.Round) *roundRecord {
	rec := &roundRecord{
		ID:                   r.ID,
		UserID:               r.UserID,
		CourseID:             r.CourseID,
		CourseNamePlayed:     r.CourseNamePlayed,
		CourseLocationPlayed: r.CourseLocationPlayed,
		TeeBox:               r.TeeBox,
		Date:                 r.Date,
		Notes:                r.Notes,
		Totals:               r.Totals,
	}
	if r.CreatedAt != nil {
		rec.CreatedAt = *r.CreatedAt
	}
	for _, s := range r.HoleScores {
		rec.HoleScores = append(rec.HoleScores, holeScoreRecord{
			RoundID:           r.ID,
			HoleNumber:        s.HoleNumber,
			Strokes:           s.Strokes,
			Putts:             s.Putts,
			ParPlayed:         s.ParPlayed,
			HandicapPlayed:    s.HandicapPlayed,
			Yardage:           s.Yardage,
			FairwayHit:        s.FairwayHit,
			GreenInRegulation: s.GreenInRegulation,
		})
	}
	return rec
}

func (r *roundRecord) round() *golf.Round {
	created := r.CreatedAt.UTC()
	out := &golf.Round{
		ID:                   r.ID,
		UserID:               r.UserID,
		CourseID:             r.CourseID,
		CourseNamePlayed:     r.CourseNamePlayed,
		CourseLocationPlayed: r.CourseLocationPlayed,
		TeeBox:               r.TeeBox,
		Date:                 r.Date,
		Notes:                r.Notes,
		Totals:               r.Totals,
		HoleScores:           make([]golf.HoleScore, 0, len(r.HoleScores)),
		CreatedAt:            &created,
	}
	for _, s := range r.HoleScores {
		out.HoleScores = append(out.HoleScores, golf.HoleScore{
			HoleNumber:        s.HoleNumber,
			Strokes:           s.Strokes,
			Putts:             s.Putts,
			ParPlayed:         s.ParPlayed,
			HandicapPlayed:    s.HandicapPlayed,
			Yardage:           s.Yardage,
			FairwayHit:        s.FairwayHit,
			GreenInRegulation: s.GreenInRegulation,
		})
	}
	out.SortHoleScores()
	return out
}
