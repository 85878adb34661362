// Package sqlite is the gorm-backed SQLite implementation of the
// repository interfaces.
package sqlite

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agentstation/scorecard/internal/similarity"
	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/repository"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var _ repository.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.now = fn
	}
}

// WithLogLevel sets gorm's log level. The default only reports errors and
// slow queries.
func WithLogLevel(level gormlogger.LogLevel) Option {
	return func(s *Store) {
		s.logLevel = level
	}
}

// Store persists courses, user tees and rounds in SQLite.
type Store struct {
	db       *gorm.DB
	newID    func() string
	now      func() time.Time
	logLevel gormlogger.LogLevel
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		newID:    uuid.NewString,
		now:      time.Now,
		logLevel: gormlogger.Warn,
	}
	for _, opt := range opts {
		opt(s)
	}

	if path == "" {
		path = constants.DefaultDatabasePath
	}
	if path != MemoryPath {
		path = filepath.Clean(path)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newGormLogger(s.logLevel)})
	if err != nil {
		return nil, errors.NewConfigError("sqlite", "failed to open database "+path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.NewConfigError("sqlite", "failed to access connection pool", err)
	}
	// SQLite has a single writer, and each in-memory connection is its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return nil, errors.NewConfigError("sqlite", "failed to enable foreign keys", err)
	}
	if err := migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	s.db = db
	logging.Debug().Str("path", path).Msg("Database opened")
	return s, nil
}

func migrate(db *gorm.DB) error {
	start := time.Now()
	models := []any{
		&courseRecord{},
		&holeRecord{},
		&teeRecord{},
		&userTeeRecord{},
		&roundRecord{},
		&holeScoreRecord{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return errors.NewConfigError("sqlite", "migration failed", err)
	}
	logging.Debug().Int("tables", len(models)).Dur("elapsed", time.Since(start)).Msg("Database migrated")
	return nil
}

// Close implements repository.Store.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) courses(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Holes", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Tees", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// FindByNormalizedNameAndLocation implements repository.CourseRepository.
func (s *Store) FindByNormalizedNameAndLocation(ctx context.Context, name, location string) ([]golf.Course, error) {
	q := s.courses(ctx).Where("normalized_name = ?", name)
	if location != "" {
		q = q.Where("normalized_location = ?", location)
	}
	var recs []courseRecord
	if err := q.Order("id").Find(&recs).Error; err != nil {
		return nil, errors.WrapResource("fetch", "course", "", err)
	}
	return toCourses(recs), nil
}

// FindBySimilarity implements repository.CourseRepository. Names are scored
// over a narrow projection, then only the surviving courses are loaded.
func (s *Store) FindBySimilarity(ctx context.Context, name, location string, threshold float64) ([]repository.Candidate, error) {
	var rows []struct {
		ID                 string
		NormalizedName     string
		NormalizedLocation string
	}
	err := s.db.WithContext(ctx).Model(&courseRecord{}).
		Select("id", "normalized_name", "normalized_location").
		Find(&rows).Error
	if err != nil {
		return nil, errors.WrapResource("fetch", "course", "", err)
	}

	scores := make(map[string]float64)
	var all, local []string
	for _, r := range rows {
		score := similarity.Names(name, r.NormalizedName)
		if score < threshold {
			continue
		}
		scores[r.ID] = score
		all = append(all, r.ID)
		if location != "" && similarity.LocationMatches(location, r.NormalizedLocation) {
			local = append(local, r.ID)
		}
	}
	ids := all
	if len(local) > 0 {
		ids = local
	}
	sort.SliceStable(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > constants.MaxMatchCandidates {
		ids = ids[:constants.MaxMatchCandidates]
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var recs []courseRecord
	if err := s.courses(ctx).Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, errors.WrapResource("fetch", "course", "", err)
	}
	byID := make(map[string]*courseRecord, len(recs))
	for i := range recs {
		byID[recs[i].ID] = &recs[i]
	}
	out := make([]repository.Candidate, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, repository.Candidate{Course: rec.course(), Similarity: scores[id]})
		}
	}
	return out, nil
}

// GetByID implements repository.CourseRepository.
func (s *Store) GetByID(ctx context.Context, id string) (*golf.Course, error) {
	var rec courseRecord
	err := s.courses(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("course", id)
	}
	if err != nil {
		return nil, errors.WrapResource("fetch", "course", id, err)
	}
	c := rec.course()
	return &c, nil
}

// SaveCourse inserts or replaces a course with its holes and tees.
func (s *Store) SaveCourse(ctx context.Context, course *golf.Course) (*golf.Course, error) {
	if course == nil {
		return nil, errors.NewValidationError("course", nil, "course is required")
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}
	c := course.Clone()
	if c.ID == "" {
		c.ID = s.newID()
	}
	c.SortHoles()
	rec := courseToRecord(c)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", c.ID).Delete(&holeRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", c.ID).Delete(&teeRecord{}).Error; err != nil {
			return err
		}
		return tx.Save(rec).Error
	})
	if err != nil {
		return nil, errors.WrapResource("create", "course", c.ID, err)
	}
	logging.FromContext(ctx).Debug().Str("course_id", c.ID).Str("name", c.Name).Msg("Course saved")
	return c, nil
}

// ListCourses returns all courses ordered by name, then ID.
func (s *Store) ListCourses(ctx context.Context) ([]golf.Course, error) {
	var recs []courseRecord
	if err := s.courses(ctx).Order("name").Order("id").Find(&recs).Error; err != nil {
		return nil, errors.WrapResource("fetch", "course", "", err)
	}
	return toCourses(recs), nil
}

// SaveRound implements repository.RoundStore. The round is stored as given.
func (s *Store) SaveRound(ctx context.Context, round *golf.Round) (*golf.Round, error) {
	if round == nil {
		return nil, errors.NewValidationError("round", nil, "round is required")
	}
	r := round.Clone()
	if r.ID == "" {
		r.ID = s.newID()
	}
	if r.CreatedAt == nil {
		now := s.now().UTC()
		r.CreatedAt = &now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&roundRecord{}).Where("id = ?", r.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errors.ErrAlreadyExists
		}
		return tx.Create(roundToRecord(r)).Error
	})
	if err != nil {
		return nil, errors.WrapResource("create", "round", r.ID, err)
	}
	return r, nil
}

// GetRound implements repository.RoundStore.
func (s *Store) GetRound(ctx context.Context, id string) (*golf.Round, error) {
	var rec roundRecord
	err := s.db.WithContext(ctx).
		Preload("HoleScores", func(db *gorm.DB) *gorm.DB { return db.Order("hole_number") }).
		Where("id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("round", id)
	}
	if err != nil {
		return nil, errors.WrapResource("fetch", "round", id, err)
	}
	return rec.round(), nil
}

// FindUserTee implements repository.UserTeeStore.
func (s *Store) FindUserTee(ctx context.Context, q repository.UserTeeQuery) (*golf.UserTee, error) {
	notFound := errors.NewNotFoundError("user_tee", strings.TrimSpace(q.UserID+" "+q.Color))
	tx := s.db.WithContext(ctx).
		Where("user_id = ?", q.UserID).
		Where("lower_name = ?", strings.ToLower(strings.TrimSpace(q.Color)))
	switch {
	case q.CourseID != "":
		tx = tx.Where("course_id = ?", q.CourseID)
	case q.CourseName != "":
		tx = tx.Where("normalized_course_name = ?", q.CourseName)
	default:
		return nil, notFound
	}

	var rec userTeeRecord
	err := tx.Order("id").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, errors.WrapResource("fetch", "user_tee", "", err)
	}
	return rec.userTee(), nil
}

// SaveUserTee implements repository.UserTeeStore.
func (s *Store) SaveUserTee(ctx context.Context, tee *golf.UserTee) (*golf.UserTee, error) {
	if tee == nil || tee.UserID == "" || strings.TrimSpace(tee.Name) == "" {
		return nil, errors.NewValidationError("user_tee", nil, "user ID and tee name are required")
	}
	t := tee.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	if err := s.db.WithContext(ctx).Save(userTeeToRecord(t)).Error; err != nil {
		return nil, errors.WrapResource("create", "user_tee", t.ID, err)
	}
	return t, nil
}

func toCourses(recs []courseRecord) []golf.Course {
	out := make([]golf.Course, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].course())
	}
	return out
}
