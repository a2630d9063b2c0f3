package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/timetable"
	"github.com/noah-isme/mentora-api/pkg/cache"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type courseRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// CourseServiceConfig governs caching of course lists.
type CourseServiceConfig struct {
	CacheTTL time.Duration
}

// BlockIssue points at a submitted block that failed validation or overlaps another block.
type BlockIssue struct {
	Index      int            `json:"index"`
	Day        models.WeekDay `json:"day"`
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Reason     string         `json:"reason"`
	ConflictID string         `json:"conflict_course_id,omitempty"`
}

// CourseService stores courses and enforces the weekly non-overlap rule per user.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	metrics   *MetricsService
	grid      timetable.Grid
	detector  timetable.Detector
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CourseServiceConfig
}

// NewCourseService wires course dependencies.
func NewCourseService(
	repo courseRepository,
	cacheSvc *CacheService,
	metrics *MetricsService,
	grid timetable.Grid,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg CourseServiceConfig,
) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		repo:      repo,
		cache:     cacheSvc,
		metrics:   metrics,
		grid:      grid,
		detector:  timetable.NewDetector(grid),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Grid returns the slot grid used for validation.
func (s *CourseService) Grid() timetable.Grid {
	return s.grid
}

// ListCourses returns the user's courses with blocks; an unknown user yields an empty list.
func (s *CourseService) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}

	key := courseListKey(userID)
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	courses, err := s.repo.ListByUser(ctx, userID)
	s.metrics.ObserveDBQuery("courses.list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	_ = s.cache.Set(ctx, key, courses, s.cfg.CacheTTL)
	return courses, nil
}

// CreateCourse validates and stores a new course.
func (s *CourseService) CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	input = normalizeCourseInput(input)
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if err := s.checkConflicts(input, existing, ""); err != nil {
		return nil, err
	}

	course := &models.Course{
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		Instructor:  input.Instructor,
		Location:    input.Location,
		Color:       input.Color,
		Blocks:      toTimeBlocks(input.Blocks),
	}
	if course.Color == "" {
		course.Color = timetable.ColorFor(len(existing))
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidate(ctx, course.UserID)
	s.metrics.RecordCourseMutation("create")
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("user_id", course.UserID), zap.Int("blocks", len(course.Blocks)))
	return course, nil
}

// UpdateCourse replaces every field and the whole block set of a course owned by input.UserID.
func (s *CourseService) UpdateCourse(ctx context.Context, courseID string, input models.CourseInput) (*models.Course, error) {
	if _, err := uuid.Parse(courseID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	input = normalizeCourseInput(input)
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.UserID != input.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to edit this course")
	}

	existing, err := s.repo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if err := s.checkConflicts(input, existing, course.ID); err != nil {
		return nil, err
	}

	course.Name = input.Name
	course.Description = input.Description
	course.Instructor = input.Instructor
	course.Location = input.Location
	if input.Color != "" {
		course.Color = input.Color
	}
	course.Blocks = toTimeBlocks(input.Blocks)

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidate(ctx, course.UserID)
	s.metrics.RecordCourseMutation("update")
	s.logger.Info("course updated", zap.String("course_id", course.ID), zap.String("user_id", course.UserID), zap.Int("blocks", len(course.Blocks)))
	return course, nil
}

// DeleteAllCourses clears the user's schedule.
func (s *CourseService) DeleteAllCourses(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	removed, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedule")
	}
	s.invalidate(ctx, userID)
	s.metrics.RecordCourseMutation("clear")
	s.logger.Info("schedule cleared", zap.String("user_id", userID), zap.Int64("courses", removed))
	return nil
}

// BlocksForDay lists the user's blocks on day ordered by start.
func (s *CourseService) BlocksForDay(ctx context.Context, userID string, day models.WeekDay) ([]models.DayBlock, error) {
	if !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", day))
	}
	courses, err := s.ListCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocks := timetable.DayBlocks(s.grid, courses, day)
	if blocks == nil {
		blocks = []models.DayBlock{}
	}
	return blocks, nil
}

// Availability groups the user's busy intervals by day.
func (s *CourseService) Availability(ctx context.Context, userID string) (map[models.WeekDay][]models.AvailabilityBlock, error) {
	courses, err := s.ListCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return timetable.Availability(s.grid, courses), nil
}

func (s *CourseService) validateInput(input models.CourseInput) error {
	if err := s.validator.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	var issues []BlockIssue
	for i, block := range input.Blocks {
		if _, _, ok := s.grid.Range(block.Start, block.End); !ok {
			issues = append(issues, BlockIssue{
				Index:  i,
				Day:    block.Day,
				Start:  block.Start,
				End:    block.End,
				Reason: fmt.Sprintf("times must be slot aligned within %s-%s and end after start", s.grid.IndexToTime(0), s.grid.IndexToTime(s.grid.TotalSlots())),
			})
		}
	}
	if len(issues) > 0 {
		return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid time block"), issues)
	}
	return nil
}

// checkConflicts rejects blocks overlapping each other or the user's other courses.
func (s *CourseService) checkConflicts(input models.CourseInput, existing []models.Course, courseID string) error {
	committed := timetable.CourseSpans(existing)
	var (
		issues   []BlockIssue
		accepted []timetable.Span
	)
	for i, block := range input.Blocks {
		candidate := timetable.Span{Day: block.Day, Start: block.Start, End: block.End}
		if clashes := s.detector.Conflicts(candidate, timetable.ExcludeOwner(courseID), committed); len(clashes) > 0 {
			issues = append(issues, BlockIssue{Index: i, Day: block.Day, Start: block.Start, End: block.End, Reason: "overlaps another course", ConflictID: clashes[0].Owner})
			continue
		}
		if clashes := s.detector.Conflicts(candidate, nil, accepted); len(clashes) > 0 {
			issues = append(issues, BlockIssue{Index: i, Day: block.Day, Start: block.Start, End: block.End, Reason: "overlaps another block of this course"})
			continue
		}
		accepted = append(accepted, candidate)
	}
	if len(issues) == 0 {
		return nil
	}
	s.metrics.RecordScheduleConflict()
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, "time blocks overlap"), issues)
}

func (s *CourseService) invalidate(ctx context.Context, userID string) {
	_ = s.cache.Invalidate(ctx, courseListKey(userID))
}

func courseListKey(userID string) string {
	return cache.Key("courses", "user", userID)
}

func normalizeCourseInput(input models.CourseInput) models.CourseInput {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Instructor = strings.TrimSpace(input.Instructor)
	input.Location = strings.TrimSpace(input.Location)
	input.Color = strings.TrimSpace(input.Color)
	return input
}

func toTimeBlocks(inputs []models.BlockInput) []models.TimeBlock {
	blocks := make([]models.TimeBlock, 0, len(inputs))
	for _, in := range inputs {
		blocks = append(blocks, models.TimeBlock{Day: in.Day, Start: in.Start, End: in.End})
	}
	return blocks
}
