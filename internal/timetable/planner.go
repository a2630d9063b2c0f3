package timetable

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
)

// ErrCourseNotFound is returned when editing a course the planner has not loaded.
var ErrCourseNotFound = errors.New("course not found")

// CourseStore persists courses for one user account.
type CourseStore interface {
	ListCourses(ctx context.Context, userID string) ([]models.Course, error)
	CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, courseID string, input models.CourseInput) (*models.Course, error)
	DeleteAllCourses(ctx context.Context, userID string) error
}

// Planner keeps the authoritative course list of a user and opens add/edit sessions on it.
type Planner struct {
	store    CourseStore
	grid     Grid
	detector Detector
	userID   string
	logger   *zap.Logger
	courses  []models.Course
}

// NewPlanner constructs a planner for userID.
func NewPlanner(store CourseStore, grid Grid, userID string, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		store:    store,
		grid:     grid,
		detector: NewDetector(grid),
		userID:   userID,
		logger:   logger,
	}
}

// Load replaces the course list with the store's. The previous list is kept on failure.
func (p *Planner) Load(ctx context.Context) error {
	courses, err := p.store.ListCourses(ctx, p.userID)
	if err != nil {
		p.logger.Warn("failed to load courses", zap.String("user_id", p.userID), zap.Error(err))
		return err
	}
	p.courses = courses
	return nil
}

// UserID returns the account the planner works for.
func (p *Planner) UserID() string {
	return p.userID
}

// Grid returns the slot grid in use.
func (p *Planner) Grid() Grid {
	return p.grid
}

// Courses returns a copy of the loaded courses.
func (p *Planner) Courses() []models.Course {
	out := make([]models.Course, len(p.courses))
	copy(out, p.courses)
	return out
}

// Course looks up a loaded course by id.
func (p *Planner) Course(courseID string) (models.Course, bool) {
	for _, course := range p.courses {
		if course.ID == courseID {
			return course, true
		}
	}
	return models.Course{}, false
}

// Spans exposes every committed block.
func (p *Planner) Spans() []Span {
	return CourseSpans(p.courses)
}

// BlocksForDay lists the committed blocks of day ordered by start. Blocks with
// unparsable times are left out.
func (p *Planner) BlocksForDay(day models.WeekDay) []models.DayBlock {
	return DayBlocks(p.grid, p.courses, day)
}

// IsSlotBlocked reports whether any committed block covers (day, index).
func (p *Planner) IsSlotBlocked(day models.WeekDay, index int) bool {
	return p.detector.IsSlotBlocked(day, index, nil, p.Spans())
}

// Availability groups the busy intervals of the week by day.
func (p *Planner) Availability() map[models.WeekDay][]models.AvailabilityBlock {
	return Availability(p.grid, p.courses)
}

// NextColor is the palette color for the next new course.
func (p *Planner) NextColor() string {
	return ColorFor(len(p.courses))
}

// ClearSchedule deletes every course of the user. The local list is only emptied once the
// store confirms.
func (p *Planner) ClearSchedule(ctx context.Context) error {
	if err := p.store.DeleteAllCourses(ctx, p.userID); err != nil {
		p.logger.Warn("failed to clear schedule", zap.String("user_id", p.userID), zap.Error(err))
		return err
	}
	p.courses = nil
	return nil
}

// NewCourseSession opens a session creating a course.
func (p *Planner) NewCourseSession() *Session {
	return newSession(p, ModeCreate, models.Course{})
}

// EditCourseSession opens a session editing courseID, seeded with its blocks.
func (p *Planner) EditCourseSession(courseID string) (*Session, error) {
	course, ok := p.Course(courseID)
	if !ok {
		return nil, ErrCourseNotFound
	}
	return newSession(p, ModeEdit, course), nil
}

func (p *Planner) upsert(course models.Course) {
	for i := range p.courses {
		if p.courses[i].ID == course.ID {
			p.courses[i] = course
			return
		}
	}
	p.courses = append(p.courses, course)
}

// DayBlocks flattens the blocks of courses on day, sorted by start index.
func DayBlocks(grid Grid, courses []models.Course, day models.WeekDay) []models.DayBlock {
	var out []models.DayBlock
	for _, course := range courses {
		for _, block := range course.Blocks {
			if block.Day != day {
				continue
			}
			start, end, ok := grid.Range(block.Start, block.End)
			if !ok {
				continue
			}
			out = append(out, models.DayBlock{
				BlockID:    block.ID,
				CourseID:   course.ID,
				CourseName: course.Name,
				Color:      course.Color,
				Day:        day,
				Start:      block.Start,
				End:        block.End,
				StartIndex: start,
				EndIndex:   end,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartIndex < out[j].StartIndex
	})
	return out
}

// Availability lists, for every day with blocks, the busy intervals ordered by start.
func Availability(grid Grid, courses []models.Course) map[models.WeekDay][]models.AvailabilityBlock {
	result := make(map[models.WeekDay][]models.AvailabilityBlock)
	for _, day := range models.WeekDays {
		blocks := DayBlocks(grid, courses, day)
		if len(blocks) == 0 {
			continue
		}
		items := make([]models.AvailabilityBlock, 0, len(blocks))
		for _, block := range blocks {
			items = append(items, models.AvailabilityBlock{Start: block.Start, End: block.End, Course: block.CourseName})
		}
		result[day] = items
	}
	return result
}
