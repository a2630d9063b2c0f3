package timetable

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type fakeStore struct {
	courses   []models.Course
	created   []models.CourseInput
	updated   map[string]models.CourseInput
	listErr   error
	saveErr   error
	deleteErr error
	seq       int
	onSave    func()
}

func (f *fakeStore) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.courses, nil
}

func (f *fakeStore) CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	if f.onSave != nil {
		f.onSave()
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = append(f.created, input)
	f.seq++
	return f.persist(fmt.Sprintf("course-%d", f.seq), input), nil
}

func (f *fakeStore) UpdateCourse(ctx context.Context, courseID string, input models.CourseInput) (*models.Course, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.updated == nil {
		f.updated = make(map[string]models.CourseInput)
	}
	f.updated[courseID] = input
	return f.persist(courseID, input), nil
}

func (f *fakeStore) DeleteAllCourses(ctx context.Context, userID string) error {
	return f.deleteErr
}

func (f *fakeStore) persist(id string, input models.CourseInput) *models.Course {
	course := &models.Course{
		ID:          id,
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		Instructor:  input.Instructor,
		Location:    input.Location,
		Color:       input.Color,
	}
	for i, block := range input.Blocks {
		course.Blocks = append(course.Blocks, models.TimeBlock{
			ID:       fmt.Sprintf("%s-block-%d", id, i+1),
			CourseID: id,
			Day:      block.Day,
			Start:    block.Start,
			End:      block.End,
			Position: i,
		})
	}
	return course
}

func newTestPlanner(t *testing.T, store *fakeStore) *Planner {
	t.Helper()
	planner := NewPlanner(store, DefaultGrid(), "user-1", nil)
	require.NoError(t, planner.Load(context.Background()))
	return planner
}

func TestSessionEndToEndScenario(t *testing.T) {
	planner := newTestPlanner(t, &fakeStore{})
	session := planner.NewCourseSession()

	_, err := session.Tap(models.Monday, 4)
	require.NoError(t, err)
	state, err := session.Tap(models.Monday, 7)
	require.NoError(t, err)
	assert.Equal(t, SelectionState{Day: models.Monday, Start: 4, End: 8}, state)

	draft, err := session.AddSelection()
	require.NoError(t, err)
	assert.Equal(t, DraftBlock{ID: "Mon-08:00-10:00", Day: models.Monday, Start: "08:00", End: "10:00"}, draft)
	assert.Equal(t, MessageBlockAdded, session.Message())

	// the draft now occupies 08:00-10:00
	assert.True(t, session.IsSlotBlocked(models.Monday, 4))
	assert.True(t, session.IsSlotBlocked(models.Monday, 5))
	assert.False(t, session.IsSlotBlocked(models.Monday, 8))

	_, err = session.Tap(models.Monday, 4)
	assert.ErrorIs(t, err, ErrSlotBlocked)

	_, err = session.Tap(models.Monday, 2)
	require.NoError(t, err)
	_, err = session.Tap(models.Monday, 5)
	require.ErrorIs(t, err, ErrSlotBlocked)
	_, err = session.Tap(models.Monday, 9)
	require.NoError(t, err)
	_, err = session.AddSelection()
	assert.ErrorIs(t, err, ErrSelectionBlocked)
	assert.Equal(t, MessageRangeBlocked, session.Message())
	assert.Len(t, session.Drafts(), 1)
}

func TestSessionAddSelectionRequiresRange(t *testing.T) {
	planner := newTestPlanner(t, &fakeStore{})
	session := planner.NewCourseSession()

	assert.False(t, session.CanAddSelection())
	_, err := session.AddSelection()
	assert.ErrorIs(t, err, ErrSelectionIncomplete)
	assert.Equal(t, MessageSelectRange, session.Message())

	_, err = session.Tap(models.Monday, 1)
	require.NoError(t, err)
	assert.Empty(t, session.Message())
}

func TestSessionTapOutOfRange(t *testing.T) {
	planner := newTestPlanner(t, &fakeStore{})
	session := planner.NewCourseSession()

	_, err := session.Tap(models.Monday, 36)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
	_, err = session.Tap(models.WeekDay("Xyz"), 1)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
}

func TestSessionSaveValidation(t *testing.T) {
	store := &fakeStore{}
	planner := newTestPlanner(t, store)

	t.Run("empty name with one block", func(t *testing.T) {
		session := planner.NewCourseSession()
		session.Form.Name = "  "
		addBlock(t, session, models.Monday, 0, 2)

		_, err := session.Save(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
		assert.Equal(t, MessageFormInvalid, session.Message())
		assert.Len(t, session.Drafts(), 1)
	})

	t.Run("name without blocks", func(t *testing.T) {
		session := planner.NewCourseSession()
		session.Form.Name = "CS101"

		_, err := session.Save(context.Background())
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
	})

	assert.Empty(t, store.created, "store is not called on validation failure")

	t.Run("name and one block", func(t *testing.T) {
		session := planner.NewCourseSession()
		session.Form.Name = " CS101 "
		addBlock(t, session, models.Monday, 0, 2)

		course, err := session.Save(context.Background())
		require.NoError(t, err)
		require.Len(t, course.Blocks, 1)
		assert.NotEmpty(t, course.Blocks[0].ID)
		assert.Equal(t, "CS101", course.Name)
		assert.Equal(t, DefaultInstructor, course.Instructor)
		assert.Equal(t, DefaultLocation, course.Location)
		assert.Equal(t, Palette[0], course.Color)

		assert.Equal(t, ModeEdit, session.Mode())
		assert.Equal(t, course.ID, session.CourseID())
		assert.Equal(t, course.Blocks[0].ID, session.Drafts()[0].ID)
		assert.Len(t, planner.Courses(), 1)
		assert.Equal(t, MessageSaved, session.Message())
	})
}

func TestSessionSaveFailurePreservesState(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("network down")}
	planner := newTestPlanner(t, store)
	session := planner.NewCourseSession()
	session.Form.Name = "Physics"
	addBlock(t, session, models.Tuesday, 2, 4)
	_, err := session.Tap(models.Wednesday, 6)
	require.NoError(t, err)

	_, err = session.Save(context.Background())

	assert.Equal(t, store.saveErr, err)
	assert.Equal(t, MessageSaveFailed, session.Message())
	assert.Len(t, session.Drafts(), 1)
	assert.Equal(t, "Physics", session.Form.Name)
	assert.Equal(t, SelectionState{Day: models.Wednesday, Start: 6, End: NoSlot}, session.Selection())
	assert.Empty(t, planner.Courses(), "no optimistic update")
	assert.Equal(t, ModeCreate, session.Mode())

	store.saveErr = nil
	course, err := session.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "course-1", course.ID)
}

func TestSessionSaveRejectsConcurrentSave(t *testing.T) {
	store := &fakeStore{}
	planner := newTestPlanner(t, store)
	session := planner.NewCourseSession()
	session.Form.Name = "Biology"
	addBlock(t, session, models.Monday, 0, 2)

	var nested error
	store.onSave = func() {
		_, nested = session.Save(context.Background())
	}

	_, err := session.Save(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, nested, ErrSaveInProgress)
	assert.Len(t, store.created, 1)
}

func TestEditSessionSelfExclusion(t *testing.T) {
	store := &fakeStore{courses: []models.Course{
		{ID: "course-a", Name: "A", Color: "#10B981", Blocks: []models.TimeBlock{{ID: "a1", Day: models.Monday, Start: "09:00", End: "10:00"}}},
		{ID: "course-b", Name: "B", Blocks: []models.TimeBlock{{ID: "b1", Day: models.Tuesday, Start: "09:00", End: "10:00"}}},
	}}
	planner := newTestPlanner(t, store)

	session, err := planner.EditCourseSession("course-a")
	require.NoError(t, err)
	assert.Equal(t, "A", session.Form.Name)
	require.Len(t, session.Drafts(), 1)
	assert.Equal(t, "a1", session.Drafts()[0].ID)

	detector := NewDetector(planner.Grid())
	assert.False(t, detector.IsSlotBlocked(models.Monday, 6, ExcludeOwner("course-a"), planner.Spans()))
	assert.True(t, detector.IsSlotBlocked(models.Tuesday, 6, ExcludeOwner("course-a"), planner.Spans()))
	assert.True(t, planner.IsSlotBlocked(models.Monday, 6))

	// once its own draft is dropped the earlier range can be tapped again
	require.True(t, session.RemoveDraft("a1"))
	assert.False(t, session.IsSlotBlocked(models.Monday, 6))
	assert.True(t, session.IsSlotBlocked(models.Tuesday, 6))
	addBlock(t, session, models.Monday, 6, 8)

	_, err = session.Tap(models.Tuesday, 6)
	assert.ErrorIs(t, err, ErrSlotBlocked)

	course, err := session.Save(context.Background())
	require.NoError(t, err)
	input := store.updated["course-a"]
	assert.Equal(t, "#10B981", input.Color)
	assert.Equal(t, []models.BlockInput{{Day: models.Monday, Start: "09:00", End: "10:00"}}, input.Blocks)
	assert.Equal(t, "course-a", course.ID)
	assert.Len(t, planner.Courses(), 2, "edited course is replaced, not appended")
}

func TestEditCourseSessionUnknownCourse(t *testing.T) {
	planner := newTestPlanner(t, &fakeStore{})

	_, err := planner.EditCourseSession("missing")

	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestPlannerReadModels(t *testing.T) {
	store := &fakeStore{courses: []models.Course{
		{ID: "a", Name: "Algebra", Color: "#3B82F6", Blocks: []models.TimeBlock{
			{ID: "a2", Day: models.Monday, Start: "13:00", End: "14:00"},
			{ID: "a1", Day: models.Monday, Start: "08:00", End: "09:00"},
			{ID: "a3", Day: models.Monday, Start: "bad", End: "09:00"},
		}},
		{ID: "b", Name: "Biology", Blocks: []models.TimeBlock{{ID: "b1", Day: models.Monday, Start: "10:00", End: "11:30"}}},
	}}
	planner := newTestPlanner(t, store)

	blocks := planner.BlocksForDay(models.Monday)
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"a1", "b1", "a2"}, []string{blocks[0].BlockID, blocks[1].BlockID, blocks[2].BlockID})
	assert.Equal(t, 4, blocks[0].StartIndex)
	assert.Equal(t, 6, blocks[0].EndIndex)
	assert.Empty(t, planner.BlocksForDay(models.Tuesday))

	availability := planner.Availability()
	assert.Len(t, availability, 1)
	assert.Equal(t, models.AvailabilityBlock{Start: "10:00", End: "11:30", Course: "Biology"}, availability[models.Monday][1])

	assert.Equal(t, Palette[2], planner.NextColor())
}

func TestPlannerLoadAndClearFailures(t *testing.T) {
	store := &fakeStore{courses: []models.Course{{ID: "a"}}}
	planner := newTestPlanner(t, store)

	store.listErr = errors.New("timeout")
	require.Error(t, planner.Load(context.Background()))
	assert.Len(t, planner.Courses(), 1, "previous list survives a failed load")

	store.deleteErr = errors.New("timeout")
	require.Error(t, planner.ClearSchedule(context.Background()))
	assert.Len(t, planner.Courses(), 1)

	store.deleteErr = nil
	require.NoError(t, planner.ClearSchedule(context.Background()))
	assert.Empty(t, planner.Courses())
}

func addBlock(t *testing.T, session *Session, day models.WeekDay, start, end int) {
	t.Helper()
	_, err := session.Tap(day, start)
	require.NoError(t, err)
	_, err = session.Tap(day, end-1)
	require.NoError(t, err)
	_, err = session.AddSelection()
	require.NoError(t, err)
}
