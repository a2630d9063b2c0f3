package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	"github.com/noah-isme/mentora-api/internal/timetable"
	"github.com/noah-isme/mentora-api/pkg/config"
)

type fakeStore struct {
	courses []models.Course
	nextID  int
	listErr error
}

func (f *fakeStore) SlotTable(ctx context.Context) (*models.SlotTable, error) {
	grid := timetable.DefaultGrid()
	return &models.SlotTable{
		StartHour:   grid.StartHour,
		EndHour:     grid.EndHour,
		SlotMinutes: grid.SlotMinutes,
		TotalSlots:  grid.TotalSlots(),
		Days:        models.WeekDays,
		Slots:       grid.SlotTable(),
	}, nil
}

func (f *fakeStore) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Course{}
	for _, c := range f.courses {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	f.nextID++
	course := f.build(fmt.Sprintf("course-%d", f.nextID), input)
	f.courses = append(f.courses, course)
	return &course, nil
}

func (f *fakeStore) UpdateCourse(ctx context.Context, courseID string, input models.CourseInput) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == courseID {
			f.courses[i] = f.build(courseID, input)
			course := f.courses[i]
			return &course, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeStore) DeleteAllCourses(ctx context.Context, userID string) error {
	kept := f.courses[:0]
	for _, c := range f.courses {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	f.courses = kept
	return nil
}

func (f *fakeStore) build(id string, input models.CourseInput) models.Course {
	course := models.Course{
		ID:         id,
		UserID:     input.UserID,
		Name:       input.Name,
		Instructor: input.Instructor,
		Location:   input.Location,
		Color:      input.Color,
	}
	for i, block := range input.Blocks {
		course.Blocks = append(course.Blocks, models.TimeBlock{
			ID:    fmt.Sprintf("%s-b%d", id, i),
			Day:   block.Day,
			Start: block.Start,
			End:   block.End,
		})
	}
	return course
}

func newTestApp(store *fakeStore) (*App, *bytes.Buffer) {
	cfg := &config.Config{
		Auth:   config.AuthConfig{Secret: "cli-secret", Issuer: "mentora"},
		Client: config.ClientConfig{UserID: "user-1"},
	}
	app := NewApp(store, cfg, nil)
	out := &bytes.Buffer{}
	app.SetOutput(out)
	return app, out
}

func run(t *testing.T, store *fakeStore, args ...string) (string, error) {
	t.Helper()
	app, out := newTestApp(store)
	app.root.SetArgs(args)
	err := app.Execute(context.Background())
	return out.String(), err
}

func TestParseBlockSpec(t *testing.T) {
	arg, err := parseBlockArg("Mon:08:00-10:00")
	require.NoError(t, err)
	assert.Equal(t, blockArg{Day: models.Monday, Start: "08:00", End: "10:00"}, arg)
	assert.Equal(t, "Mon:08:00-10:00", arg.String())

	for _, raw := range []string{"", "Mon", "Funday:08:00-10:00", "Mon:08:00", "Mon08:00-10:00"} {
		_, err := parseBlockArg(raw)
		assert.Error(t, err, raw)
	}
}

func TestAddAndListCourses(t *testing.T) {
	store := &fakeStore{}

	out, err := run(t, store, "add", "Linear Algebra", "--block=Mon:08:00-10:00", "--block=Wed:08:00-09:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Created course course-1: Linear Algebra (Mon 08:00-10:00, Wed 08:00-09:30)")

	require.Len(t, store.courses, 1)
	created := store.courses[0]
	assert.Equal(t, timetable.DefaultInstructor, created.Instructor)
	assert.Equal(t, timetable.DefaultLocation, created.Location)
	assert.Equal(t, timetable.ColorFor(0), created.Color)

	out, err = run(t, store, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Linear Algebra")
	assert.Contains(t, out, "Wed 08:00-09:30")

	out, err = run(t, store, "day", "Wed")
	require.NoError(t, err)
	assert.Equal(t, "08:00-09:30  Linear Algebra\n", out)
}

func TestAddRejectsOverlapAndOffGridBlocks(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, "add", "Algebra", "--block=Mon:08:00-10:00")
	require.NoError(t, err)

	_, err = run(t, store, "add", "Physics", "--block=Mon:09:00-11:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), timetable.MessageRangeBlocked)

	_, err = run(t, store, "add", "Physics", "--block=Mon:07:00-09:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), timetable.MessageRangeBlocked)

	_, err = run(t, store, "add", "Physics", "--block=Mon:08:15-09:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit")

	_, err = run(t, store, "add", "Physics", "--block=Tue:10:00-10:00")
	require.Error(t, err)

	assert.Len(t, store.courses, 1)
}

func TestAddAllowsBlockEndingAtMidnight(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, "add", "Late Lab", "--block=Sun:23:00-24:00")
	require.NoError(t, err)
	require.Len(t, store.courses, 1)
	assert.Equal(t, "24:00", store.courses[0].Blocks[0].End)
}

func TestEditCourseMovesBlock(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, "add", "Algebra", "--block=Mon:08:00-10:00")
	require.NoError(t, err)

	out, err := run(t, store, "edit", "course-1", "--name=Algebra II", "--remove=Mon:08:00-10:00", "--block=Mon:09:00-11:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated course course-1: Algebra II (Mon 09:00-11:00)")

	_, err = run(t, store, "edit", "course-1", "--remove=course-1-b0", "--block=Tue:06:00-06:30")
	require.NoError(t, err)
	require.Len(t, store.courses[0].Blocks, 1)
	assert.Equal(t, models.Tuesday, store.courses[0].Blocks[0].Day)

	_, err = run(t, store, "edit", "course-1", "--remove=Fri:08:00-09:00")
	assert.Error(t, err)

	_, err = run(t, store, "edit", "missing")
	assert.ErrorIs(t, err, timetable.ErrCourseNotFound)
}

func TestEditCannotDropLastBlock(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, "add", "Algebra", "--block=Mon:08:00-10:00")
	require.NoError(t, err)

	_, err = run(t, store, "edit", "course-1", "--remove=Mon:08:00-10:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), timetable.MessageFormInvalid)
	assert.Len(t, store.courses[0].Blocks, 1)
}

func TestClearRequiresConfirmation(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, "add", "Algebra", "--block=Mon:08:00-10:00")
	require.NoError(t, err)

	_, err = run(t, store, "clear")
	require.Error(t, err)
	assert.Len(t, store.courses, 1)

	out, err := run(t, store, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared schedule of user-1")
	assert.Empty(t, store.courses)
}

func TestAvailabilityAndSlots(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, "add", "Algebra", "--block=Thu:12:00-13:00")
	require.NoError(t, err)

	out, err := run(t, store, "availability")
	require.NoError(t, err)
	assert.Contains(t, out, "Thu  12:00-13:00 Algebra")
	assert.Contains(t, out, "Mon  free")

	out, err = run(t, store, "slots")
	require.NoError(t, err)
	assert.Contains(t, out, "06:00-24:00, 30 min slots, 36 per day")
	assert.Contains(t, out, " 35  23:30")
}

func TestCommandsNeedUser(t *testing.T) {
	_, err := run(t, &fakeStore{}, "list", "--user=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user")
}

func TestListReportsLoadFailure(t *testing.T) {
	_, err := run(t, &fakeStore{listErr: errors.New("boom")}, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading courses")
}

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	out, err := run(t, &fakeStore{}, "token", "--user=user-9", "--username=ana")
	require.NoError(t, err)

	tokens := service.NewTokenService(service.TokenConfig{Secret: "cli-secret", Issuer: "mentora"})
	claims, err := tokens.ValidateToken(trimNewline(out))
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
	assert.Equal(t, "ana", claims.Username)
}

func trimNewline(s string) string {
	return string(bytes.TrimRight([]byte(s), "\n"))
}

func TestExportWritesCSV(t *testing.T) {
	store := &fakeStore{}
	_, err := run(t, store, "add", "Algebra", "--block=Tue:08:00-09:00")
	require.NoError(t, err)

	out, err := run(t, store, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "day,start,end,course")
	assert.Contains(t, out, "Tue,08:00,09:00,Algebra,Instructor TBD,Location TBD")

	path := t.TempDir() + "/schedule.csv"
	out, err = run(t, store, "export", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tue,08:00,09:00,Algebra")
}
