package timetable

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

// Mode tells whether a session creates a course or edits one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

const (
	MessageSelectRange  = "Select a start and end slot first."
	MessageBlockAdded   = "Time block added to this course."
	MessageRangeBlocked = "That range overlaps another time block."
	MessageFormInvalid  = "Add a course name and at least one time block."
	MessageSaveFailed   = "Save failed. Please try again."
	MessageSaved        = "Course saved."

	DefaultInstructor = "Instructor TBD"
	DefaultLocation   = "Location TBD"
)

var (
	// ErrSaveInProgress is returned when Save is called while another save is outstanding.
	ErrSaveInProgress = errors.New("save already in progress")
	// ErrSlotBlocked is returned when tapping an occupied slot.
	ErrSlotBlocked = errors.New("slot is occupied")
	// ErrSlotOutOfRange is returned when tapping outside the grid.
	ErrSlotOutOfRange = errors.New("slot is outside the grid")
)

// CourseForm holds the editable course fields.
type CourseForm struct {
	Name        string
	Description string
	Instructor  string
	Location    string
}

// Session is one add or edit interaction: a selector, the staged drafts and the form.
type Session struct {
	planner  *Planner
	mode     Mode
	courseID string
	color    string
	selector *Selector
	drafts   *DraftManager
	saving   atomic.Bool

	Form CourseForm
}

func newSession(p *Planner, mode Mode, course models.Course) *Session {
	s := &Session{
		planner:  p,
		mode:     mode,
		selector: NewSelector(models.Monday),
		drafts:   NewDraftManager(p.grid),
	}
	if mode == ModeEdit {
		s.bind(course)
	}
	return s
}

func (s *Session) bind(course models.Course) {
	s.mode = ModeEdit
	s.courseID = course.ID
	s.color = course.Color
	s.Form = CourseForm{
		Name:        course.Name,
		Description: course.Description,
		Instructor:  course.Instructor,
		Location:    course.Location,
	}
	s.drafts.Replace(DraftsFromBlocks(course.Blocks))
}

// Mode reports whether the session creates or edits.
func (s *Session) Mode() Mode {
	return s.mode
}

// CourseID is the edited course, empty while creating.
func (s *Session) CourseID() string {
	return s.courseID
}

// Tap forwards a tap to the selector after rejecting cells outside the grid or occupied.
func (s *Session) Tap(day models.WeekDay, index int) (SelectionState, error) {
	if !day.Valid() || !s.planner.grid.ValidIndex(index) {
		return s.selector.State(), ErrSlotOutOfRange
	}
	if s.IsSlotBlocked(day, index) {
		return s.selector.State(), ErrSlotBlocked
	}
	return s.selector.Tap(day, index), nil
}

// Selection returns the current selection snapshot.
func (s *Session) Selection() SelectionState {
	return s.selector.State()
}

// CanAddSelection gates the "add time block" action.
func (s *Session) CanAddSelection() bool {
	return s.drafts.CanCommitSelection(s.selector.State())
}

// AddSelection stages the selected range as a draft.
func (s *Session) AddSelection() (DraftBlock, error) {
	draft, err := s.drafts.CommitSelection(s.selector, s.IsSlotBlocked)
	switch {
	case errors.Is(err, ErrSelectionIncomplete):
		s.selector.SetMessage(MessageSelectRange)
		return DraftBlock{}, err
	case err != nil:
		s.selector.SetMessage(MessageRangeBlocked)
		return DraftBlock{}, err
	}
	s.selector.SetMessage(MessageBlockAdded)
	return draft, nil
}

// RemoveDraft drops a staged block.
func (s *Session) RemoveDraft(id string) bool {
	return s.drafts.Remove(id)
}

// Drafts lists staged blocks in insertion order.
func (s *Session) Drafts() []DraftBlock {
	return s.drafts.Drafts()
}

// IsSlotBlocked checks committed blocks of other courses and the staged drafts.
func (s *Session) IsSlotBlocked(day models.WeekDay, index int) bool {
	return s.planner.detector.IsSlotBlocked(day, index, ExcludeOwner(s.courseID), s.planner.Spans(), s.drafts.Spans())
}

// Message is the advisory text for the current state.
func (s *Session) Message() string {
	return s.selector.Message()
}

// CanSave reports whether the form satisfies the save preconditions.
func (s *Session) CanSave() bool {
	return strings.TrimSpace(s.Form.Name) != "" && s.drafts.Len() > 0
}

// Input builds the store payload from the current form and drafts.
func (s *Session) Input() models.CourseInput {
	color := s.color
	if color == "" {
		color = s.planner.NextColor()
	}
	drafts := s.drafts.Drafts()
	blocks := make([]models.BlockInput, 0, len(drafts))
	for _, draft := range drafts {
		blocks = append(blocks, models.BlockInput{Day: draft.Day, Start: draft.Start, End: draft.End})
	}
	return models.CourseInput{
		UserID:      s.planner.userID,
		Name:        strings.TrimSpace(s.Form.Name),
		Description: strings.TrimSpace(s.Form.Description),
		Instructor:  orDefault(s.Form.Instructor, DefaultInstructor),
		Location:    orDefault(s.Form.Location, DefaultLocation),
		Color:       color,
		Blocks:      blocks,
	}
}

// Save persists the course. Local state only changes after the store succeeds; on
// failure the drafts, selection and form are left as they were.
func (s *Session) Save(ctx context.Context) (*models.Course, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer s.saving.Store(false)

	if !s.CanSave() {
		s.selector.SetMessage(MessageFormInvalid)
		return nil, appErrors.Clone(appErrors.ErrValidation, MessageFormInvalid)
	}

	input := s.Input()
	var (
		course *models.Course
		err    error
	)
	if s.mode == ModeEdit {
		course, err = s.planner.store.UpdateCourse(ctx, s.courseID, input)
	} else {
		course, err = s.planner.store.CreateCourse(ctx, input)
	}
	if err != nil {
		s.planner.logger.Warn("failed to save course",
			zap.String("mode", string(s.mode)),
			zap.String("course_id", s.courseID),
			zap.Error(err),
		)
		s.selector.SetMessage(MessageSaveFailed)
		return nil, err
	}

	s.planner.upsert(*course)
	s.bind(*course)
	s.selector.Reset(s.selector.State().Day)
	s.selector.SetMessage(MessageSaved)
	return course, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
