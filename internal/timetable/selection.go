package timetable

import "github.com/noah-isme/mentora-api/internal/models"

// NoSlot marks an unset selection bound.
const NoSlot = -1

// Phase names the stage of a two-tap selection.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseAnchored Phase = "anchored"
	PhaseRanged   Phase = "ranged"
)

// SelectionState is an immutable snapshot of a selection. End is exclusive.
type SelectionState struct {
	Day   models.WeekDay `json:"day"`
	Start int            `json:"start"`
	End   int            `json:"end"`
}

// Phase derives the stage from the bounds.
func (s SelectionState) Phase() Phase {
	switch {
	case s.Start == NoSlot:
		return PhaseIdle
	case s.End == NoSlot:
		return PhaseAnchored
	default:
		return PhaseRanged
	}
}

// Complete reports whether the selection describes a non-empty range.
func (s SelectionState) Complete() bool {
	return s.Start != NoSlot && s.End != NoSlot && s.End > s.Start
}

// Selector turns single-slot taps into a [start, end) range. It does not check occupancy:
// callers must not tap slots reported as blocked.
type Selector struct {
	state   SelectionState
	message string
}

// NewSelector starts idle on day; an empty day defaults to Monday.
func NewSelector(day models.WeekDay) *Selector {
	s := &Selector{}
	s.Reset(day)
	return s
}

// Tap registers a tap on (day, index) and returns the resulting state.
func (s *Selector) Tap(day models.WeekDay, index int) SelectionState {
	s.message = ""

	current := s.state
	if day != current.Day || current.Phase() != PhaseAnchored {
		s.state = SelectionState{Day: day, Start: index, End: NoSlot}
		return s.state
	}

	proposedEnd := index + 1
	if proposedEnd <= current.Start {
		// tapping at or before the anchor moves the anchor
		s.state = SelectionState{Day: day, Start: index, End: NoSlot}
		return s.state
	}

	s.state.End = proposedEnd
	return s.state
}

// State returns the current snapshot.
func (s *Selector) State() SelectionState {
	return s.state
}

// Reset returns to idle on day.
func (s *Selector) Reset(day models.WeekDay) {
	if day == "" {
		day = models.Monday
	}
	s.state = SelectionState{Day: day, Start: NoSlot, End: NoSlot}
	s.message = ""
}

// Message is the advisory text shown next to the grid.
func (s *Selector) Message() string {
	return s.message
}

// SetMessage replaces the advisory text until the next transition.
func (s *Selector) SetMessage(message string) {
	s.message = message
}
