package timetable

import (
	"errors"
	"fmt"

	"github.com/noah-isme/mentora-api/internal/models"
)

var (
	// ErrSelectionIncomplete is returned when a commit is attempted without a full range.
	ErrSelectionIncomplete = errors.New("selection has no start and end slot")
	// ErrSelectionBlocked is returned when the selected range covers an occupied slot.
	ErrSelectionBlocked = errors.New("selection overlaps an occupied slot")
)

// OccupancyFunc reports whether a cell is taken.
type OccupancyFunc func(day models.WeekDay, index int) bool

// DraftBlock is a block staged for a course that has not been saved yet.
type DraftBlock struct {
	ID    string         `json:"id"`
	Day   models.WeekDay `json:"day"`
	Start string         `json:"start"`
	End   string         `json:"end"`
}

// DraftID is the local identity of a staged block.
func DraftID(day models.WeekDay, start, end string) string {
	return fmt.Sprintf("%s-%s-%s", day, start, end)
}

// DraftsFromBlocks converts persisted blocks back into drafts, keeping their ids.
func DraftsFromBlocks(blocks []models.TimeBlock) []DraftBlock {
	drafts := make([]DraftBlock, 0, len(blocks))
	for _, block := range blocks {
		id := block.ID
		if id == "" {
			id = DraftID(block.Day, block.Start, block.End)
		}
		drafts = append(drafts, DraftBlock{ID: id, Day: block.Day, Start: block.Start, End: block.End})
	}
	return drafts
}

// DraftManager owns the staged blocks of one course interaction, in insertion order.
type DraftManager struct {
	grid   Grid
	drafts []DraftBlock
}

// NewDraftManager creates a manager optionally seeded with existing drafts.
func NewDraftManager(grid Grid, seed ...DraftBlock) *DraftManager {
	m := &DraftManager{grid: grid}
	m.Replace(seed)
	return m
}

// CanCommitSelection reports whether sel is a complete range.
func (m *DraftManager) CanCommitSelection(sel SelectionState) bool {
	return sel.Complete()
}

// CommitSelection appends the selector's range as a draft and resets the selector.
// Nothing changes when the selection is incomplete or any covered cell is occupied.
func (m *DraftManager) CommitSelection(sel *Selector, blocked OccupancyFunc) (DraftBlock, error) {
	state := sel.State()
	if !m.CanCommitSelection(state) {
		return DraftBlock{}, ErrSelectionIncomplete
	}
	if blocked != nil {
		for index := state.Start; index < state.End; index++ {
			if blocked(state.Day, index) {
				return DraftBlock{}, ErrSelectionBlocked
			}
		}
	}

	start := m.grid.IndexToTime(state.Start)
	end := m.grid.IndexToTime(state.End)
	draft := DraftBlock{ID: DraftID(state.Day, start, end), Day: state.Day, Start: start, End: end}
	m.drafts = append(m.drafts, draft)
	sel.Reset(state.Day)
	return draft, nil
}

// Remove drops the draft with id and reports whether one was found.
func (m *DraftManager) Remove(id string) bool {
	for i, draft := range m.drafts {
		if draft.ID == id {
			m.drafts = append(m.drafts[:i], m.drafts[i+1:]...)
			return true
		}
	}
	return false
}

// Drafts returns a copy of the staged blocks.
func (m *DraftManager) Drafts() []DraftBlock {
	out := make([]DraftBlock, len(m.drafts))
	copy(out, m.drafts)
	return out
}

// Len is the number of staged blocks.
func (m *DraftManager) Len() int {
	return len(m.drafts)
}

// Spans exposes the drafts to the occupancy detector.
func (m *DraftManager) Spans() []Span {
	return DraftSpans(m.drafts)
}

// Replace swaps the whole draft list.
func (m *DraftManager) Replace(drafts []DraftBlock) {
	m.drafts = make([]DraftBlock, len(drafts))
	copy(m.drafts, drafts)
}
