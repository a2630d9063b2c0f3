package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentora-api/internal/models"
)

func selectRange(sel *Selector, day models.WeekDay, start, end int) {
	sel.Tap(day, start)
	sel.Tap(day, end-1)
}

func TestCommitSelectionKeepsInsertionOrder(t *testing.T) {
	manager := NewDraftManager(DefaultGrid())
	sel := NewSelector(models.Monday)

	for _, r := range []struct {
		day        models.WeekDay
		start, end int
	}{
		{models.Monday, 0, 2},
		{models.Tuesday, 4, 6},
		{models.Monday, 10, 12},
	} {
		selectRange(sel, r.day, r.start, r.end)
		_, err := manager.CommitSelection(sel, nil)
		require.NoError(t, err)
	}

	drafts := manager.Drafts()
	require.Len(t, drafts, 3)
	assert.Equal(t, DraftBlock{ID: "Mon-06:00-07:00", Day: models.Monday, Start: "06:00", End: "07:00"}, drafts[0])
	assert.Equal(t, DraftBlock{ID: "Tue-08:00-09:00", Day: models.Tuesday, Start: "08:00", End: "09:00"}, drafts[1])
	assert.Equal(t, DraftBlock{ID: "Mon-11:00-12:00", Day: models.Monday, Start: "11:00", End: "12:00"}, drafts[2])
}

func TestCommitSelectionResetsSelector(t *testing.T) {
	manager := NewDraftManager(DefaultGrid())
	sel := NewSelector(models.Monday)
	selectRange(sel, models.Friday, 2, 4)

	_, err := manager.CommitSelection(sel, nil)
	require.NoError(t, err)

	assert.Equal(t, SelectionState{Day: models.Friday, Start: NoSlot, End: NoSlot}, sel.State())
}

func TestCommitSelectionIncomplete(t *testing.T) {
	manager := NewDraftManager(DefaultGrid())
	sel := NewSelector(models.Monday)

	assert.False(t, manager.CanCommitSelection(sel.State()))
	_, err := manager.CommitSelection(sel, nil)
	assert.ErrorIs(t, err, ErrSelectionIncomplete)

	sel.Tap(models.Monday, 3)
	assert.False(t, manager.CanCommitSelection(sel.State()))
	_, err = manager.CommitSelection(sel, nil)
	assert.ErrorIs(t, err, ErrSelectionIncomplete)
	assert.Equal(t, 3, sel.State().Start, "failed commit leaves the selection alone")
	assert.Empty(t, manager.Drafts())
}

func TestCommitSelectionRejectsOccupiedCells(t *testing.T) {
	grid := DefaultGrid()
	manager := NewDraftManager(grid)
	sel := NewSelector(models.Monday)
	detector := NewDetector(grid)
	blocked := func(day models.WeekDay, index int) bool {
		return detector.IsSlotBlocked(day, index, nil, manager.Spans())
	}

	selectRange(sel, models.Monday, 4, 8)
	first, err := manager.CommitSelection(sel, blocked)
	require.NoError(t, err)
	assert.Equal(t, "08:00", first.Start)
	assert.Equal(t, "10:00", first.End)

	// 07:00-09:00 runs into the first draft
	selectRange(sel, models.Monday, 2, 6)
	_, err = manager.CommitSelection(sel, blocked)
	assert.ErrorIs(t, err, ErrSelectionBlocked)
	assert.Len(t, manager.Drafts(), 1)
	assert.True(t, sel.State().Complete())
}

func TestRemoveAndReplaceDrafts(t *testing.T) {
	seed := DraftsFromBlocks([]models.TimeBlock{
		{ID: "b1", Day: models.Monday, Start: "09:00", End: "10:00"},
		{Day: models.Tuesday, Start: "09:00", End: "10:00"},
	})
	manager := NewDraftManager(DefaultGrid(), seed...)

	drafts := manager.Drafts()
	require.Len(t, drafts, 2)
	assert.Equal(t, "b1", drafts[0].ID)
	assert.Equal(t, "Tue-09:00-10:00", drafts[1].ID)

	assert.True(t, manager.Remove("b1"))
	assert.False(t, manager.Remove("b1"))
	assert.Equal(t, 1, manager.Len())

	manager.Replace(nil)
	assert.Empty(t, manager.Drafts())
}

func TestDraftsReturnsCopy(t *testing.T) {
	manager := NewDraftManager(DefaultGrid(), DraftBlock{ID: "x", Day: models.Monday, Start: "09:00", End: "10:00"})

	drafts := manager.Drafts()
	drafts[0].ID = "mutated"

	assert.Equal(t, "x", manager.Drafts()[0].ID)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#3B82F6", ColorFor(0))
	assert.Equal(t, "#F97316", ColorFor(6))
	assert.Equal(t, "#3B82F6", ColorFor(7))
	assert.Equal(t, "#F59E0B", ColorFor(8))
}
