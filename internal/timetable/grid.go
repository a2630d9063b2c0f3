// Package timetable implements the weekly time-block scheduling engine: slot indexing,
// occupancy detection, the two-tap range selection and the draft/save workflow for courses.
package timetable

import (
	"fmt"
	"strconv"
)

// InvalidIndex is returned by TimeToIndex for malformed or out-of-window times.
const InvalidIndex = -1

const (
	DefaultStartHour   = 6
	DefaultEndHour     = 24
	DefaultSlotMinutes = 30
)

// Grid discretises the operating window of a day into fixed-size slots.
type Grid struct {
	StartHour   int
	EndHour     int
	SlotMinutes int
}

// DefaultGrid covers 06:00-24:00 in 30 minute slots.
func DefaultGrid() Grid {
	return Grid{StartHour: DefaultStartHour, EndHour: DefaultEndHour, SlotMinutes: DefaultSlotMinutes}
}

// NewGrid validates the window and slot size.
func NewGrid(startHour, endHour, slotMinutes int) (Grid, error) {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return Grid{}, fmt.Errorf("invalid operating window %02d:00-%02d:00", startHour, endHour)
	}
	if slotMinutes <= 0 || slotMinutes > 60 || 60%slotMinutes != 0 {
		return Grid{}, fmt.Errorf("slot size %d must divide an hour", slotMinutes)
	}
	return Grid{StartHour: startHour, EndHour: endHour, SlotMinutes: slotMinutes}, nil
}

// SlotsPerHour is 60 / SlotMinutes.
func (g Grid) SlotsPerHour() int {
	return 60 / g.SlotMinutes
}

// TotalSlots is the number of slots in one day of the grid.
func (g Grid) TotalSlots() int {
	return (g.EndHour - g.StartHour) * g.SlotsPerHour()
}

// ValidIndex reports whether index addresses a slot cell.
func (g Grid) ValidIndex(index int) bool {
	return index >= 0 && index < g.TotalSlots()
}

// TimeToIndex parses an "HH:MM" wall time into a slot index. The window end itself
// (e.g. "24:00") maps to TotalSlots so it can close a block.
func (g Grid) TimeToIndex(wall string) int {
	if len(wall) != 5 || wall[2] != ':' || !isDigits(wall[:2]) || !isDigits(wall[3:]) {
		return InvalidIndex
	}
	hour, _ := strconv.Atoi(wall[:2])
	minute, _ := strconv.Atoi(wall[3:])
	if hour < g.StartHour || hour > g.EndHour {
		return InvalidIndex
	}
	if minute >= 60 || minute%g.SlotMinutes != 0 {
		return InvalidIndex
	}
	index := (hour-g.StartHour)*g.SlotsPerHour() + minute/g.SlotMinutes
	if index < 0 || index > g.TotalSlots() {
		return InvalidIndex
	}
	return index
}

// IndexToTime renders the wall time at the start of slot index.
func (g Grid) IndexToTime(index int) string {
	total := g.StartHour*60 + index*g.SlotMinutes
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// SlotTable lists the label of every slot in ascending order.
func (g Grid) SlotTable() []string {
	slots := make([]string, 0, g.TotalSlots())
	for i := 0; i < g.TotalSlots(); i++ {
		slots = append(slots, g.IndexToTime(i))
	}
	return slots
}

// Duration returns the length in minutes of the [start, end) range.
func (g Grid) Duration(start, end int) int {
	return (end - start) * g.SlotMinutes
}

// Range parses a wall-clock pair into slot indices; ok is false when either side is
// invalid or end does not follow start.
func (g Grid) Range(start, end string) (startIndex, endIndex int, ok bool) {
	startIndex = g.TimeToIndex(start)
	endIndex = g.TimeToIndex(end)
	if startIndex == InvalidIndex || endIndex == InvalidIndex || endIndex <= startIndex {
		return InvalidIndex, InvalidIndex, false
	}
	return startIndex, endIndex, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
