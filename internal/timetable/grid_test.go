package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGridDimensions(t *testing.T) {
	grid := DefaultGrid()

	assert.Equal(t, 2, grid.SlotsPerHour())
	assert.Equal(t, 36, grid.TotalSlots())
	assert.Equal(t, 90, grid.Duration(4, 7))
}

func TestNewGridValidation(t *testing.T) {
	_, err := NewGrid(6, 24, 30)
	require.NoError(t, err)

	cases := []struct {
		name              string
		start, end, slots int
	}{
		{"start after end", 10, 8, 30},
		{"equal bounds", 8, 8, 30},
		{"end past midnight", 6, 25, 30},
		{"negative start", -1, 12, 30},
		{"slot does not divide hour", 6, 24, 25},
		{"zero slot", 6, 24, 0},
		{"slot longer than hour", 6, 24, 120},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGrid(tc.start, tc.end, tc.slots)
			assert.Error(t, err)
		})
	}
}

func TestTimeToIndexRoundTrip(t *testing.T) {
	for _, grid := range []Grid{DefaultGrid(), {StartHour: 8, EndHour: 18, SlotMinutes: 15}, {StartHour: 0, EndHour: 24, SlotMinutes: 60}} {
		for i := 0; i < grid.TotalSlots(); i++ {
			assert.Equal(t, i, grid.TimeToIndex(grid.IndexToTime(i)), "grid %+v index %d", grid, i)
		}
	}
}

func TestTimeToIndex(t *testing.T) {
	grid := DefaultGrid()

	cases := map[string]int{
		"06:00": 0,
		"08:00": 4,
		"10:00": 8,
		"23:30": 35,
		"24:00": 36,
		"07:15": InvalidIndex,
		"05:30": InvalidIndex,
		"24:30": InvalidIndex,
		"7:00":  InvalidIndex,
		"07-00": InvalidIndex,
		"ab:cd": InvalidIndex,
		"07:60": InvalidIndex,
		"":      InvalidIndex,
		"+7:00": InvalidIndex,
	}
	for input, want := range cases {
		assert.Equal(t, want, grid.TimeToIndex(input), input)
	}
}

func TestIndexToTimeAndSlotTable(t *testing.T) {
	grid := DefaultGrid()

	assert.Equal(t, "08:00", grid.IndexToTime(4))
	assert.Equal(t, "10:00", grid.IndexToTime(8))
	assert.Equal(t, "24:00", grid.IndexToTime(36))

	table := grid.SlotTable()
	require.Len(t, table, 36)
	assert.Equal(t, "06:00", table[0])
	assert.Equal(t, "06:30", table[1])
	assert.Equal(t, "23:30", table[35])
}

func TestRange(t *testing.T) {
	grid := DefaultGrid()

	start, end, ok := grid.Range("09:00", "10:00")
	require.True(t, ok)
	assert.Equal(t, 6, start)
	assert.Equal(t, 8, end)

	_, _, ok = grid.Range("10:00", "10:00")
	assert.False(t, ok)
	_, _, ok = grid.Range("10:00", "09:00")
	assert.False(t, ok)
	_, _, ok = grid.Range("09:15", "10:00")
	assert.False(t, ok)
}
