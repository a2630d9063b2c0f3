// Package export renders a weekly schedule into downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/noah-isme/mentora-api/internal/models"
)

// ScheduleHeaders are the CSV columns, one row per time block.
var ScheduleHeaders = []string{"day", "start", "end", "course", "instructor", "location", "color", "course_id", "block_id"}

// ScheduleRows flattens courses into one row per block ordered by day then start.
func ScheduleRows(courses []models.Course) [][]string {
	type row struct {
		day    int
		start  string
		values []string
	}
	var rows []row
	for _, course := range courses {
		for _, block := range course.Blocks {
			rows = append(rows, row{
				day:   block.Day.Index(),
				start: block.Start,
				values: []string{
					string(block.Day), block.Start, block.End,
					course.Name, course.Instructor, course.Location, course.Color,
					course.ID, block.ID,
				},
			})
		}
	}
	// HH:MM sorts lexically.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].day != rows[j].day {
			return rows[i].day < rows[j].day
		}
		return rows[i].start < rows[j].start
	})

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.values)
	}
	return out
}

// WriteScheduleCSV writes the header and every block row of courses to w.
func WriteScheduleCSV(w io.Writer, courses []models.Course) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ScheduleHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(ScheduleRows(courses)); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
