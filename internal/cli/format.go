package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/mentora-api/internal/models"
)

func printCourse(w io.Writer, course models.Course) {
	fmt.Fprintf(w, "%s  %s  [%s]\n", course.ID, course.Name, course.Color)
	if course.Instructor != "" || course.Location != "" {
		fmt.Fprintf(w, "    %s, %s\n", course.Instructor, course.Location)
	}
	for _, block := range course.Blocks {
		fmt.Fprintf(w, "    %s %s %s-%s\n", block.ID, block.Day, block.Start, block.End)
	}
}

func formatBlocks(blocks []models.TimeBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		parts = append(parts, fmt.Sprintf("%s %s-%s", block.Day, block.Start, block.End))
	}
	return strings.Join(parts, ", ")
}
