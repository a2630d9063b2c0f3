package timetable

// Palette holds the colors handed out to new courses in order.
var Palette = []string{
	"#3B82F6",
	"#F59E0B",
	"#10B981",
	"#8B5CF6",
	"#EF4444",
	"#14B8A6",
	"#F97316",
}

// ColorFor picks the palette entry for the n-th course.
func ColorFor(n int) string {
	if n < 0 {
		n = -n
	}
	return Palette[n%len(Palette)]
}
