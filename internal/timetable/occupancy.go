package timetable

import "github.com/noah-isme/mentora-api/internal/models"

// Span is anything occupying a [Start, End) range on a day. Owner is the course id for
// committed blocks and empty for drafts.
type Span struct {
	Owner string
	Day   models.WeekDay
	Start string
	End   string
}

// SpanFilter decides whether a span takes part in a lookup. A nil filter keeps every span.
type SpanFilter func(Span) bool

// ExcludeOwner skips the spans of one course, used when that course is being edited.
func ExcludeOwner(courseID string) SpanFilter {
	return func(s Span) bool {
		return courseID == "" || s.Owner != courseID
	}
}

// CourseSpans flattens the blocks of every course.
func CourseSpans(courses []models.Course) []Span {
	var spans []Span
	for _, course := range courses {
		spans = append(spans, BlockSpans(course.ID, course.Blocks)...)
	}
	return spans
}

// BlockSpans converts persisted blocks owned by courseID.
func BlockSpans(courseID string, blocks []models.TimeBlock) []Span {
	spans := make([]Span, 0, len(blocks))
	for _, block := range blocks {
		spans = append(spans, Span{Owner: courseID, Day: block.Day, Start: block.Start, End: block.End})
	}
	return spans
}

// DraftSpans converts staged draft blocks.
func DraftSpans(drafts []DraftBlock) []Span {
	spans := make([]Span, 0, len(drafts))
	for _, draft := range drafts {
		spans = append(spans, Span{Day: draft.Day, Start: draft.Start, End: draft.End})
	}
	return spans
}

// Detector answers occupancy questions by linear scan; a user's weekly load is tens of blocks.
type Detector struct {
	grid Grid
}

// NewDetector binds a detector to grid.
func NewDetector(grid Grid) Detector {
	return Detector{grid: grid}
}

// IsSlotBlocked reports whether any span of any collection covers (day, index).
// Intervals are half-open, so a block ending at index does not block it.
func (d Detector) IsSlotBlocked(day models.WeekDay, index int, filter SpanFilter, collections ...[]Span) bool {
	for _, collection := range collections {
		for _, span := range collection {
			if span.Day != day || (filter != nil && !filter(span)) {
				continue
			}
			start, end, ok := d.grid.Range(span.Start, span.End)
			if !ok {
				continue
			}
			if index >= start && index < end {
				return true
			}
		}
	}
	return false
}

// Conflicts returns every span overlapping candidate. Unparsable spans never conflict.
func (d Detector) Conflicts(candidate Span, filter SpanFilter, collections ...[]Span) []Span {
	cStart, cEnd, ok := d.grid.Range(candidate.Start, candidate.End)
	if !ok {
		return nil
	}
	var conflicts []Span
	for _, collection := range collections {
		for _, span := range collection {
			if span.Day != candidate.Day || (filter != nil && !filter(span)) {
				continue
			}
			start, end, ok := d.grid.Range(span.Start, span.End)
			if !ok {
				continue
			}
			if cStart < end && start < cEnd {
				conflicts = append(conflicts, span)
			}
		}
	}
	return conflicts
}
