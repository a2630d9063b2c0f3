package models

import "time"

// WeekDay identifies a column of the weekly grid.
type WeekDay string

const (
	Monday    WeekDay = "Mon"
	Tuesday   WeekDay = "Tue"
	Wednesday WeekDay = "Wed"
	Thursday  WeekDay = "Thu"
	Friday    WeekDay = "Fri"
	Saturday  WeekDay = "Sat"
	Sunday    WeekDay = "Sun"
)

// WeekDays lists the days in grid column order.
var WeekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekDay accepts the three letter day keys used on the wire.
func ParseWeekDay(raw string) (WeekDay, bool) {
	day := WeekDay(raw)
	return day, day.Valid()
}

// Valid reports whether d is one of the seven day keys.
func (d WeekDay) Valid() bool {
	return d.Index() >= 0
}

// Index returns the column position of d, or -1.
func (d WeekDay) Index() int {
	for i, candidate := range WeekDays {
		if candidate == d {
			return i
		}
	}
	return -1
}

// TimeBlock is a persisted weekly block owned by a course.
type TimeBlock struct {
	ID       string  `db:"id" json:"block_id"`
	CourseID string  `db:"course_id" json:"-"`
	Day      WeekDay `db:"day" json:"day"`
	Start    string  `db:"start_time" json:"start"`
	End      string  `db:"end_time" json:"end"`
	Position int     `db:"position" json:"-"`
}

// Course is a user's course together with its weekly blocks.
type Course struct {
	ID          string      `db:"id" json:"course_id"`
	UserID      string      `db:"user_id" json:"user_id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	Instructor  string      `db:"instructor" json:"instructor"`
	Location    string      `db:"location" json:"location"`
	Color       string      `db:"color" json:"color"`
	Blocks      []TimeBlock `db:"-" json:"blocks"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// BlockInput is a block as submitted on create/update.
type BlockInput struct {
	Day   WeekDay `json:"day" validate:"required,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	Start string  `json:"start" validate:"required,len=5"`
	End   string  `json:"end" validate:"required,len=5"`
}

// CourseInput carries the full course payload; updates replace every field and the whole block set.
type CourseInput struct {
	UserID      string       `json:"user_id" validate:"required,max=64"`
	Name        string       `json:"name" validate:"required,max=120"`
	Description string       `json:"description" validate:"max=2000"`
	Instructor  string       `json:"instructor" validate:"max=120"`
	Location    string       `json:"location" validate:"max=120"`
	Color       string       `json:"color" validate:"omitempty,hexcolor"`
	Blocks      []BlockInput `json:"blocks" validate:"dive"`
}

// AvailabilityBlock is a busy interval labelled with the course occupying it.
type AvailabilityBlock struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Course string `json:"course"`
}

// DayBlock is a committed block enriched with its course for per-day listings.
type DayBlock struct {
	BlockID    string  `json:"block_id"`
	CourseID   string  `json:"course_id"`
	CourseName string  `json:"course_name"`
	Color      string  `json:"color"`
	Day        WeekDay `json:"day"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
}

// SlotTable describes the weekly grid clients render.
type SlotTable struct {
	StartHour   int       `json:"start_hour"`
	EndHour     int       `json:"end_hour"`
	SlotMinutes int       `json:"slot_minutes"`
	TotalSlots  int       `json:"total_slots"`
	Days        []WeekDay `json:"days"`
	Slots       []string  `json:"slots"`
}
