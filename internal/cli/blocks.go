package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/timetable"
)

// blockArg is a block given on the command line as DAY:HH:MM-HH:MM.
type blockArg struct {
	Day   models.WeekDay
	Start string
	End   string
}

func (b blockArg) String() string {
	return fmt.Sprintf("%s:%s-%s", b.Day, b.Start, b.End)
}

func parseBlockArg(raw string) (blockArg, error) {
	day, times, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return blockArg{}, fmt.Errorf("block %q: want DAY:HH:MM-HH:MM", raw)
	}
	weekDay, valid := models.ParseWeekDay(day)
	if !valid {
		return blockArg{}, fmt.Errorf("block %q: unknown day %q", raw, day)
	}
	start, end, ok := strings.Cut(times, "-")
	if !ok {
		return blockArg{}, fmt.Errorf("block %q: want DAY:HH:MM-HH:MM", raw)
	}
	return blockArg{Day: weekDay, Start: start, End: end}, nil
}

// stageBlock replays a block as the two taps a user would make on the grid and
// stages the result as a draft.
func stageBlock(session *timetable.Session, grid timetable.Grid, arg blockArg) (timetable.DraftBlock, error) {
	start, end, ok := grid.Range(arg.Start, arg.End)
	if !ok {
		return timetable.DraftBlock{}, fmt.Errorf("block %s does not fit the %s-%s grid", arg, grid.IndexToTime(0), grid.IndexToTime(grid.TotalSlots()))
	}
	if _, err := session.Tap(arg.Day, start); err != nil {
		return timetable.DraftBlock{}, describeTapError(arg, err)
	}
	if _, err := session.Tap(arg.Day, end-1); err != nil {
		return timetable.DraftBlock{}, describeTapError(arg, err)
	}
	draft, err := session.AddSelection()
	if err != nil {
		return timetable.DraftBlock{}, fmt.Errorf("block %s: %s", arg, session.Message())
	}
	return draft, nil
}

func describeTapError(arg blockArg, err error) error {
	if errors.Is(err, timetable.ErrSlotBlocked) {
		return fmt.Errorf("block %s: %s", arg, timetable.MessageRangeBlocked)
	}
	return fmt.Errorf("block %s: %w", arg, err)
}

// removeStaged drops a draft by its id or by its DAY:HH:MM-HH:MM form.
func removeStaged(session *timetable.Session, key string) bool {
	if session.RemoveDraft(key) {
		return true
	}
	arg, err := parseBlockArg(key)
	if err != nil {
		return false
	}
	for _, draft := range session.Drafts() {
		if draft.Day == arg.Day && draft.Start == arg.Start && draft.End == arg.End {
			return session.RemoveDraft(draft.ID)
		}
	}
	return false
}
