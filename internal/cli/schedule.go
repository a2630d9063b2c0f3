package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/mentora-api/internal/models"
)

func (a *App) slotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Show the slot grid served by the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.store.SlotTable(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching slot table: %w", err)
			}
			fmt.Fprintf(a.out, "%02d:00-%02d:00, %d min slots, %d per day\n",
				table.StartHour, table.EndHour, table.SlotMinutes, table.TotalSlots)
			for i, label := range table.Slots {
				fmt.Fprintf(a.out, "%3d  %s\n", i, label)
			}
			return nil
		},
	}
}

func (a *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the user's courses and their blocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			planner, err := a.planner(cmd.Context())
			if err != nil {
				return err
			}
			courses := planner.Courses()
			if len(courses) == 0 {
				fmt.Fprintln(a.out, "No courses scheduled.")
				return nil
			}
			for _, course := range courses {
				printCourse(a.out, course)
			}
			return nil
		},
	}
}

func (a *App) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "day [Mon|Tue|Wed|Thu|Fri|Sat|Sun]",
		Short:   "Show one day's blocks in start order",
		Args:    cobra.ExactArgs(1),
		Example: "  schedulectl day Wed --user=42",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, ok := models.ParseWeekDay(args[0])
			if !ok {
				return fmt.Errorf("unknown day %q", args[0])
			}
			planner, err := a.planner(cmd.Context())
			if err != nil {
				return err
			}
			blocks := planner.BlocksForDay(day)
			if len(blocks) == 0 {
				fmt.Fprintf(a.out, "Nothing scheduled on %s.\n", day)
				return nil
			}
			for _, block := range blocks {
				fmt.Fprintf(a.out, "%s-%s  %s\n", block.Start, block.End, block.CourseName)
			}
			return nil
		},
	}
}

func (a *App) availabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "Show busy intervals for every day of the week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			planner, err := a.planner(cmd.Context())
			if err != nil {
				return err
			}
			busy := planner.Availability()
			for _, day := range models.WeekDays {
				entries := busy[day]
				parts := make([]string, 0, len(entries))
				for _, entry := range entries {
					parts = append(parts, fmt.Sprintf("%s-%s %s", entry.Start, entry.End, entry.Course))
				}
				if len(parts) == 0 {
					parts = append(parts, "free")
				}
				fmt.Fprintf(a.out, "%s  %s\n", day, strings.Join(parts, "; "))
			}
			return nil
		},
	}
}

func (a *App) clearCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every course of the user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("refusing to clear the schedule without --yes")
			}
			planner, err := a.planner(cmd.Context())
			if err != nil {
				return err
			}
			if err := planner.ClearSchedule(cmd.Context()); err != nil {
				return fmt.Errorf("clearing schedule: %w", err)
			}
			fmt.Fprintf(a.out, "Cleared schedule of %s.\n", planner.UserID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion of every course")

	return cmd
}
