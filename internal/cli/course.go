package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/mentora-api/internal/timetable"
)

type courseFlags struct {
	name        string
	description string
	instructor  string
	location    string
	blocks      []string
}

func (f *courseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "Course description")
	cmd.Flags().StringVar(&f.instructor, "instructor", "", "Instructor (default \""+timetable.DefaultInstructor+"\")")
	cmd.Flags().StringVar(&f.location, "location", "", "Location (default \""+timetable.DefaultLocation+"\")")
	cmd.Flags().StringArrayVar(&f.blocks, "block", nil, "Block to add as DAY:HH:MM-HH:MM, repeatable")
}

func (a *App) addCmd() *cobra.Command {
	var flags courseFlags

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a course with one or more weekly blocks",
		Args:  cobra.ExactArgs(1),
		Example: `  schedulectl add "Linear Algebra" --block=Mon:08:00-10:00 --block=Wed:08:00-09:30
  schedulectl add Chemistry --block=Fri:13:00-15:00 --location="Lab 2"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, err := a.planner(cmd.Context())
			if err != nil {
				return err
			}
			session := planner.NewCourseSession()
			session.Form = timetable.CourseForm{
				Name:        args[0],
				Description: flags.description,
				Instructor:  flags.instructor,
				Location:    flags.location,
			}
			if err := a.stageAll(session, planner.Grid(), flags.blocks); err != nil {
				return err
			}

			course, err := session.Save(cmd.Context())
			if err != nil {
				return fmt.Errorf("saving course: %w", err)
			}
			fmt.Fprintf(a.out, "Created course %s: %s (%s)\n", course.ID, course.Name, formatBlocks(course.Blocks))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("block")

	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var (
		flags  courseFlags
		remove []string
	)

	cmd := &cobra.Command{
		Use:   "edit [course-id]",
		Short: "Change a course and its blocks",
		Long: `Edit replaces the course on the server with the edited copy. Blocks are
removed by block id or by their DAY:HH:MM-HH:MM form before new blocks are added.`,
		Args:    cobra.ExactArgs(1),
		Example: "  schedulectl edit 6f1c... --remove=Mon:08:00-10:00 --block=Tue:08:00-10:00",
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, err := a.planner(cmd.Context())
			if err != nil {
				return err
			}
			session, err := planner.EditCourseSession(args[0])
			if err != nil {
				return fmt.Errorf("course %s: %w", args[0], err)
			}

			set := cmd.Flags().Changed
			if set("name") {
				session.Form.Name = flags.name
			}
			if set("description") {
				session.Form.Description = flags.description
			}
			if set("instructor") {
				session.Form.Instructor = flags.instructor
			}
			if set("location") {
				session.Form.Location = flags.location
			}
			for _, key := range remove {
				if !removeStaged(session, key) {
					return fmt.Errorf("course %s has no block %q", args[0], key)
				}
			}
			if err := a.stageAll(session, planner.Grid(), flags.blocks); err != nil {
				return err
			}

			course, err := session.Save(cmd.Context())
			if err != nil {
				return fmt.Errorf("saving course: %w", err)
			}
			fmt.Fprintf(a.out, "Updated course %s: %s (%s)\n", course.ID, course.Name, formatBlocks(course.Blocks))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.name, "name", "", "New course name")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "Block id or DAY:HH:MM-HH:MM to remove, repeatable")

	return cmd
}

func (a *App) stageAll(session *timetable.Session, grid timetable.Grid, raw []string) error {
	for _, value := range raw {
		arg, err := parseBlockArg(value)
		if err != nil {
			return err
		}
		if _, err := stageBlock(session, grid, arg); err != nil {
			return err
		}
	}
	return nil
}
