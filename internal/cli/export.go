package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/mentora-api/pkg/export"
)

func (a *App) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the schedule as CSV, one row per block",
		Example: "  schedulectl export --output=schedule.csv",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			planner, err := a.planner(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = a.out
			if output != "" && output != "-" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("creating %s: %w", output, createErr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}
			return export.WriteScheduleCSV(w, planner.Courses())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "File to write, - for stdout")

	return cmd
}
