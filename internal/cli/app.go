// Package cli implements schedulectl, a terminal front end for the course schedule.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	"github.com/noah-isme/mentora-api/internal/timetable"
	"github.com/noah-isme/mentora-api/pkg/config"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Store is the course store schedulectl drives, typically the HTTP client.
type Store interface {
	timetable.CourseStore
	SlotTable(ctx context.Context) (*models.SlotTable, error)
}

// App holds the CLI application state.
type App struct {
	store  Store
	config *config.Config
	logger *zap.Logger
	out    io.Writer
	root   *cobra.Command
	userID string
}

// NewApp creates the CLI with the given store and config.
func NewApp(store Store, cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{store: store, config: cfg, logger: logger, out: os.Stdout}

	a.root = &cobra.Command{
		Use:           "schedulectl",
		Short:         "Manage a weekly course schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `schedulectl edits a student's weekly course schedule through the course API.

Blocks are given as DAY:HH:MM-HH:MM, for example Mon:08:00-10:00. They must
lie on the slot grid and may not overlap blocks of other courses.`,
	}

	a.root.PersistentFlags().StringVar(&a.userID, "user", cfg.Client.UserID, "User whose schedule is edited (default $API_USER_ID)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.slotsCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.availabilityCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.clearCmd())
	a.root.AddCommand(a.tokenCmd())

	return a
}

// SetOutput redirects command output.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "schedulectl %s (commit: %s)\n", Version, Commit)
		},
	}
}

// planner loads the server grid and the user's courses.
func (a *App) planner(ctx context.Context) (*timetable.Planner, error) {
	if a.userID == "" {
		return nil, fmt.Errorf("no user given: pass --user or set API_USER_ID")
	}
	table, err := a.store.SlotTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching slot table: %w", err)
	}
	grid, err := timetable.NewGrid(table.StartHour, table.EndHour, table.SlotMinutes)
	if err != nil {
		return nil, fmt.Errorf("server grid: %w", err)
	}
	p := timetable.NewPlanner(a.store, grid, a.userID, a.logger)
	if err := p.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}
	return p, nil
}

func (a *App) tokens() *service.TokenService {
	return service.NewTokenService(service.TokenConfig{
		Secret: a.config.Auth.Secret,
		Issuer: a.config.Auth.Issuer,
	})
}
