package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/cli"
	"github.com/noah-isme/mentora-api/internal/client"
	"github.com/noah-isme/mentora-api/pkg/config"
	"github.com/noah-isme/mentora-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Log.Format == "json" {
		cfg.Log.Format = "console"
	}
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := client.NewCourseClient(cfg.Client, logr.Named("client"))
	app := cli.NewApp(store, cfg, logr.With(zap.String("component", "schedulectl")))
	return app.Execute(ctx)
}
