package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mentora-api/api/swagger"
	"github.com/noah-isme/mentora-api/internal/handler"
	"github.com/noah-isme/mentora-api/internal/repository"
	"github.com/noah-isme/mentora-api/internal/router"
	"github.com/noah-isme/mentora-api/internal/service"
	"github.com/noah-isme/mentora-api/internal/timetable"
	"github.com/noah-isme/mentora-api/pkg/cache"
	"github.com/noah-isme/mentora-api/pkg/config"
	"github.com/noah-isme/mentora-api/pkg/database"
	"github.com/noah-isme/mentora-api/pkg/logger"
)

// @title Mentora Schedule API
// @version 1.0.0
// @description Weekly course schedule with slot-grid conflict checking
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grid, err := timetable.NewGrid(cfg.Schedule.StartHour, cfg.Schedule.EndHour, cfg.Schedule.SlotMinutes)
	if err != nil {
		return fmt.Errorf("schedule grid: %w", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		migrator, err := database.NewMigrator(db.DB, logr)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	metrics := service.NewMetricsService()
	checks := map[string]router.Pinger{"database": router.PingFunc(db.PingContext)}

	var cacheRepo *repository.CacheRepository
	if cfg.Courses.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis, 5*time.Second)
		if err != nil {
			logr.Warn("course cache disabled, redis unreachable", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
			checks["redis"] = cacheRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Courses.CacheTTL, logr, cacheRepo != nil)

	courses := service.NewCourseService(
		repository.NewCourseRepository(db),
		cacheSvc,
		metrics,
		grid,
		validator.New(),
		logr,
		service.CourseServiceConfig{CacheTTL: cfg.Courses.CacheTTL},
	)
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer})

	engine := router.Setup(cfg, router.Deps{
		Courses:   handler.NewCourseHandler(courses),
		Timetable: handler.NewTimetableHandler(grid),
		Tokens:    tokens,
		Metrics:   metrics,
		Checks:    checks,
		Logger:    logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Int("slots_per_day", grid.TotalSlots()),
			zap.Bool("auth", cfg.Auth.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
