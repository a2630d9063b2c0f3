package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/handler"
	"github.com/noah-isme/mentora-api/internal/middleware"
	"github.com/noah-isme/mentora-api/internal/service"
	"github.com/noah-isme/mentora-api/pkg/config"
	"github.com/noah-isme/mentora-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mentora-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mentora-api/pkg/middleware/requestid"
)

// Pinger is a dependency probed by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function such as (*sqlx.DB).PingContext into a Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Courses   *handler.CourseHandler
	Timetable *handler.TimetableHandler
	Tokens    *service.TokenService
	Metrics   *service.MetricsService
	Checks    map[string]Pinger
	Logger    *zap.Logger
}

// Setup builds the gin engine with global middleware and every route.
func Setup(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", readiness(deps.Checks, deps.Logger))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/timetable/slots", deps.Timetable.Slots)

	secured := api.Group("")
	if cfg.Auth.Enabled && deps.Tokens != nil {
		secured.Use(middleware.JWT(deps.Tokens))
	}

	users := secured.Group("/users/:userId")
	users.GET("/courses", deps.Courses.List)
	users.DELETE("/courses", deps.Courses.Clear)
	users.GET("/courses/blocks", deps.Courses.BlocksForDay)
	users.GET("/courses/export", deps.Courses.Export)
	users.GET("/availability", deps.Courses.Availability)

	courses := secured.Group("/courses")
	courses.POST("", deps.Courses.Create)
	courses.PUT("/:id", deps.Courses.Update)

	return r
}

func readiness(checks map[string]Pinger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{}
		ready := true
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				log.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
				status[name] = "down"
				ready = false
				continue
			}
			status[name] = "up"
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": status})
	}
}
