package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/handler"
	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	"github.com/noah-isme/mentora-api/internal/timetable"
	"github.com/noah-isme/mentora-api/pkg/config"
)

type emptyRepo struct{}

func (emptyRepo) ListByUser(ctx context.Context, userID string) ([]models.Course, error) {
	return []models.Course{}, nil
}

func (emptyRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	return nil, errors.New("not implemented")
}

func (emptyRepo) Create(ctx context.Context, course *models.Course) error { return nil }

func (emptyRepo) Update(ctx context.Context, course *models.Course) error { return nil }

func (emptyRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) { return 0, nil }

func newTestEngine(t *testing.T, authEnabled bool, checks map[string]Pinger) (*gin.Engine, *service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		Auth:      config.AuthConfig{Enabled: authEnabled, Secret: "secret"},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	grid := timetable.DefaultGrid()
	metrics := service.NewMetricsService()
	courses := service.NewCourseService(emptyRepo{}, nil, metrics, grid, validator.New(), zap.NewNop(), service.CourseServiceConfig{})
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.Auth.Secret})
	return Setup(cfg, Deps{
		Courses:   handler.NewCourseHandler(courses),
		Timetable: handler.NewTimetableHandler(grid),
		Tokens:    tokens,
		Metrics:   metrics,
		Checks:    checks,
	}), tokens
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouterPublicRoutes(t *testing.T) {
	r, _ := newTestEngine(t, false, nil)

	assert.Equal(t, http.StatusOK, get(r, "/health", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/timetable/slots", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/users/user-1/courses", "").Code)

	w := get(r, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}

func TestRouterRequiresTokenWhenAuthEnabled(t *testing.T) {
	r, tokens := newTestEngine(t, true, nil)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/users/user-1/courses", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/timetable/slots", "").Code)

	token, err := tokens.IssueToken("user-1", "ana", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/users/user-1/courses", token).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/api/v1/users/user-2/courses", token).Code)
}

func TestRouterReadiness(t *testing.T) {
	healthy := PingFunc(func(ctx context.Context) error { return nil })
	r, _ := newTestEngine(t, false, map[string]Pinger{"database": healthy})
	assert.Equal(t, http.StatusOK, get(r, "/ready", "").Code)

	failing := PingFunc(func(ctx context.Context) error { return errors.New("down") })
	r, _ = newTestEngine(t, false, map[string]Pinger{"database": healthy, "redis": failing})
	w := get(r, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
}
