// Package client talks to the course API over JSON/HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/pkg/config"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

const (
	defaultRetries = 2
	retryBase      = 200 * time.Millisecond
)

// CourseClient is a course store backed by the HTTP API.
type CourseClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retries    uint64
	retryBase  time.Duration
	logger     *zap.Logger
}

// Option customises a CourseClient.
type Option func(*CourseClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *CourseClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetries sets how many times idempotent requests are retried on transport errors and 5xx.
func WithRetries(retries uint64, base time.Duration) Option {
	return func(c *CourseClient) {
		c.retries = retries
		if base > 0 {
			c.retryBase = base
		}
	}
}

// NewCourseClient builds a client for cfg.BaseURL.
func NewCourseClient(cfg config.ClientConfig, logger *zap.Logger, opts ...Option) *CourseClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &CourseClient{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		retries:    defaultRetries,
		retryBase:  retryBase,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCourses fetches every course of userID.
func (c *CourseClient) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/courses", nil, &courses, true); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// CreateCourse posts a new course. It is never retried.
func (c *CourseClient) CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPost, "/courses", input, &course, false); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse replaces a course.
func (c *CourseClient) UpdateCourse(ctx context.Context, courseID string, input models.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(courseID), input, &course, true); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteAllCourses clears the schedule of userID.
func (c *CourseClient) DeleteAllCourses(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID)+"/courses", nil, nil, true)
}

// SlotTable fetches the grid the server validates against.
func (c *CourseClient) SlotTable(ctx context.Context) (*models.SlotTable, error) {
	var table models.SlotTable
	if err := c.do(ctx, http.MethodGet, "/timetable/slots", nil, &table, true); err != nil {
		return nil, err
	}
	return &table, nil
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func (c *CourseClient) do(ctx context.Context, method, path string, body, dest interface{}, idempotent bool) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = raw
	}

	backoff := retry.NewExponential(c.retryBase)
	if idempotent {
		backoff = retry.WithMaxRetries(c.retries, backoff)
	} else {
		backoff = retry.WithMaxRetries(0, backoff)
	}

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, err := c.roundTrip(ctx, method, path, payload, dest)
		if err != nil && retryable(status, err) {
			c.logger.Debug("retrying request", zap.String("method", method), zap.String("path", path), zap.Error(err))
			return retry.RetryableError(err)
		}
		return err
	})
}

// roundTrip performs one request. status is 0 when no response arrived.
func (c *CourseClient) roundTrip(ctx context.Context, method, path string, payload []byte, dest interface{}) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "course api unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "read course api response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, decodeError(resp.StatusCode, raw)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return resp.StatusCode, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "decode course api response")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return resp.StatusCode, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "decode course api payload")
	}
	return resp.StatusCode, nil
}

func decodeError(status int, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		if env.Error.Status == 0 {
			env.Error.Status = status
		}
		return env.Error
	}
	return appErrors.New(appErrors.ErrUnavailable.Code, status, fmt.Sprintf("course api responded %d", status))
}

// retryable covers transport failures and 5xx answers.
func retryable(status int, err error) bool {
	if status >= http.StatusInternalServerError {
		return true
	}
	return status == 0 && appErrors.HasCode(err, appErrors.ErrUnavailable.Code)
}
