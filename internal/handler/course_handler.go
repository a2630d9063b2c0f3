package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/export"
	"github.com/noah-isme/mentora-api/pkg/response"
)

type courseService interface {
	ListCourses(ctx context.Context, userID string) ([]models.Course, error)
	CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, courseID string, input models.CourseInput) (*models.Course, error)
	DeleteAllCourses(ctx context.Context, userID string) error
	BlocksForDay(ctx context.Context, userID string, day models.WeekDay) ([]models.DayBlock, error)
	Availability(ctx context.Context, userID string) (map[models.WeekDay][]models.AvailabilityBlock, error)
}

// CourseHandler exposes the course schedule endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List a user's courses with their weekly blocks
// @Tags Courses
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}
	courses, err := h.service.ListCourses(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"total": len(courses)})
}

// Clear godoc
// @Summary Delete every course of a user
// @Tags Courses
// @Param userId path string true "User ID"
// @Success 204
// @Router /users/{userId}/courses [delete]
func (h *CourseHandler) Clear(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}
	if err := h.service.DeleteAllCourses(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BlocksForDay godoc
// @Summary List a user's blocks on one day ordered by start
// @Tags Courses
// @Produce json
// @Param userId path string true "User ID"
// @Param day query string true "Day key (Mon..Sun)"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/courses/blocks [get]
func (h *CourseHandler) BlocksForDay(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}
	day, ok := models.ParseWeekDay(strings.TrimSpace(c.Query("day")))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day must be one of Mon, Tue, Wed, Thu, Fri, Sat, Sun"))
		return
	}
	blocks, err := h.service.BlocksForDay(c.Request.Context(), userID, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks)
}

// Availability godoc
// @Summary Busy intervals of a user grouped by day
// @Tags Courses
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/availability [get]
func (h *CourseHandler) Availability(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}
	availability, err := h.service.Availability(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availability)
}

// Export godoc
// @Summary Download a user's schedule as CSV, one row per block
// @Tags Courses
// @Produce text/csv
// @Param userId path string true "User ID"
// @Success 200 {file} file
// @Router /users/{userId}/courses/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}
	courses, err := h.service.ListCourses(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteScheduleCSV(&buf, courses); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"schedule-%s.csv\"", userID))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Create godoc
// @Summary Create a course with its weekly blocks
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CourseInput true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	input, ok := bindCourseInput(c)
	if !ok {
		return
	}
	course, err := h.service.CreateCourse(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Replace a course and its whole block set
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.CourseInput true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	input, ok := bindCourseInput(c)
	if !ok {
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

func bindCourseInput(c *gin.Context) (models.CourseInput, bool) {
	var input models.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload"))
		return input, false
	}
	if claims := claimsFromContext(c); claims != nil && input.UserID == "" {
		input.UserID = claims.UserID
	}
	if !authorizeUser(c, input.UserID) {
		return input, false
	}
	return input, true
}
