package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/timetable"
	"github.com/noah-isme/mentora-api/pkg/response"
)

// TimetableHandler serves grid metadata.
type TimetableHandler struct {
	grid timetable.Grid
}

// NewTimetableHandler constructs the handler for grid.
func NewTimetableHandler(grid timetable.Grid) *TimetableHandler {
	return &TimetableHandler{grid: grid}
}

// Slots godoc
// @Summary Slot table of the weekly grid
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/slots [get]
func (h *TimetableHandler) Slots(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.SlotTable{
		StartHour:   h.grid.StartHour,
		EndHour:     h.grid.EndHour,
		SlotMinutes: h.grid.SlotMinutes,
		TotalSlots:  h.grid.TotalSlots(),
		Days:        models.WeekDays,
		Slots:       h.grid.SlotTable(),
	})
}
