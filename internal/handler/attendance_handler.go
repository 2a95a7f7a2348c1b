package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunex/portal-academico-api/internal/middleware"
	"github.com/edunex/portal-academico-api/internal/service"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// GetClasses godoc
// @Summary List classes taught by the actor
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *AttendanceHandler) GetClasses(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	classes, err := h.service.GetClasses(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, classes, nil)
}

// GetAttendance godoc
// @Summary Attendance rows for a class on a date
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param class_id path string true "Class id"
// @Param date query string true "Event date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes/{class_id}/attendance [get]
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
		return
	}

	records, err := h.service.GetAttendance(c.Request.Context(), c.Param("class_id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// SaveAttendance godoc
// @Summary Save an attendance batch
// @Description Upserts the batch keyed on (class, student, date); the batch is accepted or rejected as a whole
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SaveAttendanceRequest true "Attendance batch"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) SaveAttendance(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	if err := h.service.SaveAttendance(c.Request.Context(), actor, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
