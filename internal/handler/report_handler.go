package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunex/portal-academico-api/internal/middleware"
	"github.com/edunex/portal-academico-api/internal/models"
	"github.com/edunex/portal-academico-api/internal/service"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/response"
)

// ReportHandler wires HTTP endpoints to the report service.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+", expected YYYY-MM-DD")
	}
	return &date, nil
}

func attendanceFilterFromQuery(c *gin.Context) (models.AttendanceReportFilter, error) {
	filter := models.AttendanceReportFilter{ClassID: c.Query("class_id")}
	if raw := c.Query("status"); raw != "" {
		status := models.AttendanceStatus(raw)
		if !status.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status filter")
		}
		filter.Status = &status
	}
	var err error
	if filter.DateFrom, err = parseDateParam(c, "from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseDateParam(c, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}

// Attendance godoc
// @Summary Attendance report rows
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param class_id query string false "Filter by class"
// @Param status query string false "Filter by status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter, err := attendanceFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, err := h.service.Attendance(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows, nil)
}

// ExportAttendance godoc
// @Summary Export the attendance report
// @Tags Reports
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/attendance/export [get]
func (h *ReportHandler) ExportAttendance(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter, err := attendanceFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := service.ReportFormat(c.DefaultQuery("format", string(service.ReportFormatCSV)))
	data, contentType, err := h.service.ExportAttendance(c.Request.Context(), actor, filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "relatorio-frequencia." + string(format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// RequestTotals godoc
// @Summary Per-status request counts
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/requests [get]
func (h *ReportHandler) RequestTotals(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.RequestReportFilter{}
	if raw := c.Query("status"); raw != "" {
		status := models.RequestStatus(raw)
		if !status.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown request status filter"))
			return
		}
		filter.Status = &status
	}
	var err error
	if filter.DateFrom, err = parseDateParam(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDateParam(c, "to"); err != nil {
		response.Error(c, err)
		return
	}

	rows, err := h.service.RequestTotals(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows, nil)
}
