package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunex/portal-academico-api/internal/middleware"
	"github.com/edunex/portal-academico-api/internal/service"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/response"
)

// EnrollmentHandler wires HTTP endpoints to the enrollment service.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

type updateEnrollmentStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// ListForClass godoc
// @Summary List enrollments of a class
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param class_id path string true "Class id"
// @Success 200 {object} response.Envelope
// @Router /classes/{class_id}/enrollments [get]
func (h *EnrollmentHandler) ListForClass(c *gin.Context) {
	enrollments, err := h.service.ListForClass(c.Request.Context(), c.Param("class_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, enrollments, nil)
}

// UpdateStatus godoc
// @Summary Update an enrollment's status
// @Description Status is free-form; any non-empty value is persisted verbatim
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment id"
// @Param payload body updateEnrollmentStatusPayload true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/enrollments/{id}/status [patch]
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload updateEnrollmentStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	enrollment, err := h.service.UpdateStatus(c.Request.Context(), actor, c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, enrollment, nil)
}
