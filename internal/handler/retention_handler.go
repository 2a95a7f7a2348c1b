package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunex/portal-academico-api/internal/middleware"
	"github.com/edunex/portal-academico-api/internal/service"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/response"
)

// RetentionHandler wires HTTP endpoints to the retention service.
type RetentionHandler struct {
	service *service.RetentionService
}

// NewRetentionHandler creates a new handler.
func NewRetentionHandler(svc *service.RetentionService) *RetentionHandler {
	return &RetentionHandler{service: svc}
}

// Create godoc
// @Summary Record a retention action
// @Tags Retention
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateRetentionActionPayload true "Action payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/retention-actions [post]
func (h *RetentionHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload service.CreateRetentionActionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid action payload"))
		return
	}

	action, err := h.service.Create(c.Request.Context(), actor, payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, action)
}

// ListForUser godoc
// @Summary Retention history for a student
// @Tags Retention
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/retention-actions/{user_id} [get]
func (h *RetentionHandler) ListForUser(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	actions, err := h.service.ListForUser(c.Request.Context(), actor, c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, actions, nil)
}
