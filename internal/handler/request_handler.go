package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunex/portal-academico-api/internal/middleware"
	"github.com/edunex/portal-academico-api/internal/models"
	"github.com/edunex/portal-academico-api/internal/service"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/response"
)

// RequestHandler wires HTTP endpoints to the administrative request service.
type RequestHandler struct {
	service *service.RequestService
}

// NewRequestHandler creates a new handler.
func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{service: svc}
}

type updateRequestStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type addCommentPayload struct {
	Comment string `json:"comment" binding:"required"`
}

// Create godoc
// @Summary Open an administrative request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateRequestPayload true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload service.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	request, err := h.service.Create(c.Request.Context(), actor, payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// ListAll godoc
// @Summary List every request (staff view)
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/requests [get]
func (h *RequestHandler) ListAll(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.GetAll(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// ListMine godoc
// @Summary List the actor's own requests
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.GetForActor(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// GetByID godoc
// @Summary Request detail with comments
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *RequestHandler) GetByID(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// UpdateStatus godoc
// @Summary Update a request's status
// @Description Staff can set any status, including reopening a closed request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request id"
// @Param payload body updateRequestStatusPayload true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/requests/{id}/status [patch]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload updateRequestStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	detail, err := h.service.UpdateStatus(c.Request.Context(), actor, c.Param("id"), models.RequestStatus(payload.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// AddComment godoc
// @Summary Comment on a request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request id"
// @Param payload body addCommentPayload true "Comment payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id}/comments [post]
func (h *RequestHandler) AddComment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload addCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), actor, c.Param("id"), payload.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, comment)
}
