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

// NotificationHandler wires HTTP endpoints to the notification service.
type NotificationHandler struct {
	service      *service.NotificationService
	pollInterval time.Duration
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(svc *service.NotificationService, pollInterval time.Duration) *NotificationHandler {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &NotificationHandler{service: svc, pollInterval: pollInterval}
}

// List godoc
// @Summary Poll the actor's notification feed
// @Description Returns notifications most-recent-first with the unread count; consumers re-fetch on the advertised interval
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	feed, err := h.service.GetForActor(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetPollInterval(c, h.pollInterval)
	response.JSON(c, http.StatusOK, feed, nil, middleware.ExtractMeta(c))
}

// MarkAsRead godoc
// @Summary Mark a notification read
// @Description Marking an already-read notification succeeds without change
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification id"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
