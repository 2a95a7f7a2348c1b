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

// ProfileHandler wires HTTP endpoints to the profile service.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// List godoc
// @Summary List profiles (staff view)
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/profiles [get]
func (h *ProfileHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	role := models.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown role filter"))
		return
	}

	profiles, err := h.service.List(c.Request.Context(), actor, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profiles, nil)
}
