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

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	auth     *service.AuthService
	profiles *service.ProfileService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, profiles *service.ProfileService) *AuthHandler {
	return &AuthHandler{auth: auth, profiles: profiles}
}

// Login godoc
// @Summary Authenticate actor
// @Description Authenticate by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Current actor profile
// @Description Returns the authenticated actor's profile, creating the row when it is missing
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.profiles.Bootstrap(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
