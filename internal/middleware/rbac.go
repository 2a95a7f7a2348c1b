package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/edunex/portal-academico-api/internal/models"
	"github.com/edunex/portal-academico-api/internal/service"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
	"github.com/edunex/portal-academico-api/pkg/response"
)

// ActorFromContext rebuilds the acting identity from the JWT claims the
// auth middleware stored. The claimed role lands in ClientRole; the
// resolver decides what it is worth.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	claimsValue, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Actor{}, false
	}
	claims, ok := claimsValue.(*models.JWTClaims)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{
		ID:         claims.UserID,
		Email:      claims.Email,
		Name:       claims.Name,
		ClientRole: claims.ClientRole,
	}, true
}

// RequireRoles blocks the request unless the resolver maps the actor to one
// of the allowed roles.
func RequireRoles(resolver *service.RoleResolver, allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !resolver.Authorize(actor, allowed...) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
