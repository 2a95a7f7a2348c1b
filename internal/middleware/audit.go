package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Audit records a structured log entry after successful state-changing
// requests so administrative actions stay traceable.
func Audit(logger *zap.Logger, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		actorID := ""
		if actor, ok := ActorFromContext(c); ok {
			actorID = actor.ID
		}

		logger.Info("audit",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.String("actor", actorID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
		)
	}
}
