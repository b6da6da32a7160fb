package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
)

// RequireUUIDParam rejects the request with 400 "Invalid <entity> ID" when the
// path parameter is not a UUID.
func RequireUUIDParam(param, entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(param)); err != nil {
			apierrors.BadRequest(c, "Invalid "+entity+" ID")
			return
		}
		c.Next()
	}
}
