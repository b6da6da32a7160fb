package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/auth"
	"github.com/yukikurage/kanban-api/internal/constants"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
)

// RequireAuth accepts a session cookie or an "Authorization: Bearer" token.
// tokens may be nil to accept sessions only.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := sessionUserID(c); ok {
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if tokens != nil && header != "" {
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				apierrors.Unauthorized(c, "Malformed Authorization header")
				return
			}
			claims, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
			c.Set(constants.ContextKeyUserID, claims.UserID)
			c.Next()
			return
		}

		apierrors.Unauthorized(c, "")
	}
}

func sessionUserID(c *gin.Context) (string, bool) {
	session := sessions.Default(c)
	userID, ok := session.Get(constants.ContextKeyUserID).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}
