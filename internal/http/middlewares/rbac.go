package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole runs after RequireAuth and aborts with a bare 403 when
// the resolved identity's role does not match. Handlers behind it never
// re-check the role.
func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if role != required {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
