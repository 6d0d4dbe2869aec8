package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const passwordChangeRequiredMessage = "password change required"

// PasswordGate blocks accounts that still carry a forced password change.
// It reads the must_change_password claim stored by AuthMiddleware, so no
// extra DB lookup happens per request. The change-password endpoint itself
// must not sit behind this gate.
func PasswordGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get("mustChangePassword")
		if ok {
			if mustChange, ok := value.(bool); ok && mustChange {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": passwordChangeRequiredMessage})
				return
			}
		}
		c.Next()
	}
}
