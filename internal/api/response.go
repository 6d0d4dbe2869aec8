package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mekanis/internal/errcode"
)

// codeForStatus maps an HTTP status onto the shared error code space so
// clients can branch without parsing messages.
func codeForStatus(status int) int {
	switch {
	case status < http.StatusBadRequest:
		return errcode.OK
	case status == http.StatusNotFound:
		return errcode.ResourceMissing
	case status == http.StatusConflict:
		return errcode.Duplicate
	case status >= http.StatusInternalServerError:
		return errcode.SystemError
	default:
		return errcode.Validation
	}
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg, "code": codeForStatus(status)})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": errcode.Validation})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
