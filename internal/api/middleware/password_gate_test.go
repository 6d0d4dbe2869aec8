package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func gateRouter(mustChange bool, setFlag bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", func(c *gin.Context) {
		if setFlag {
			c.Set("mustChangePassword", mustChange)
		}
		c.Next()
	}, PasswordGate(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestPasswordGateBlocksPendingChange(t *testing.T) {
	router := gateRouter(true, true)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "password change required")
}

func TestPasswordGatePassesClearedFlag(t *testing.T) {
	router := gateRouter(false, true)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPasswordGatePassesWhenFlagAbsent(t *testing.T) {
	router := gateRouter(false, false)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
