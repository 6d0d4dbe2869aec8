package api

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/auth"
	"mekanis/internal/database"
)

func newTestAuthService(t *testing.T) *auth.AuthService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	service, err := auth.NewAuthService(privPEM, pubPEM, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return service
}

func passwordFlowRouter(db *gorm.DB, service *auth.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authHandler := NewAuthHandler(db, service, nil, logger)
	adminHandler := NewAdminHandler(db, logger)

	authRequired := middleware.AuthMiddleware(service)
	gate := middleware.PasswordGate()

	router := gin.New()
	router.POST("/v1/auth/change-password", authRequired, authHandler.ChangePassword)
	router.GET("/v1/admin/companies", authRequired, gate, middleware.RequireRole(database.RoleAdmin), adminHandler.ListCompanies)
	return router
}

func TestForcedPasswordChangeFlow(t *testing.T) {
	db := newTestDB(t)
	service := newTestAuthService(t)

	hashed, err := auth.HashPassword("ilk-sifre-123")
	require.NoError(t, err)
	admin := database.User{
		Email:              "admin@example.com",
		PasswordHash:       hashed,
		Role:               database.RoleAdmin,
		MustChangePassword: true,
	}
	require.NoError(t, db.Create(&admin).Error)

	router := passwordFlowRouter(db, service)

	pair, err := service.GenerateTokenPair(admin.ID, admin.Role, true)
	require.NoError(t, err)

	// flagged token cannot reach gated routes
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/companies", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "password change required")

	// the change-password endpoint stays reachable
	body, err := json.Marshal(map[string]string{
		"current_password": "ilk-sifre-123",
		"new_password":     "yeni-sifre-456",
		"confirm_password": "yeni-sifre-456",
	})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/change-password", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken        string `json:"access_token"`
		MustChangePassword bool   `json:"must_change_password"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.MustChangePassword)

	var stored database.User
	require.NoError(t, db.First(&stored, admin.ID).Error)
	assert.False(t, stored.MustChangePassword)
	assert.True(t, auth.CheckPasswordHash("yeni-sifre-456", stored.PasswordHash))

	// the fresh token clears the gate
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/companies", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
