package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mekanis/internal/database"
)

func registerRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(db, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := gin.New()
	router.POST("/v1/auth/register", handler.Register)
	return router
}

func postRegister(t *testing.T, router *gin.Engine, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEmployerDefaultsCompanyName(t *testing.T) {
	db := newTestDB(t)
	router := registerRouter(db)

	rec := postRegister(t, router, map[string]any{
		"email":    "isveren@example.com",
		"password": "gizli-sifre-1",
		"role":     database.RoleEmployer,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var company database.Company
	require.NoError(t, db.First(&company).Error)
	assert.Equal(t, "firma", company.Name)
	assert.True(t, strings.HasPrefix(company.Slug, "firma-"), "slug %q", company.Slug)
}

func TestRegisterEmployerUsesProvidedName(t *testing.T) {
	db := newTestDB(t)
	router := registerRouter(db)

	rec := postRegister(t, router, map[string]any{
		"email":     "deniz@example.com",
		"password":  "gizli-sifre-1",
		"role":      database.RoleEmployer,
		"full_name": "  Deniz Restoran  ",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var company database.Company
	require.NoError(t, db.First(&company).Error)
	assert.Equal(t, "Deniz Restoran", company.Name)
	assert.True(t, strings.HasPrefix(company.Slug, "deniz-restoran-"), "slug %q", company.Slug)
}
