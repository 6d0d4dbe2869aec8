package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mekanis/internal/database"
)

func jobRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewJobHandler(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := gin.New()
	router.PUT("/v1/employer/jobs/:id", func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", database.RoleEmployer)
		c.Next()
	}, handler.UpdateJob)
	return router
}

func putJob(t *testing.T, router *gin.Engine, jobID uint, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/v1/employer/jobs/"+strconv.FormatUint(uint64(jobID), 10), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateJobRejectsDraftActionOnActiveListing(t *testing.T) {
	db := newTestDB(t)
	listing := seedActiveJob(t, db)

	var company database.Company
	require.NoError(t, db.First(&company, listing.CompanyID).Error)
	router := jobRouter(db, company.UserID)

	rec := putJob(t, router, listing.ID, map[string]any{
		"position_type": "garson",
		"city":          "istanbul",
		"action":        "draft",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var stored database.JobListing
	require.NoError(t, db.First(&stored, listing.ID).Error)
	assert.Equal(t, database.JobStatusActive, stored.Status)
	require.NotNil(t, stored.PublishedAt)
}

func TestUpdateJobRepublishKeepsStatusAndTimestamp(t *testing.T) {
	db := newTestDB(t)
	listing := seedActiveJob(t, db)
	originalPublish := *listing.PublishedAt

	var company database.Company
	require.NoError(t, db.First(&company, listing.CompanyID).Error)
	router := jobRouter(db, company.UserID)

	rec := putJob(t, router, listing.ID, map[string]any{
		"position_type": "garson",
		"city":          "istanbul",
		"shift_types":   []string{"evening"},
		"description":   strings.Repeat("a", 60),
		"action":        "publish",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored database.JobListing
	require.NoError(t, db.First(&stored, listing.ID).Error)
	assert.Equal(t, database.JobStatusActive, stored.Status)
	assert.Equal(t, listing.Slug, stored.Slug)
	require.NotNil(t, stored.PublishedAt)
	assert.WithinDuration(t, originalPublish, *stored.PublishedAt, time.Second)
}
