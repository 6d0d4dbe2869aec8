package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mekanis/internal/applications"
	"mekanis/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedActiveJob(t *testing.T, db *gorm.DB) database.JobListing {
	t.Helper()
	employer := database.User{Email: "isveren@example.com", Role: database.RoleEmployer}
	require.NoError(t, db.Create(&employer).Error)
	company := database.Company{UserID: employer.ID, Name: "Deniz Restoran", Slug: "deniz-restoran", Active: true}
	require.NoError(t, db.Create(&company).Error)

	now := time.Now()
	listing := database.JobListing{
		CompanyID:   company.ID,
		Title:       "Garson",
		Slug:        "garson-test",
		Status:      database.JobStatusActive,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(&listing).Error)
	return listing
}

func seedCandidate(t *testing.T, db *gorm.DB) (database.User, database.CandidateProfile) {
	t.Helper()
	user := database.User{Email: "aday@example.com", Role: database.RoleCandidate}
	require.NoError(t, db.Create(&user).Error)
	prof := database.CandidateProfile{UserID: user.ID, FullName: "Ayşe Yılmaz"}
	require.NoError(t, db.Create(&prof).Error)
	return user, prof
}

// applyRouter wires the apply route with an optional fake identity.
func applyRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	workflow := applications.NewWorkflow(db, nil, nil, logger)
	handler := NewApplicationHandler(db, workflow, nil, logger)

	router := gin.New()
	router.POST("/v1/jobs/:slug/apply", func(c *gin.Context) {
		if userID != 0 {
			c.Set("userID", userID)
			c.Set("userRole", role)
		}
		c.Next()
	}, handler.Apply)
	return router
}

func postApply(t *testing.T, router *gin.Engine, slug string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/"+slug+"/apply", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestApplyGuestStoresGuestIdentityOnly(t *testing.T) {
	db := newTestDB(t)
	listing := seedActiveJob(t, db)
	router := applyRouter(db, 0, "")

	rec := postApply(t, router, listing.Slug, map[string]any{
		"guest_name":  "Mehmet Kaya",
		"guest_email": "mehmet@example.com",
		"guest_phone": "+905551112233",
		"resume_key":  "cv/guest/abc.pdf",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var app database.Application
	require.NoError(t, db.First(&app).Error)
	assert.True(t, app.IsGuest())
	assert.Nil(t, app.CandidateProfileID)
	assert.Equal(t, "Mehmet Kaya", app.GuestName)
	assert.Equal(t, database.ApplicationPending, app.Status)

	var updated database.JobListing
	require.NoError(t, db.First(&updated, listing.ID).Error)
	assert.Equal(t, 1, updated.ApplicationCount)
}

func TestApplyGuestRequiresContactFields(t *testing.T) {
	db := newTestDB(t)
	listing := seedActiveJob(t, db)
	router := applyRouter(db, 0, "")

	rec := postApply(t, router, listing.Slug, map[string]any{
		"guest_name": "Mehmet Kaya",
		"resume_key": "cv/guest/abc.pdf",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, db.Model(&database.Application{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyCandidateUsesProfileIdentity(t *testing.T) {
	db := newTestDB(t)
	listing := seedActiveJob(t, db)
	user, prof := seedCandidate(t, db)
	require.NoError(t, db.Model(&prof).Update("resume_key", "cv/2/cv.pdf").Error)
	require.Equal(t, uint(2), user.ID)

	router := applyRouter(db, user.ID, database.RoleCandidate)
	rec := postApply(t, router, listing.Slug, map[string]any{
		"cover_letter": "Beş yıllık servis deneyimim var.",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var app database.Application
	require.NoError(t, db.First(&app).Error)
	assert.False(t, app.IsGuest())
	require.NotNil(t, app.CandidateProfileID)
	assert.Equal(t, prof.ID, *app.CandidateProfileID)
	assert.Empty(t, app.GuestName)
	assert.Equal(t, "cv/2/cv.pdf", app.ResumeKey)
}

func TestApplyCandidateRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	listing := seedActiveJob(t, db)
	user, prof := seedCandidate(t, db)
	require.NoError(t, db.Model(&prof).Update("resume_key", "cv/2/cv.pdf").Error)

	router := applyRouter(db, user.ID, database.RoleCandidate)
	first := postApply(t, router, listing.Slug, map[string]any{})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postApply(t, router, listing.Slug, map[string]any{})
	assert.Equal(t, http.StatusConflict, second.Code)

	var count int64
	require.NoError(t, db.Model(&database.Application{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var updated database.JobListing
	require.NoError(t, db.First(&updated, listing.ID).Error)
	assert.Equal(t, 1, updated.ApplicationCount)
}

func TestApplyRequiresResume(t *testing.T) {
	db := newTestDB(t)
	listing := seedActiveJob(t, db)
	user, _ := seedCandidate(t, db)

	router := applyRouter(db, user.ID, database.RoleCandidate)
	rec := postApply(t, router, listing.Slug, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyUnknownJob(t *testing.T) {
	db := newTestDB(t)
	router := applyRouter(db, 0, "")

	rec := postApply(t, router, "yok-boyle-ilan", map[string]any{
		"guest_name":  "Mehmet Kaya",
		"guest_email": "mehmet@example.com",
		"guest_phone": "+905551112233",
		"resume_key":  "cv/guest/abc.pdf",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
