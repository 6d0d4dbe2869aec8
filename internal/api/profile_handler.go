package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/catalog"
	"mekanis/internal/database"
	"mekanis/internal/profile"
)

// ProfileHandler serves the candidate's own profile: the basic fields plus
// the four list-edited section types (experiences, educations, certificates,
// languages). Every section write checks ownership through the profile row.
type ProfileHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewProfileHandler builds the handler.
func NewProfileHandler(db *gorm.DB, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{db: db, logger: logger}
}

// GetProfile returns the full profile with sections, derived display state
// and the completion score.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	prof, ok := h.ownProfile(c, true)
	if !ok {
		return
	}
	now := time.Now()

	experiences := make([]gin.H, 0, len(prof.Experiences))
	for _, e := range prof.Experiences {
		experiences = append(experiences, gin.H{
			"id":           e.ID,
			"company_name": e.CompanyName,
			"position":     e.Position,
			"city":         e.City,
			"description":  e.Description,
			"start_date":   e.StartDate,
			"end_date":     e.EndDate,
			"current":      e.Current,
			"duration":     profile.ExperienceDuration(e, now),
		})
	}

	certificates := make([]gin.H, 0, len(prof.Certificates))
	for _, cert := range prof.Certificates {
		certificates = append(certificates, gin.H{
			"id":          cert.ID,
			"type":        cert.Type,
			"name":        cert.Name,
			"issuer":      cert.Issuer,
			"issue_date":  cert.IssueDate,
			"expiry_date": cert.ExpiryDate,
			"expired":     profile.CertificateExpired(cert, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"full_name":           prof.FullName,
		"title":               prof.Title,
		"bio":                 prof.Bio,
		"city":                prof.City,
		"phone":               prof.Phone,
		"avatar_key":          prof.AvatarKey,
		"resume_key":          prof.ResumeKey,
		"linkedin_url":        prof.LinkedinURL,
		"instagram_url":       prof.InstagramURL,
		"position_types":      prof.PositionTypes,
		"shift_preferences":   prof.ShiftPreferences,
		"venue_types":         prof.VenueTypes,
		"cuisine_specialties": prof.CuisineSpecialties,
		"skills":              prof.Skills,
		"experience_summary":  prof.ExperienceSummary,
		"salary_expect_min":   prof.SalaryExpectMin,
		"salary_expect_max":   prof.SalaryExpectMax,
		"experiences":         experiences,
		"educations":          prof.Educations,
		"certificates":        certificates,
		"languages":           prof.Languages,
		"completion_score":    profile.CompletionScore(*prof),
	})
}

type updateProfileRequest struct {
	FullName           string   `json:"full_name"`
	Title              string   `json:"title"`
	Bio                string   `json:"bio"`
	City               string   `json:"city"`
	Phone              string   `json:"phone"`
	LinkedinURL        string   `json:"linkedin_url"`
	InstagramURL       string   `json:"instagram_url"`
	PositionTypes      []string `json:"position_types"`
	ShiftPreferences   []string `json:"shift_preferences"`
	VenueTypes         []string `json:"venue_types"`
	CuisineSpecialties []string `json:"cuisine_specialties"`
	Skills             []string `json:"skills"`
	ExperienceSummary  string   `json:"experience_summary"`
	SalaryExpectMin    int      `json:"salary_expect_min"`
	SalaryExpectMax    int      `json:"salary_expect_max"`
}

// UpdateProfile overwrites the basic profile fields. Preference values are
// checked against the catalog tables before anything is written.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	for _, p := range req.PositionTypes {
		if !catalog.IsValid(catalog.PositionTypes, p) {
			BadRequest(c, "unknown position type: "+p)
			return
		}
	}
	for _, s := range req.ShiftPreferences {
		if !catalog.IsValid(catalog.ShiftTypes, s) {
			BadRequest(c, "unknown shift type: "+s)
			return
		}
	}
	for _, v := range req.VenueTypes {
		if !catalog.IsValid(catalog.VenueTypes, v) {
			BadRequest(c, "unknown venue type: "+v)
			return
		}
	}

	prof, ok := h.ownProfile(c, false)
	if !ok {
		return
	}

	updates := map[string]any{
		"full_name":           req.FullName,
		"title":               req.Title,
		"bio":                 req.Bio,
		"city":                req.City,
		"phone":               req.Phone,
		"linkedin_url":        req.LinkedinURL,
		"instagram_url":       req.InstagramURL,
		"position_types":      datatypes.JSONSlice[string](req.PositionTypes),
		"shift_preferences":   datatypes.JSONSlice[string](req.ShiftPreferences),
		"venue_types":         datatypes.JSONSlice[string](req.VenueTypes),
		"cuisine_specialties": datatypes.JSONSlice[string](req.CuisineSpecialties),
		"skills":              datatypes.JSONSlice[string](req.Skills),
		"experience_summary":  req.ExperienceSummary,
		"salary_expect_min":   req.SalaryExpectMin,
		"salary_expect_max":   req.SalaryExpectMax,
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(prof).Updates(updates).Error; err != nil {
		middleware.LoggerFromContext(c).Error("update profile failed", slog.Any("error", err))
		Internal(c, "failed to update profile")
		return
	}
	c.Status(http.StatusNoContent)
}

type experienceRequest struct {
	CompanyName string     `json:"company_name" binding:"required"`
	Position    string     `json:"position" binding:"required"`
	City        string     `json:"city"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `json:"current"`
}

func (r experienceRequest) model(profileID uint) database.Experience {
	return database.Experience{
		CandidateProfileID: profileID,
		CompanyName:        r.CompanyName,
		Position:           r.Position,
		City:               r.City,
		Description:        r.Description,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		Current:            r.Current,
	}
}

// AddExperience appends an employment entry.
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	prof, ok := h.ownProfile(c, false)
	if !ok {
		return
	}
	createSection(h, c, req.model(prof.ID))
}

// UpdateExperience overwrites an owned employment entry.
func (h *ProfileHandler) UpdateExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	updateSection[database.Experience](h, c, map[string]any{
		"company_name": req.CompanyName,
		"position":     req.Position,
		"city":         req.City,
		"description":  req.Description,
		"start_date":   req.StartDate,
		"end_date":     req.EndDate,
		"current":      req.Current,
	})
}

// DeleteExperience removes an owned employment entry.
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	deleteSection[database.Experience](h, c)
}

type educationRequest struct {
	School    string `json:"school" binding:"required"`
	Field     string `json:"field"`
	Degree    string `json:"degree"`
	StartYear int    `json:"start_year" binding:"required"`
	EndYear   int    `json:"end_year"`
	Ongoing   bool   `json:"ongoing"`
}

// AddEducation appends a school entry.
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	prof, ok := h.ownProfile(c, false)
	if !ok {
		return
	}
	createSection(h, c, database.Education{
		CandidateProfileID: prof.ID,
		School:             req.School,
		Field:              req.Field,
		Degree:             req.Degree,
		StartYear:          req.StartYear,
		EndYear:            req.EndYear,
		Ongoing:            req.Ongoing,
	})
}

// UpdateEducation overwrites an owned school entry.
func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	updateSection[database.Education](h, c, map[string]any{
		"school":     req.School,
		"field":      req.Field,
		"degree":     req.Degree,
		"start_year": req.StartYear,
		"end_year":   req.EndYear,
		"ongoing":    req.Ongoing,
	})
}

// DeleteEducation removes an owned school entry.
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	deleteSection[database.Education](h, c)
}

type certificateRequest struct {
	Type       string     `json:"type" binding:"required"`
	Name       string     `json:"name" binding:"required"`
	Issuer     string     `json:"issuer"`
	IssueDate  *time.Time `json:"issue_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// AddCertificate appends a certificate entry.
func (h *ProfileHandler) AddCertificate(c *gin.Context) {
	var req certificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if !catalog.IsValid(catalog.CertificateTypes, req.Type) {
		BadRequest(c, "unknown certificate type: "+req.Type)
		return
	}
	prof, ok := h.ownProfile(c, false)
	if !ok {
		return
	}
	createSection(h, c, database.Certificate{
		CandidateProfileID: prof.ID,
		Type:               req.Type,
		Name:               req.Name,
		Issuer:             req.Issuer,
		IssueDate:          req.IssueDate,
		ExpiryDate:         req.ExpiryDate,
	})
}

// UpdateCertificate overwrites an owned certificate entry.
func (h *ProfileHandler) UpdateCertificate(c *gin.Context) {
	var req certificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if !catalog.IsValid(catalog.CertificateTypes, req.Type) {
		BadRequest(c, "unknown certificate type: "+req.Type)
		return
	}
	updateSection[database.Certificate](h, c, map[string]any{
		"type":        req.Type,
		"name":        req.Name,
		"issuer":      req.Issuer,
		"issue_date":  req.IssueDate,
		"expiry_date": req.ExpiryDate,
	})
}

// DeleteCertificate removes an owned certificate entry.
func (h *ProfileHandler) DeleteCertificate(c *gin.Context) {
	deleteSection[database.Certificate](h, c)
}

type languageRequest struct {
	Code  string `json:"code" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Level string `json:"level" binding:"required,oneof=beginner intermediate advanced native"`
}

// AddLanguage appends a spoken-language entry. A code already on the
// profile is rejected before any write.
func (h *ProfileHandler) AddLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	prof, ok := h.ownProfile(c, true)
	if !ok {
		return
	}
	if profile.HasLanguage(prof.Languages, req.Code) {
		Conflict(c, "bu dil zaten ekli")
		return
	}
	createSection(h, c, database.Language{
		CandidateProfileID: prof.ID,
		Code:               req.Code,
		Name:               req.Name,
		Level:              req.Level,
	})
}

// UpdateLanguage changes the level or display name of an owned entry. The
// code itself is immutable; delete and re-add to change it.
func (h *ProfileHandler) UpdateLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	updateSection[database.Language](h, c, map[string]any{
		"name":  req.Name,
		"level": req.Level,
	})
}

// DeleteLanguage removes an owned spoken-language entry.
func (h *ProfileHandler) DeleteLanguage(c *gin.Context) {
	deleteSection[database.Language](h, c)
}

// createSection, updateSection and deleteSection are the shared list-editor
// backend for all four section types. Ownership is enforced by scoping every
// statement to the caller's profile ID.

func createSection[T any](h *ProfileHandler, c *gin.Context, entry T) {
	if err := h.db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create section entry failed", slog.Any("error", err))
		Internal(c, "failed to save entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func updateSection[T any](h *ProfileHandler, c *gin.Context, updates map[string]any) {
	prof, id, ok := h.sectionTarget(c)
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).
		Model(new(T)).
		Where("id = ? AND candidate_profile_id = ?", id, prof.ID).
		Updates(updates)
	if res.Error != nil {
		middleware.LoggerFromContext(c).Error("update section entry failed", slog.Any("error", res.Error))
		Internal(c, "failed to save entry")
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "entry not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func deleteSection[T any](h *ProfileHandler, c *gin.Context) {
	prof, id, ok := h.sectionTarget(c)
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND candidate_profile_id = ?", id, prof.ID).
		Delete(new(T))
	if res.Error != nil {
		middleware.LoggerFromContext(c).Error("delete section entry failed", slog.Any("error", res.Error))
		Internal(c, "failed to delete entry")
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "entry not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) sectionTarget(c *gin.Context) (*database.CandidateProfile, uint, bool) {
	prof, ok := h.ownProfile(c, false)
	if !ok {
		return nil, 0, false
	}
	id, err := strconv.ParseUint(c.Param("entryID"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid entry id")
		return nil, 0, false
	}
	return prof, uint(id), true
}

func (h *ProfileHandler) ownProfile(c *gin.Context, withSections bool) (*database.CandidateProfile, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}

	q := h.db.WithContext(c.Request.Context())
	if withSections {
		q = q.Preload("Experiences").
			Preload("Educations").
			Preload("Certificates").
			Preload("Languages")
	}

	var prof database.CandidateProfile
	if err := q.Where("user_id = ?", userID).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Forbidden(c, "candidate profile required")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("load profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return nil, false
	}
	return &prof, true
}
