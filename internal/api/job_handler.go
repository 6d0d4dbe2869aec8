package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/database"
	"mekanis/internal/jobs"
)

var errInvalidJobID = errors.New("invalid job id")

// JobHandler serves public listing pages and the employer posting wizard.
type JobHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewJobHandler builds the handler.
func NewJobHandler(db *gorm.DB, logger *slog.Logger) *JobHandler {
	return &JobHandler{db: db, logger: logger}
}

// ListJobs returns active listings filtered by the query-string facets.
// Filtering runs in memory over the full active set, so facet changes in
// the UI map 1:1 onto this endpoint without bespoke SQL per facet.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var sel jobs.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var listings []database.JobListing
	err := h.db.WithContext(ctx).
		Preload("Company").
		Joins("JOIN companies ON companies.id = job_listings.company_id").
		Where("job_listings.status = ?", database.JobStatusActive).
		Where("companies.active = ?", true).
		Order("job_listings.published_at DESC").
		Find(&listings).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("list jobs failed", slog.Any("error", err))
		Internal(c, "failed to list jobs")
		return
	}

	summaries := make([]jobs.Summary, 0, len(listings))
	for _, l := range listings {
		summaries = append(summaries, jobs.NewSummary(l))
	}

	c.JSON(http.StatusOK, gin.H{
		"items": jobs.Filter(summaries, sel),
		"total": len(summaries),
	})
}

// GetJobBySlug returns one active listing and bumps its view counter.
func (h *JobHandler) GetJobBySlug(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	var listing database.JobListing
	err := h.db.WithContext(ctx).
		Preload("Company").
		Where("slug = ? AND status = ?", slug, database.JobStatusActive).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		middleware.LoggerFromContext(c).Error("get job failed", slog.Any("error", err))
		Internal(c, "failed to query job")
		return
	}

	// best-effort counter, a lost increment is not worth failing the page
	if err := h.db.WithContext(ctx).Model(&listing).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		middleware.LoggerFromContext(c).Warn("bump view count failed", slog.Any("error", err))
	}

	c.JSON(http.StatusOK, newJobResponse(listing))
}

// jobDraftRequest mirrors jobs.Draft for the wizard's terminal persist call.
// The client accumulates the draft across steps and submits it whole.
type jobDraftRequest struct {
	Title        string `json:"title"`
	PositionType string `json:"position_type"`
	VenueType    string `json:"venue_type"`
	CategorySlug string `json:"category_slug"`
	City         string `json:"city"`
	District     string `json:"district"`
	Address      string `json:"address"`

	WorkType    string   `json:"work_type"`
	ShiftTypes  []string `json:"shift_types"`
	WorkingDays string   `json:"working_days"`

	CuisineTypes         []string `json:"cuisine_types"`
	Languages            []string `json:"languages"`
	Skills               []string `json:"skills"`
	RequiredCertificates []string `json:"required_certificates"`
	ExperienceLevel      string   `json:"experience_level"`
	ServiceExperience    string   `json:"service_experience"`
	AgeMin               int      `json:"age_min"`
	AgeMax               int      `json:"age_max"`
	GenderPreference     string   `json:"gender_preference"`

	SalaryMin   int      `json:"salary_min"`
	SalaryMax   int      `json:"salary_max"`
	Currency    string   `json:"currency"`
	PaymentType string   `json:"payment_type"`
	ShowSalary  *bool    `json:"show_salary"`
	Benefits    []string `json:"benefits"`

	UniformPolicy string `json:"uniform_policy"`
	MealPolicy    string `json:"meal_policy"`
	TipPolicy     string `json:"tip_policy"`

	Description    string `json:"description"`
	Responsibility string `json:"responsibility"`
	Qualifications string `json:"qualifications"`
	AdditionalInfo string `json:"additional_info"`
	Urgent         bool   `json:"urgent"`

	// "draft" saves without validation, "publish" re-validates every gate
	Action string `json:"action" binding:"required,oneof=draft publish"`
}

func (r jobDraftRequest) toDraft() jobs.Draft {
	d := jobs.Draft{
		Title:                r.Title,
		PositionType:         r.PositionType,
		VenueType:            r.VenueType,
		CategorySlug:         r.CategorySlug,
		City:                 r.City,
		District:             r.District,
		Address:              r.Address,
		WorkType:             r.WorkType,
		ShiftTypes:           r.ShiftTypes,
		WorkingDays:          r.WorkingDays,
		CuisineTypes:         r.CuisineTypes,
		Languages:            r.Languages,
		Skills:               r.Skills,
		RequiredCertificates: r.RequiredCertificates,
		ExperienceLevel:      r.ExperienceLevel,
		ServiceExperience:    r.ServiceExperience,
		AgeMin:               r.AgeMin,
		AgeMax:               r.AgeMax,
		GenderPreference:     r.GenderPreference,
		SalaryMin:            r.SalaryMin,
		SalaryMax:            r.SalaryMax,
		Currency:             r.Currency,
		PaymentType:          r.PaymentType,
		ShowSalary:           true,
		Benefits:             r.Benefits,
		UniformPolicy:        r.UniformPolicy,
		MealPolicy:           r.MealPolicy,
		TipPolicy:            r.TipPolicy,
		Description:          r.Description,
		Responsibility:       r.Responsibility,
		Qualifications:       r.Qualifications,
		AdditionalInfo:       r.AdditionalInfo,
		Urgent:               r.Urgent,
	}
	if d.Currency == "" {
		d.Currency = "TRY"
	}
	if r.ShowSalary != nil {
		d.ShowSalary = *r.ShowSalary
	}
	return d
}

// CreateJob persists a new listing from the wizard's terminal action.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req jobDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	company, ok := h.companyForUser(c)
	if !ok {
		return
	}

	w := jobs.NewWizard()
	w.Draft = req.toDraft()

	listing, ok := h.finishWizard(c, w, req.Action)
	if !ok {
		return
	}
	listing.CompanyID = company.ID

	if err := h.db.WithContext(c.Request.Context()).Create(&listing).Error; err != nil {
		middleware.LoggerFromContext(c).Error("create job failed", slog.Any("error", err))
		Internal(c, "failed to create job")
		return
	}

	c.JSON(http.StatusCreated, newJobResponse(listing))
}

// UpdateJob overwrites an owned listing with the resubmitted wizard draft.
// The slug survives unchanged once the listing has been published.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req jobDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	existing, ok := h.ownedJob(c)
	if !ok {
		return
	}
	if existing.Status == database.JobStatusClosed {
		Conflict(c, "closed jobs cannot be edited")
		return
	}
	if existing.Status == database.JobStatusActive && req.Action == "draft" {
		Conflict(c, "active jobs cannot revert to draft, publish the changes instead")
		return
	}

	w := jobs.NewEditWizard(*existing)
	w.Draft = req.toDraft()

	listing, ok := h.finishWizard(c, w, req.Action)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&listing).Error; err != nil {
		middleware.LoggerFromContext(c).Error("update job failed", slog.Any("error", err))
		Internal(c, "failed to update job")
		return
	}

	c.JSON(http.StatusOK, newJobResponse(listing))
}

func (h *JobHandler) finishWizard(c *gin.Context, w *jobs.Wizard, action string) (database.JobListing, bool) {
	now := time.Now()
	if action == "publish" {
		listing, err := w.Publish(now)
		if err != nil {
			var verr *jobs.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error": verr.Message,
					"field": verr.Field,
				})
				return database.JobListing{}, false
			}
			Internal(c, "failed to publish job")
			return database.JobListing{}, false
		}
		return listing, true
	}
	return w.SaveDraft(now), true
}

// ListMyJobs returns the employer's own listings, drafts included.
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	company, ok := h.companyForUser(c)
	if !ok {
		return
	}

	var listings []database.JobListing
	err := h.db.WithContext(c.Request.Context()).
		Where("company_id = ?", company.ID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("list own jobs failed", slog.Any("error", err))
		Internal(c, "failed to list jobs")
		return
	}

	items := make([]gin.H, 0, len(listings))
	for _, l := range listings {
		items = append(items, gin.H{
			"id":                l.ID,
			"title":             l.Title,
			"slug":              l.Slug,
			"status":            l.Status,
			"urgent":            l.Urgent,
			"view_count":        l.ViewCount,
			"application_count": l.ApplicationCount,
			"published_at":      l.PublishedAt,
			"created_at":        l.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetMyJob returns one owned listing in full for the edit wizard.
func (h *JobHandler) GetMyJob(c *gin.Context) {
	listing, ok := h.ownedJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newJobResponse(*listing))
}

// CloseJob transitions an active listing to closed.
func (h *JobHandler) CloseJob(c *gin.Context) {
	listing, ok := h.ownedJob(c)
	if !ok {
		return
	}
	if listing.Status != database.JobStatusActive {
		Conflict(c, "only active jobs can be closed")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(listing).Update("status", database.JobStatusClosed).Error; err != nil {
		middleware.LoggerFromContext(c).Error("close job failed", slog.Any("error", err))
		Internal(c, "failed to close job")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteJob removes a listing that never went live. Published listings are
// closed instead so existing applications keep their context.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	listing, ok := h.ownedJob(c)
	if !ok {
		return
	}
	if listing.Status != database.JobStatusDraft {
		Conflict(c, "only drafts can be deleted, close the job instead")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Delete(&database.JobListing{}, listing.ID).Error; err != nil {
		middleware.LoggerFromContext(c).Error("delete job failed", slog.Any("error", err))
		Internal(c, "failed to delete job")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) companyForUser(c *gin.Context) (*database.Company, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}

	var company database.Company
	err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Forbidden(c, "employer company profile required")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("load company failed", slog.Any("error", err))
		Internal(c, "internal error")
		return nil, false
	}
	return &company, true
}

func (h *JobHandler) ownedJob(c *gin.Context) (*database.JobListing, bool) {
	company, ok := h.companyForUser(c)
	if !ok {
		return nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, errInvalidJobID.Error())
		return nil, false
	}

	var listing database.JobListing
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND company_id = ?", id, company.ID).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("load job failed", slog.Any("error", err))
		Internal(c, "internal error")
		return nil, false
	}
	return &listing, true
}

func newJobResponse(l database.JobListing) gin.H {
	resp := gin.H{
		"id":                    l.ID,
		"slug":                  l.Slug,
		"title":                 l.Title,
		"description":           l.Description,
		"responsibility":        l.Responsibility,
		"qualifications":        l.Qualifications,
		"additional_info":       l.AdditionalInfo,
		"category_slug":         l.CategorySlug,
		"position_type":         l.PositionType,
		"venue_type":            l.VenueType,
		"city":                  l.City,
		"district":              l.District,
		"address":               l.Address,
		"work_type":             l.WorkType,
		"shift_types":           l.ShiftTypes,
		"working_days":          l.WorkingDays,
		"currency":              l.Currency,
		"payment_type":          l.PaymentType,
		"show_salary":           l.ShowSalary,
		"experience_level":      l.ExperienceLevel,
		"service_experience":    l.ServiceExperience,
		"required_certificates": l.RequiredCertificates,
		"age_min":               l.AgeMin,
		"age_max":               l.AgeMax,
		"gender_preference":     l.GenderPreference,
		"cuisine_types":         l.CuisineTypes,
		"languages":             l.Languages,
		"skills":                l.Skills,
		"uniform_policy":        l.UniformPolicy,
		"meal_policy":           l.MealPolicy,
		"tip_policy":            l.TipPolicy,
		"benefits":              l.Benefits,
		"status":                l.Status,
		"urgent":                l.Urgent,
		"published_at":          l.PublishedAt,
		"view_count":            l.ViewCount,
		"application_count":     l.ApplicationCount,
	}
	if l.Company.ID != 0 {
		resp["company"] = gin.H{
			"name":     l.Company.Name,
			"slug":     l.Company.Slug,
			"city":     l.Company.City,
			"verified": l.Company.Verified,
		}
	}
	if l.ShowSalary {
		resp["salary_min"] = l.SalaryMin
		resp["salary_max"] = l.SalaryMax
	}
	return resp
}
