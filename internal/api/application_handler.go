package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/applications"
	"mekanis/internal/database"
	"mekanis/internal/profile"
	"mekanis/internal/storage"
	"mekanis/internal/tasks"
)

// ApplicationHandler serves candidate application submission and the
// employer's review workflow.
type ApplicationHandler struct {
	db          *gorm.DB
	workflow    *applications.Workflow
	asynqClient *asynq.Client
	logger      *slog.Logger
}

// NewApplicationHandler builds the handler.
func NewApplicationHandler(db *gorm.DB, workflow *applications.Workflow, asynqClient *asynq.Client, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{db: db, workflow: workflow, asynqClient: asynqClient, logger: logger}
}

type applyRequest struct {
	CoverLetter       string `json:"cover_letter"`
	ContactPreference string `json:"contact_preference" binding:"omitempty,oneof=email phone"`
	ResumeKey         string `json:"resume_key"`

	// guest identity, ignored for authenticated candidates
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email" binding:"omitempty,email"`
	GuestPhone string `json:"guest_phone"`
}

// Apply submits an application to an active listing. Authenticated
// candidates apply with their profile; anyone else applies as a guest with
// name, email and phone. Exactly one of the two identities is stored.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	var listing database.JobListing
	err := h.db.WithContext(ctx).
		Where("slug = ? AND status = ?", c.Param("slug"), database.JobStatusActive).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		log.Error("load job for apply failed", slog.Any("error", err))
		Internal(c, "failed to submit application")
		return
	}

	app := database.Application{
		JobListingID:      listing.ID,
		CoverLetter:       req.CoverLetter,
		ContactPreference: req.ContactPreference,
		ResumeKey:         req.ResumeKey,
		Status:            database.ApplicationPending,
	}
	if app.ContactPreference == "" {
		app.ContactPreference = database.ContactByEmail
	}

	if userID, ok := userIDFromContext(c); ok && c.GetString("userRole") == database.RoleCandidate {
		var prof database.CandidateProfile
		if err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&prof).Error; err != nil {
			log.Error("load profile for apply failed", slog.Any("error", err))
			Internal(c, "failed to submit application")
			return
		}
		app.CandidateProfileID = &prof.ID
		if app.ResumeKey == "" {
			app.ResumeKey = prof.ResumeKey
		}

		var count int64
		if err := h.db.WithContext(ctx).Model(&database.Application{}).
			Where("job_listing_id = ? AND candidate_profile_id = ?", listing.ID, prof.ID).
			Count(&count).Error; err != nil {
			log.Error("duplicate check failed", slog.Any("error", err))
			Internal(c, "failed to submit application")
			return
		}
		if count > 0 {
			Conflict(c, "bu ilana zaten başvurdunuz")
			return
		}
	} else {
		if req.GuestName == "" || req.GuestEmail == "" || req.GuestPhone == "" {
			BadRequest(c, "guest applications require name, email and phone")
			return
		}
		app.GuestName = req.GuestName
		app.GuestEmail = req.GuestEmail
		app.GuestPhone = req.GuestPhone
	}

	if app.ResumeKey == "" {
		BadRequest(c, "başvuru için CV yüklenmesi zorunludur")
		return
	}
	if !app.IsGuest() {
		userID, _ := userIDFromContext(c)
		if !storage.OwnsObjectKey(storage.PrefixCV, userID, app.ResumeKey) {
			Forbidden(c, "resume key does not belong to this account")
			return
		}
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		return tx.Model(&database.JobListing{}).
			Where("id = ?", listing.ID).
			UpdateColumn("application_count", gorm.Expr("application_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "bu ilana zaten başvurdunuz")
			return
		}
		log.Error("create application failed", slog.Any("error", err))
		Internal(c, "failed to submit application")
		return
	}

	h.enqueueReceivedEmail(c, app.ID)

	c.JSON(http.StatusCreated, gin.H{
		"id":     app.ID,
		"status": app.Status,
	})
}

func (h *ApplicationHandler) enqueueReceivedEmail(c *gin.Context, applicationID uint) {
	if h.asynqClient == nil {
		return
	}
	log := middleware.LoggerFromContext(c)
	task, err := tasks.NewApplicationReceivedEmailTask(applicationID, middleware.GetCorrelationID(c))
	if err != nil {
		log.Error("build received email task failed", slog.Any("error", err))
		return
	}
	if _, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		log.Error("enqueue received email failed", slog.Any("error", err))
	}
}

// ListMyApplications returns the authenticated candidate's applications.
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	ctx := c.Request.Context()

	var prof database.CandidateProfile
	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Forbidden(c, "candidate profile required")
			return
		}
		Internal(c, "internal error")
		return
	}

	var apps []database.Application
	err := h.db.WithContext(ctx).
		Preload("JobListing").
		Preload("JobListing.Company").
		Where("candidate_profile_id = ?", prof.ID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("list applications failed", slog.Any("error", err))
		Internal(c, "failed to list applications")
		return
	}

	items := make([]gin.H, 0, len(apps))
	for _, a := range apps {
		items = append(items, gin.H{
			"id":         a.ID,
			"status":     a.Status,
			"created_at": a.CreatedAt,
			"job": gin.H{
				"title":   a.JobListing.Title,
				"slug":    a.JobListing.Slug,
				"city":    a.JobListing.City,
				"status":  a.JobListing.Status,
				"company": a.JobListing.Company.Name,
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListJobApplications returns every application to one of the employer's
// own listings, newest first.
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	listing, ok := h.ownedListing(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var apps []database.Application
	err := h.db.WithContext(ctx).
		Preload("CandidateProfile").
		Preload("CandidateProfile.User").
		Preload("CandidateProfile.Experiences").
		Where("job_listing_id = ?", listing.ID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("list job applications failed", slog.Any("error", err))
		Internal(c, "failed to list applications")
		return
	}

	items := make([]gin.H, 0, len(apps))
	for _, a := range apps {
		item := gin.H{
			"id":                 a.ID,
			"status":             a.Status,
			"guest":              a.IsGuest(),
			"applicant_name":     a.ApplicantName(),
			"applicant_email":    a.ApplicantEmail(),
			"contact_preference": a.ContactPreference,
			"cover_letter":       a.CoverLetter,
			"resume_key":         a.ResumeKey,
			"created_at":         a.CreatedAt,
		}
		if a.IsGuest() {
			item["applicant_phone"] = a.GuestPhone
		} else if a.CandidateProfile != nil {
			item["applicant_phone"] = a.CandidateProfile.Phone
			item["profile"] = gin.H{
				"title":            a.CandidateProfile.Title,
				"city":             a.CandidateProfile.City,
				"experience_years": totalExperienceYears(a.CandidateProfile.Experiences),
			}
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func totalExperienceYears(exps []database.Experience) int {
	now := time.Now()
	months := 0
	for _, e := range exps {
		months += profile.ExperienceMonths(e, now)
	}
	return months / 12
}

type transitionRequest struct {
	Status string `json:"status" binding:"required,oneof=reviewing approved rejected"`
}

// TransitionApplication moves an application through the review graph. The
// applicant is notified after the new status is persisted.
func (h *ApplicationHandler) TransitionApplication(c *gin.Context) {
	listing, ok := h.ownedListing(c)
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	appID, err := strconv.ParseUint(c.Param("appID"), 10, 64)
	if err != nil || appID == 0 {
		BadRequest(c, "invalid application id")
		return
	}

	ctx := c.Request.Context()
	var app database.Application
	err = h.db.WithContext(ctx).
		Where("id = ? AND job_listing_id = ?", appID, listing.ID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "application not found")
			return
		}
		Internal(c, "internal error")
		return
	}

	err = h.workflow.Transition(ctx, &app, req.Status, middleware.GetCorrelationID(c))
	if err != nil {
		var inv *applications.InvalidTransitionError
		if errors.As(err, &inv) {
			Conflict(c, inv.Error())
			return
		}
		middleware.LoggerFromContext(c).Error("transition failed", slog.Any("error", err))
		Internal(c, "failed to update application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": app.ID, "status": app.Status})
}

func (h *ApplicationHandler) ownedListing(c *gin.Context) (*database.JobListing, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, errInvalidJobID.Error())
		return nil, false
	}

	var listing database.JobListing
	err = h.db.WithContext(c.Request.Context()).
		Joins("JOIN companies ON companies.id = job_listings.company_id").
		Where("job_listings.id = ? AND companies.user_id = ?", id, userID).
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
