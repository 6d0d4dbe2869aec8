package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/database"
)

// AdminHandler implements the moderation surface: company verification,
// activation toggles and force-closing listings. Routes are gated on the
// admin role in the router.
type AdminHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewAdminHandler builds the handler.
func NewAdminHandler(db *gorm.DB, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{db: db, logger: logger}
}

// ListCompanies returns every company, unverified first.
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	var companies []database.Company
	err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Order("verified ASC, created_at DESC").
		Find(&companies).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("list companies failed", slog.Any("error", err))
		Internal(c, "failed to list companies")
		return
	}

	items := make([]gin.H, 0, len(companies))
	for _, company := range companies {
		items = append(items, gin.H{
			"id":         company.ID,
			"name":       company.Name,
			"slug":       company.Slug,
			"city":       company.City,
			"email":      company.User.Email,
			"verified":   company.Verified,
			"active":     company.Active,
			"created_at": company.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// VerifyCompany marks a company as verified.
func (h *AdminHandler) VerifyCompany(c *gin.Context) {
	h.setCompanyFlag(c, "verified", true)
}

type activeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetCompanyActive toggles whether a company and its listings are visible.
func (h *AdminHandler) SetCompanyActive(c *gin.Context) {
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	h.setCompanyFlag(c, "active", *req.Active)
}

func (h *AdminHandler) setCompanyFlag(c *gin.Context, column string, value bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid company id")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&database.Company{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		middleware.LoggerFromContext(c).Error("update company flag failed",
			slog.String("column", column), slog.Any("error", res.Error))
		Internal(c, "failed to update company")
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "company not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListJobs returns every listing with its company for moderation.
func (h *AdminHandler) ListJobs(c *gin.Context) {
	var listings []database.JobListing
	err := h.db.WithContext(c.Request.Context()).
		Preload("Company").
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("list jobs failed", slog.Any("error", err))
		Internal(c, "failed to list jobs")
		return
	}

	items := make([]gin.H, 0, len(listings))
	for _, l := range listings {
		items = append(items, gin.H{
			"id":           l.ID,
			"title":        l.Title,
			"slug":         l.Slug,
			"status":       l.Status,
			"company":      l.Company.Name,
			"city":         l.City,
			"urgent":       l.Urgent,
			"published_at": l.PublishedAt,
			"created_at":   l.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ForceCloseJob closes a listing regardless of owner. Used for takedowns.
func (h *AdminHandler) ForceCloseJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, errInvalidJobID.Error())
		return
	}

	ctx := c.Request.Context()
	var listing database.JobListing
	if err := h.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		Internal(c, "internal error")
		return
	}
	if listing.Status == database.JobStatusClosed {
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.db.WithContext(ctx).
		Model(&listing).Update("status", database.JobStatusClosed).Error; err != nil {
		middleware.LoggerFromContext(c).Error("force close failed", slog.Any("error", err))
		Internal(c, "failed to close job")
		return
	}

	middleware.LoggerFromContext(c).Info("job force closed",
		slog.Uint64("job_id", uint64(listing.ID)),
		slog.String("slug", listing.Slug))
	c.Status(http.StatusNoContent)
}
