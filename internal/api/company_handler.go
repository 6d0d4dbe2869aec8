package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/database"
	"mekanis/internal/jobs"
)

// CompanyHandler serves the employer's own company page and the public
// company view.
type CompanyHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewCompanyHandler builds the handler.
func NewCompanyHandler(db *gorm.DB, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{db: db, logger: logger}
}

// GetMyCompany returns the authenticated employer's company.
func (h *CompanyHandler) GetMyCompany(c *gin.Context) {
	company, ok := h.ownCompany(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, companyResponse(*company, true))
}

type updateCompanyRequest struct {
	Name         string `json:"name" binding:"required"`
	Sector       string `json:"sector"`
	Size         string `json:"size"`
	City         string `json:"city"`
	Address      string `json:"address"`
	Website      string `json:"website"`
	InstagramURL string `json:"instagram_url"`
	Description  string `json:"description"`
}

// UpdateMyCompany overwrites the company's editable fields. The slug was
// fixed at registration and never changes.
func (h *CompanyHandler) UpdateMyCompany(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	company, ok := h.ownCompany(c)
	if !ok {
		return
	}

	updates := map[string]any{
		"name":          req.Name,
		"sector":        req.Sector,
		"size":          req.Size,
		"city":          req.City,
		"address":       req.Address,
		"website":       req.Website,
		"instagram_url": req.InstagramURL,
		"description":   req.Description,
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(company).Updates(updates).Error; err != nil {
		middleware.LoggerFromContext(c).Error("update company failed", slog.Any("error", err))
		Internal(c, "failed to update company")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCompanyBySlug returns the public company page with its active listings.
func (h *CompanyHandler) GetCompanyBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	var company database.Company
	err := h.db.WithContext(ctx).
		Where("slug = ? AND active = ?", c.Param("slug"), true).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "company not found")
			return
		}
		middleware.LoggerFromContext(c).Error("load company failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	var listings []database.JobListing
	err = h.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", company.ID, database.JobStatusActive).
		Order("published_at DESC").
		Find(&listings).Error
	if err != nil {
		middleware.LoggerFromContext(c).Error("load company jobs failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	summaries := make([]jobs.Summary, 0, len(listings))
	for _, l := range listings {
		l.Company = company
		summaries = append(summaries, jobs.NewSummary(l))
	}

	resp := companyResponse(company, false)
	resp["jobs"] = summaries
	c.JSON(http.StatusOK, resp)
}

func companyResponse(company database.Company, owner bool) gin.H {
	resp := gin.H{
		"name":          company.Name,
		"slug":          company.Slug,
		"logo_key":      company.LogoKey,
		"sector":        company.Sector,
		"size":          company.Size,
		"city":          company.City,
		"website":       company.Website,
		"instagram_url": company.InstagramURL,
		"description":   company.Description,
		"verified":      company.Verified,
	}
	if owner {
		resp["address"] = company.Address
		resp["active"] = company.Active
	}
	return resp
}

func (h *CompanyHandler) ownCompany(c *gin.Context) (*database.Company, bool) {
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
