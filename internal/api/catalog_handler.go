package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mekanis/internal/catalog"
)

// CatalogHandler exposes the static attribute tables the forms render from.
type CatalogHandler struct{}

// NewCatalogHandler builds the handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetAttributes returns every selectable attribute table in one payload.
// Certificates come grouped by category for the sectioned picker.
func (h *CatalogHandler) GetAttributes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"position_types":    catalog.PositionTypes,
		"venue_types":       catalog.VenueTypes,
		"shift_types":       catalog.ShiftTypes,
		"work_types":        catalog.WorkTypes,
		"working_days":      catalog.WorkingDays,
		"cuisine_types":     catalog.CuisineTypes,
		"certificate_types": catalog.ByCategory(catalog.CertificateTypes),
		"benefits":          catalog.Benefits,
		"payment_types":     catalog.PaymentTypes,
		"experience_levels": catalog.ExperienceLevels,
		"uniform_policies":  catalog.UniformPolicies,
		"meal_policies":     catalog.MealPolicies,
		"tip_policies":      catalog.TipPolicies,
	})
}

// GetDistricts returns the district options for one city. An unknown city
// yields an empty list, not an error.
func (h *CatalogHandler) GetDistricts(c *gin.Context) {
	districts := catalog.DistrictsFor(c.Query("city"))
	if districts == nil {
		districts = []catalog.Option{}
	}
	c.JSON(http.StatusOK, gin.H{"items": districts})
}
