package jobs

import (
	"strings"

	"github.com/samber/lo"

	"mekanis/internal/database"
)

// Summary is the listing-card projection the public list endpoints filter
// over. It carries the denormalized company name so the free-text facet can
// match it without a join per keystroke.
type Summary struct {
	ID                uint     `json:"id"`
	Slug              string   `json:"slug"`
	Title             string   `json:"title"`
	CompanyName       string   `json:"company_name"`
	CompanySlug       string   `json:"company_slug"`
	City              string   `json:"city"`
	District          string   `json:"district"`
	CategorySlug      string   `json:"category_slug"`
	PositionType      string   `json:"position_type"`
	VenueType         string   `json:"venue_type"`
	ShiftTypes        []string `json:"shift_types"`
	CuisineTypes      []string `json:"cuisine_types"`
	ExperienceLevel   string   `json:"experience_level"`
	ServiceExperience string   `json:"service_experience"`
	SalaryMin         int      `json:"salary_min,omitempty"`
	SalaryMax         int      `json:"salary_max,omitempty"`
	ShowSalary        bool     `json:"show_salary"`
	Urgent            bool     `json:"urgent"`
	PublishedAt       string   `json:"published_at,omitempty"`
}

// NewSummary projects a listing (with preloaded company) into a Summary.
// Salary fields are blanked when the employer opted out of showing them.
func NewSummary(l database.JobListing) Summary {
	s := Summary{
		ID:                l.ID,
		Slug:              l.Slug,
		Title:             l.Title,
		CompanyName:       l.Company.Name,
		CompanySlug:       l.Company.Slug,
		City:              l.City,
		District:          l.District,
		CategorySlug:      l.CategorySlug,
		PositionType:      l.PositionType,
		VenueType:         l.VenueType,
		ShiftTypes:        l.ShiftTypes,
		CuisineTypes:      l.CuisineTypes,
		ExperienceLevel:   l.ExperienceLevel,
		ServiceExperience: l.ServiceExperience,
		ShowSalary:        l.ShowSalary,
		Urgent:            l.Urgent,
	}
	if l.ShowSalary {
		s.SalaryMin = l.SalaryMin
		s.SalaryMax = l.SalaryMax
	}
	if l.PublishedAt != nil {
		s.PublishedAt = l.PublishedAt.Format("2006-01-02")
	}
	return s
}

// Selection holds the active facet values. A zero-valued facet imposes no
// constraint; it never excludes anything.
type Selection struct {
	Query           string   `form:"q"`
	City            string   `form:"city"`
	Category        string   `form:"category"`
	PositionTypes   []string `form:"position"`
	ShiftTypes      []string `form:"shift"`
	VenueTypes      []string `form:"venue"`
	CuisineTypes    []string `form:"cuisine"`
	ExperienceLevel string   `form:"experience"`
	UrgentOnly      bool     `form:"urgent"`
	MinSalary       int      `form:"min_salary"`
}

// IsEmpty reports whether no facet is active.
func (s Selection) IsEmpty() bool {
	return s.Query == "" && s.City == "" && s.Category == "" &&
		len(s.PositionTypes) == 0 && len(s.ShiftTypes) == 0 &&
		len(s.VenueTypes) == 0 && len(s.CuisineTypes) == 0 &&
		s.ExperienceLevel == "" && !s.UrgentOnly && s.MinSalary <= 0
}

// Filter returns the jobs matching every active facet, preserving input
// order. It is a pure function: malformed or missing optional fields on a
// job fail that facet for that job instead of raising an error.
func Filter(jobs []Summary, sel Selection) []Summary {
	if sel.IsEmpty() {
		return jobs
	}
	matched := make([]Summary, 0, len(jobs))
	for _, job := range jobs {
		if Matches(job, sel) {
			matched = append(matched, job)
		}
	}
	return matched
}

// Matches reports whether a single job passes every active facet (logical
// AND across facets).
func Matches(job Summary, sel Selection) bool {
	if sel.Query != "" && !matchesQuery(job, sel.Query) {
		return false
	}
	if sel.City != "" && !strings.EqualFold(job.City, sel.City) {
		return false
	}
	if sel.Category != "" && job.CategorySlug != sel.Category {
		return false
	}
	// One job has exactly one position type but the facet is multi-select,
	// so this is a membership test rather than equality. Venue works the
	// same way.
	if len(sel.PositionTypes) > 0 && !lo.Contains(sel.PositionTypes, job.PositionType) {
		return false
	}
	if len(sel.VenueTypes) > 0 && !lo.Contains(sel.VenueTypes, job.VenueType) {
		return false
	}
	// Shift and cuisine are set-valued on both sides: at least one common
	// element is enough.
	if len(sel.ShiftTypes) > 0 && !lo.Some(job.ShiftTypes, sel.ShiftTypes) {
		return false
	}
	if len(sel.CuisineTypes) > 0 && !lo.Some(job.CuisineTypes, sel.CuisineTypes) {
		return false
	}
	// A listing carries a general and a service-specific experience field;
	// either one matching the selection counts.
	if sel.ExperienceLevel != "" &&
		job.ExperienceLevel != sel.ExperienceLevel &&
		job.ServiceExperience != sel.ExperienceLevel {
		return false
	}
	if sel.UrgentOnly && !job.Urgent {
		return false
	}
	if sel.MinSalary > 0 && (job.SalaryMin <= 0 || job.SalaryMin < sel.MinSalary) {
		return false
	}
	return true
}

func matchesQuery(job Summary, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(job.Title), q) ||
		strings.Contains(strings.ToLower(job.CompanyName), q)
}
