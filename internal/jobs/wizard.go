package jobs

import (
	"fmt"
	"strings"
	"time"

	"mekanis/internal/catalog"
	"mekanis/internal/database"
)

// Wizard steps. Preview is terminal: from there the draft is either saved
// or published, never advanced.
const (
	StepBasics      = 1 // position type + city
	StepSchedule    = 2 // shifts, working days, work type
	StepSkills      = 3 // cuisine, languages, skills, certificates
	StepSalary      = 4 // compensation + benefits
	StepDescription = 5 // free text fields
	StepPreview     = 6
)

// ValidationError reports which field blocked a step transition. It is
// surfaced inline; nothing is persisted until a terminal action.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Draft accumulates the job record across steps. Nothing is persisted until
// SaveDraft or Publish maps it into a JobListing.
type Draft struct {
	Title        string
	PositionType string
	VenueType    string
	CategorySlug string
	City         string
	District     string
	Address      string

	WorkType    string
	ShiftTypes  []string
	WorkingDays string

	CuisineTypes         []string
	Languages            []string
	Skills               []string
	RequiredCertificates []string
	ExperienceLevel      string
	ServiceExperience    string
	AgeMin               int
	AgeMax               int
	GenderPreference     string

	SalaryMin   int
	SalaryMax   int
	Currency    string
	PaymentType string
	ShowSalary  bool
	Benefits    []string

	UniformPolicy string
	MealPolicy    string
	TipPolicy     string

	Description    string
	Responsibility string
	Qualifications string
	AdditionalInfo string
	Urgent         bool
}

// Wizard is the multi-step posting form state machine. CurrentStep is the
// only control state besides the accumulated draft.
type Wizard struct {
	CurrentStep int
	Draft       Draft

	existing *database.JobListing
}

// NewWizard starts a create-mode wizard at step 1.
func NewWizard() *Wizard {
	return &Wizard{
		CurrentStep: StepBasics,
		Draft:       Draft{Currency: "TRY", ShowSalary: true},
	}
}

// NewEditWizard starts an edit-mode wizard prefilled from an existing
// listing. The listing's slug is kept when it was already published.
func NewEditWizard(listing database.JobListing) *Wizard {
	return &Wizard{
		CurrentStep: StepBasics,
		Draft: Draft{
			Title:                listing.Title,
			PositionType:         listing.PositionType,
			VenueType:            listing.VenueType,
			CategorySlug:         listing.CategorySlug,
			City:                 listing.City,
			District:             listing.District,
			Address:              listing.Address,
			WorkType:             listing.WorkType,
			ShiftTypes:           listing.ShiftTypes,
			WorkingDays:          listing.WorkingDays,
			CuisineTypes:         listing.CuisineTypes,
			Languages:            listing.Languages,
			Skills:               listing.Skills,
			RequiredCertificates: listing.RequiredCertificates,
			ExperienceLevel:      listing.ExperienceLevel,
			ServiceExperience:    listing.ServiceExperience,
			AgeMin:               listing.AgeMin,
			AgeMax:               listing.AgeMax,
			GenderPreference:     listing.GenderPreference,
			SalaryMin:            listing.SalaryMin,
			SalaryMax:            listing.SalaryMax,
			Currency:             listing.Currency,
			PaymentType:          listing.PaymentType,
			ShowSalary:           listing.ShowSalary,
			Benefits:             listing.Benefits,
			UniformPolicy:        listing.UniformPolicy,
			MealPolicy:           listing.MealPolicy,
			TipPolicy:            listing.TipPolicy,
			Description:          listing.Description,
			Responsibility:       listing.Responsibility,
			Qualifications:       listing.Qualifications,
			AdditionalInfo:       listing.AdditionalInfo,
			Urgent:               listing.Urgent,
		},
		existing: &listing,
	}
}

// Next advances one step if the current step's gate passes. On failure the
// step does not change and the validation error is returned for inline
// display.
func (w *Wizard) Next() error {
	if w.CurrentStep >= StepPreview {
		return &ValidationError{Field: "step", Message: "önizleme son adımdır"}
	}
	if err := w.validateStep(w.CurrentStep); err != nil {
		return err
	}
	w.CurrentStep++
	return nil
}

// Previous always succeeds; going backward never validates.
func (w *Wizard) Previous() {
	if w.CurrentStep > StepBasics {
		w.CurrentStep--
	}
}

// SetCity records a city selection and clears any previously selected
// district, which may belong to the old city. District options for the new
// city come from the catalog table.
func (w *Wizard) SetCity(city string) []catalog.Option {
	if !strings.EqualFold(w.Draft.City, city) {
		w.Draft.District = ""
	}
	w.Draft.City = city
	return catalog.DistrictsFor(city)
}

func (w *Wizard) validateStep(step int) error {
	switch step {
	case StepBasics:
		if w.Draft.PositionType == "" {
			return &ValidationError{Field: "position_type", Message: "pozisyon seçimi zorunludur"}
		}
		if w.Draft.City == "" {
			return &ValidationError{Field: "city", Message: "şehir seçimi zorunludur"}
		}
	case StepSchedule:
		if len(w.Draft.ShiftTypes) == 0 {
			return &ValidationError{Field: "shift_types", Message: "en az bir vardiya seçilmelidir"}
		}
	case StepSkills, StepSalary:
		// free-form steps, nothing required
	case StepDescription:
		if len([]rune(strings.TrimSpace(w.Draft.Description))) < minDescriptionLen {
			return &ValidationError{Field: "description", Message: "açıklama en az 50 karakter olmalıdır"}
		}
	}
	return nil
}

const minDescriptionLen = 50

// SaveDraft maps the accumulated state into a draft listing without
// enforcing any step gate; an incomplete draft is allowed. A listing that
// was already published keeps its status and publish time: the status graph
// only ever runs draft -> active -> closed, never backwards.
func (w *Wizard) SaveDraft(now time.Time) database.JobListing {
	listing := w.build(now)
	if w.existing != nil && w.existing.PublishedAt != nil {
		listing.Status = w.existing.Status
		return listing
	}
	listing.Status = database.JobStatusDraft
	listing.PublishedAt = nil
	return listing
}

// Publish re-validates the union of every step gate regardless of the
// current step — back-navigation may have skipped a gate — and maps the
// state into an active listing.
func (w *Wizard) Publish(now time.Time) (database.JobListing, error) {
	for _, step := range []int{StepBasics, StepSchedule, StepDescription} {
		if err := w.validateStep(step); err != nil {
			return database.JobListing{}, err
		}
	}
	listing := w.build(now)
	listing.Status = database.JobStatusActive
	if listing.PublishedAt == nil {
		publishedAt := now
		listing.PublishedAt = &publishedAt
	}
	return listing, nil
}

// build applies the derived-field rules: the title defaults to the position
// type's display label, and the slug is derived from the title unless the
// listing was already published (slugs are immutable after publish).
func (w *Wizard) build(now time.Time) database.JobListing {
	d := w.Draft

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = catalog.LabelFor(catalog.PositionTypes, d.PositionType)
	}

	listing := database.JobListing{
		Title:                title,
		Description:          d.Description,
		Responsibility:       d.Responsibility,
		Qualifications:       d.Qualifications,
		AdditionalInfo:       d.AdditionalInfo,
		CategorySlug:         d.CategorySlug,
		PositionType:         d.PositionType,
		VenueType:            d.VenueType,
		City:                 d.City,
		District:             d.District,
		Address:              d.Address,
		WorkType:             d.WorkType,
		ShiftTypes:           d.ShiftTypes,
		WorkingDays:          d.WorkingDays,
		SalaryMin:            d.SalaryMin,
		SalaryMax:            d.SalaryMax,
		Currency:             d.Currency,
		PaymentType:          d.PaymentType,
		ShowSalary:           d.ShowSalary,
		ExperienceLevel:      d.ExperienceLevel,
		ServiceExperience:    d.ServiceExperience,
		RequiredCertificates: d.RequiredCertificates,
		AgeMin:               d.AgeMin,
		AgeMax:               d.AgeMax,
		GenderPreference:     d.GenderPreference,
		CuisineTypes:         d.CuisineTypes,
		Languages:            d.Languages,
		Skills:               d.Skills,
		UniformPolicy:        d.UniformPolicy,
		MealPolicy:           d.MealPolicy,
		TipPolicy:            d.TipPolicy,
		Benefits:             d.Benefits,
		Urgent:               d.Urgent,
	}

	if w.existing != nil {
		listing.Model = w.existing.Model
		listing.CompanyID = w.existing.CompanyID
		listing.ViewCount = w.existing.ViewCount
		listing.ApplicationCount = w.existing.ApplicationCount
		if w.existing.PublishedAt != nil {
			// already published once: keep slug and original publish time
			listing.Slug = w.existing.Slug
			listing.PublishedAt = w.existing.PublishedAt
		}
	}
	if listing.Slug == "" {
		listing.Slug = NewSlug(title, now)
	}
	return listing
}
