package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role controls which API surface an account may use.
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

// User is an account. Candidates own a CandidateProfile, employers a Company.
type User struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex;size:255"`
	PasswordHash       string `gorm:"size:255"`
	Role               string `gorm:"size:16;index"`
	MustChangePassword bool   `gorm:"default:false"`
}

// CandidateProfile holds the public profile of a candidate account.
// Multi-select preference sets are stored as JSON arrays of catalog values.
type CandidateProfile struct {
	gorm.Model
	UserID             uint   `gorm:"uniqueIndex"`
	User               User   `gorm:"constraint:OnDelete:CASCADE"`
	FullName           string `gorm:"size:128"`
	Title              string `gorm:"size:128"`
	Bio                string `gorm:"type:text"`
	City               string `gorm:"size:64"`
	Phone              string `gorm:"size:32"`
	AvatarKey          string `gorm:"size:512"`
	ResumeKey          string `gorm:"size:512"` // uploaded CV object key
	LinkedinURL        string `gorm:"size:512"`
	InstagramURL       string `gorm:"size:512"`
	PositionTypes      datatypes.JSONSlice[string]
	ShiftPreferences   datatypes.JSONSlice[string]
	VenueTypes         datatypes.JSONSlice[string]
	CuisineSpecialties datatypes.JSONSlice[string]
	Skills             datatypes.JSONSlice[string]
	ExperienceSummary  string `gorm:"type:text"`
	SalaryExpectMin    int
	SalaryExpectMax    int

	Experiences  []Experience  `gorm:"constraint:OnDelete:CASCADE"`
	Educations   []Education   `gorm:"constraint:OnDelete:CASCADE"`
	Certificates []Certificate `gorm:"constraint:OnDelete:CASCADE"`
	Languages    []Language    `gorm:"constraint:OnDelete:CASCADE"`
}

// Experience is one employment entry on a candidate profile.
type Experience struct {
	gorm.Model
	CandidateProfileID uint   `gorm:"index"`
	CompanyName        string `gorm:"size:128"`
	Position           string `gorm:"size:128"`
	City               string `gorm:"size:64"`
	Description        string `gorm:"type:text"`
	StartDate          time.Time
	EndDate            *time.Time
	Current            bool
}

// Education is one school entry on a candidate profile.
type Education struct {
	gorm.Model
	CandidateProfileID uint   `gorm:"index"`
	School             string `gorm:"size:128"`
	Field              string `gorm:"size:128"`
	Degree             string `gorm:"size:64"`
	StartYear          int
	EndYear            int
	Ongoing            bool
}

// Certificate is one certificate entry. Type values come from the catalog
// tables; the category grouping there is presentation only.
type Certificate struct {
	gorm.Model
	CandidateProfileID uint   `gorm:"index"`
	Type               string `gorm:"size:64"`
	Name               string `gorm:"size:128"`
	Issuer             string `gorm:"size:128"`
	IssueDate          *time.Time
	ExpiryDate         *time.Time
}

// Language is one spoken-language entry. Code is unique within a profile,
// enforced in the handler before insert.
type Language struct {
	gorm.Model
	CandidateProfileID uint   `gorm:"index"`
	Code               string `gorm:"size:8"`
	Name               string `gorm:"size:64"`
	Level              string `gorm:"size:32"`
}

// Company is an employer's venue profile. Verified and Active are
// admin-controlled moderation flags.
type Company struct {
	gorm.Model
	UserID       uint   `gorm:"uniqueIndex"`
	User         User   `gorm:"constraint:OnDelete:CASCADE"`
	Name         string `gorm:"size:128"`
	Slug         string `gorm:"uniqueIndex;size:160"`
	LogoKey      string `gorm:"size:512"`
	Sector       string `gorm:"size:64"`
	Size         string `gorm:"size:32"`
	City         string `gorm:"size:64"`
	Address      string `gorm:"size:512"`
	Website      string `gorm:"size:512"`
	InstagramURL string `gorm:"size:512"`
	Description  string `gorm:"type:text"`
	Verified     bool   `gorm:"default:false"`
	Active       bool   `gorm:"default:true"`
}

// Job listing statuses. Transitions only ever run draft -> active -> closed.
const (
	JobStatusDraft  = "draft"
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

// JobListing is one posting. Slug is unique and immutable once published.
type JobListing struct {
	gorm.Model
	CompanyID uint    `gorm:"index"`
	Company   Company `gorm:"constraint:OnDelete:CASCADE"`

	Title          string `gorm:"size:255"`
	Slug           string `gorm:"uniqueIndex;size:300"`
	Description    string `gorm:"type:text"`
	Responsibility string `gorm:"type:text"`
	Qualifications string `gorm:"type:text"`
	AdditionalInfo string `gorm:"type:text"`

	CategorySlug string `gorm:"size:64;index"`
	PositionType string `gorm:"size:64;index"`
	VenueType    string `gorm:"size:64"`

	City     string `gorm:"size:64;index"`
	District string `gorm:"size:64"`
	Address  string `gorm:"size:512"`

	WorkType    string `gorm:"size:32"`
	ShiftTypes  datatypes.JSONSlice[string]
	WorkingDays string `gorm:"size:32"`

	SalaryMin   int
	SalaryMax   int
	Currency    string `gorm:"size:8;default:TRY"`
	PaymentType string `gorm:"size:32"`
	ShowSalary  bool   `gorm:"default:true"`

	ExperienceLevel      string `gorm:"size:32"`
	ServiceExperience    string `gorm:"size:32"` // service-industry specific level, may differ from the general one
	RequiredCertificates datatypes.JSONSlice[string]
	AgeMin               int
	AgeMax               int
	GenderPreference     string `gorm:"size:16"`
	CuisineTypes         datatypes.JSONSlice[string]
	Languages            datatypes.JSONSlice[string]
	Skills               datatypes.JSONSlice[string]

	UniformPolicy string `gorm:"size:32"`
	MealPolicy    string `gorm:"size:32"`
	TipPolicy     string `gorm:"size:32"`
	Benefits      datatypes.JSONSlice[string]

	Status           string `gorm:"size:16;index"`
	Urgent           bool   `gorm:"default:false"`
	PublishedAt      *time.Time
	ViewCount        int `gorm:"default:0"`
	ApplicationCount int `gorm:"default:0"`
}

// Application statuses, see applications.Workflow for the transition graph.
const (
	ApplicationPending   = "pending"
	ApplicationReviewing = "reviewing"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
)

// Contact preference for replies to an application.
const (
	ContactByEmail = "email"
	ContactByPhone = "phone"
)

// Application is a candidate's (or guest's) application to one listing.
// Exactly one of CandidateProfileID or the guest triple is populated.
type Application struct {
	gorm.Model
	JobListingID uint       `gorm:"index;uniqueIndex:idx_job_candidate,priority:1"`
	JobListing   JobListing `gorm:"constraint:OnDelete:CASCADE"`

	CandidateProfileID *uint             `gorm:"uniqueIndex:idx_job_candidate,priority:2"`
	CandidateProfile   *CandidateProfile `gorm:"constraint:OnDelete:SET NULL"`

	GuestName  string `gorm:"size:128"`
	GuestEmail string `gorm:"size:255"`
	GuestPhone string `gorm:"size:32"`

	ResumeKey         string `gorm:"size:512"`
	CoverLetter       string `gorm:"type:text"`
	ContactPreference string `gorm:"size:16;default:email"`
	Status            string `gorm:"size:16;index;default:pending"`
}

// IsGuest reports whether the application was submitted without an account.
func (a Application) IsGuest() bool {
	return a.CandidateProfileID == nil
}

// ApplicantName returns the profile name, falling back to the guest name.
func (a Application) ApplicantName() string {
	if a.CandidateProfile != nil && a.CandidateProfile.FullName != "" {
		return a.CandidateProfile.FullName
	}
	return a.GuestName
}

// ApplicantEmail returns the account email when linked, otherwise the guest email.
func (a Application) ApplicantEmail() string {
	if a.CandidateProfile != nil && a.CandidateProfile.User.Email != "" {
		return a.CandidateProfile.User.Email
	}
	return a.GuestEmail
}
