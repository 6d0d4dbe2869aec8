// Package profile holds the pure helpers behind the candidate profile
// section editors: derived display state and the business rules checked
// before any write.
package profile

import (
	"fmt"
	"strings"
	"time"

	"mekanis/internal/database"
)

// HasLanguage reports whether a language code is already present. The
// duplicate check runs before the insert so a duplicate attempt never
// reaches the database.
func HasLanguage(languages []database.Language, code string) bool {
	for _, l := range languages {
		if strings.EqualFold(l.Code, code) {
			return true
		}
	}
	return false
}

// CertificateExpired derives the "expired" display state. Presentation
// only: an expired certificate blocks nothing.
func CertificateExpired(cert database.Certificate, now time.Time) bool {
	if cert.ExpiryDate == nil {
		return false
	}
	return cert.ExpiryDate.Before(now.Truncate(24 * time.Hour))
}

// ExperienceMonths returns the span of one experience entry in whole
// months. Entries marked current run until now.
func ExperienceMonths(exp database.Experience, now time.Time) int {
	end := now
	if !exp.Current && exp.EndDate != nil {
		end = *exp.EndDate
	}
	if end.Before(exp.StartDate) {
		return 0
	}

	months := (end.Year()-exp.StartDate.Year())*12 + int(end.Month()) - int(exp.StartDate.Month())
	if end.Day() < exp.StartDate.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months
}

// ExperienceDuration renders the span of one experience entry in whole
// years and remaining months.
func ExperienceDuration(exp database.Experience, now time.Time) string {
	months := ExperienceMonths(exp, now)
	years := months / 12
	months = months % 12

	switch {
	case years == 0 && months == 0:
		return "1 aydan az"
	case years == 0:
		return fmt.Sprintf("%d ay", months)
	case months == 0:
		return fmt.Sprintf("%d yıl", years)
	default:
		return fmt.Sprintf("%d yıl %d ay", years, months)
	}
}

// Completion score components, 20 points each.
const scorePerComponent = 20

// CompletionScore computes the profile completion percentage from five
// equally weighted components: basic info, an uploaded CV, and at least one
// experience, education, and language entry.
func CompletionScore(p database.CandidateProfile) int {
	score := 0
	if p.FullName != "" && p.Title != "" && p.City != "" {
		score += scorePerComponent
	}
	if p.ResumeKey != "" {
		score += scorePerComponent
	}
	if len(p.Experiences) > 0 {
		score += scorePerComponent
	}
	if len(p.Educations) > 0 {
		score += scorePerComponent
	}
	if len(p.Languages) > 0 {
		score += scorePerComponent
	}
	return score
}
