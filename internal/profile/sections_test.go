package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mekanis/internal/database"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestHasLanguage(t *testing.T) {
	langs := []database.Language{
		{Code: "tr", Name: "Türkçe"},
		{Code: "en", Name: "İngilizce"},
	}

	assert.True(t, HasLanguage(langs, "en"))
	assert.True(t, HasLanguage(langs, "EN"), "code match is case-insensitive")
	assert.False(t, HasLanguage(langs, "de"))
	assert.False(t, HasLanguage(nil, "tr"))
}

func TestCertificateExpired(t *testing.T) {
	now := date(2026, time.June, 15)

	assert.False(t, CertificateExpired(database.Certificate{}, now), "no expiry date never expires")
	assert.True(t, CertificateExpired(database.Certificate{ExpiryDate: datePtr(2026, time.June, 1)}, now))
	assert.False(t, CertificateExpired(database.Certificate{ExpiryDate: datePtr(2026, time.July, 1)}, now))
}

func TestExperienceDuration(t *testing.T) {
	now := date(2026, time.September, 1)

	cases := []struct {
		name string
		exp  database.Experience
		want string
	}{
		{
			name: "closed span with years and months",
			exp:  database.Experience{StartDate: date(2022, time.January, 10), EndDate: datePtr(2024, time.April, 10)},
			want: "2 yıl 3 ay",
		},
		{
			name: "months only",
			exp:  database.Experience{StartDate: date(2025, time.November, 1), EndDate: datePtr(2026, time.April, 1)},
			want: "5 ay",
		},
		{
			name: "exact years",
			exp:  database.Experience{StartDate: date(2023, time.March, 1), EndDate: datePtr(2026, time.March, 1)},
			want: "3 yıl",
		},
		{
			name: "current runs until now",
			exp:  database.Experience{StartDate: date(2025, time.September, 1), Current: true},
			want: "1 yıl",
		},
		{
			name: "under a month",
			exp:  database.Experience{StartDate: date(2026, time.August, 20), EndDate: datePtr(2026, time.September, 5)},
			want: "1 aydan az",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExperienceDuration(tc.exp, now))
		})
	}
}

func TestCompletionScoreEmptyProfile(t *testing.T) {
	assert.Equal(t, 0, CompletionScore(database.CandidateProfile{}))
}

func TestCompletionScoreResumeAndExperience(t *testing.T) {
	p := database.CandidateProfile{
		ResumeKey:   "cv/1/resume.pdf",
		Experiences: []database.Experience{{CompanyName: "Deniz Balık Evi"}},
	}
	assert.Equal(t, 40, CompletionScore(p))
}

func TestCompletionScoreFullProfile(t *testing.T) {
	p := database.CandidateProfile{
		FullName:    "Ayşe Demir",
		Title:       "Barista",
		City:        "İzmir",
		ResumeKey:   "cv/2/resume.pdf",
		Experiences: []database.Experience{{}},
		Educations:  []database.Education{{}},
		Languages:   []database.Language{{Code: "tr"}},
	}
	assert.Equal(t, 100, CompletionScore(p))
}
