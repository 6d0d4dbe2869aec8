package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleJobs() []Summary {
	return []Summary{
		{
			ID: 1, Title: "Garson", CompanyName: "Deniz Balık Evi",
			City: "İstanbul", CategorySlug: "servis", PositionType: "garson",
			VenueType: "restoran", ShiftTypes: []string{"morning", "evening"},
			CuisineTypes:    []string{"deniz-urunleri", "turk"},
			ExperienceLevel: "mid", SalaryMin: 30000, Urgent: false,
		},
		{
			ID: 2, Title: "Barista", CompanyName: "Kavela Coffee",
			City: "Ankara", CategorySlug: "bar", PositionType: "barista",
			VenueType: "kafe", ShiftTypes: []string{"morning"},
			ExperienceLevel: "junior", ServiceExperience: "mid",
			SalaryMin: 25000, Urgent: true,
		},
		{
			ID: 3, Title: "Aşçı Yardımcısı", CompanyName: "Mutfak 34",
			City: "İstanbul", CategorySlug: "mutfak", PositionType: "asci-yardimcisi",
			VenueType: "lokanta", ShiftTypes: []string{"evening", "night"},
			CuisineTypes:    []string{"turk", "kebap"},
			ExperienceLevel: "none", Urgent: true,
		},
	}
}

func ids(jobs []Summary) []uint {
	out := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestFilterEmptySelectionExcludesNothing(t *testing.T) {
	jobs := sampleJobs()
	got := Filter(jobs, Selection{})
	assert.Equal(t, jobs, got)
}

func TestFilterPreservesInputOrder(t *testing.T) {
	got := Filter(sampleJobs(), Selection{City: "İstanbul"})
	assert.Equal(t, []uint{1, 3}, ids(got))
}

func TestFilterQueryMatchesTitleOrCompany(t *testing.T) {
	jobs := sampleJobs()

	assert.Equal(t, []uint{2}, ids(Filter(jobs, Selection{Query: "barista"})))
	// company name alone is sufficient
	assert.Equal(t, []uint{2}, ids(Filter(jobs, Selection{Query: "kavela"})))
	assert.Empty(t, Filter(jobs, Selection{Query: "sommelier"}))
}

func TestFilterANDComposition(t *testing.T) {
	jobs := sampleJobs()
	s1 := Selection{City: "İstanbul"}
	s2 := Selection{UrgentOnly: true}
	combined := Selection{City: "İstanbul", UrgentOnly: true}

	// disjoint facets compose: applying them together equals applying them
	// in sequence
	assert.Equal(t, ids(Filter(Filter(jobs, s1), s2)), ids(Filter(jobs, combined)))
	assert.Equal(t, []uint{3}, ids(Filter(jobs, combined)))
}

func TestFilterShiftIntersection(t *testing.T) {
	job := Summary{ID: 1, ShiftTypes: []string{"morning", "evening"}}

	// one common element is enough
	assert.True(t, Matches(job, Selection{ShiftTypes: []string{"evening", "night"}}))
	assert.False(t, Matches(job, Selection{ShiftTypes: []string{"night"}}))
}

func TestFilterPositionMembership(t *testing.T) {
	jobs := sampleJobs()
	got := Filter(jobs, Selection{PositionTypes: []string{"garson", "barista"}})
	assert.Equal(t, []uint{1, 2}, ids(got))
}

func TestFilterCuisineIntersection(t *testing.T) {
	jobs := sampleJobs()
	got := Filter(jobs, Selection{CuisineTypes: []string{"kebap", "italyan"}})
	assert.Equal(t, []uint{3}, ids(got))

	// a job without cuisine data never matches an active cuisine facet
	got = Filter(jobs, Selection{CuisineTypes: []string{"turk"}})
	assert.Equal(t, []uint{1, 3}, ids(got))
}

func TestFilterExperienceMatchesEitherField(t *testing.T) {
	jobs := sampleJobs()
	// job 2 has general=junior, service=mid; job 1 has general=mid
	got := Filter(jobs, Selection{ExperienceLevel: "mid"})
	assert.Equal(t, []uint{1, 2}, ids(got))
}

func TestFilterMinSalary(t *testing.T) {
	jobs := sampleJobs()
	got := Filter(jobs, Selection{MinSalary: 28000})
	// job 3 has no salary data and must not match
	assert.Equal(t, []uint{1}, ids(got))
}

func TestFilterUrgentOnly(t *testing.T) {
	got := Filter(sampleJobs(), Selection{UrgentOnly: true})
	assert.Equal(t, []uint{2, 3}, ids(got))
}
