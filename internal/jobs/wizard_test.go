package jobs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mekanis/internal/database"
)

func TestWizardStepOneRequiresPositionAndCity(t *testing.T) {
	w := NewWizard()

	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, StepBasics, w.CurrentStep)

	w.Draft.PositionType = "garson"
	err = w.Next()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "city", verr.Field)
	assert.Equal(t, StepBasics, w.CurrentStep)

	w.SetCity("istanbul")
	require.NoError(t, w.Next())
	assert.Equal(t, StepSchedule, w.CurrentStep)
}

func TestWizardStepTwoRequiresShift(t *testing.T) {
	w := NewWizard()
	w.Draft.PositionType = "garson"
	w.SetCity("istanbul")
	require.NoError(t, w.Next())

	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, StepSchedule, w.CurrentStep)

	w.Draft.ShiftTypes = []string{"evening"}
	require.NoError(t, w.Next())
	assert.Equal(t, StepSkills, w.CurrentStep)
}

func TestWizardFreeFormStepsAlwaysAdvance(t *testing.T) {
	w := wizardAtStep(t, StepSkills)
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	assert.Equal(t, StepDescription, w.CurrentStep)
}

func TestWizardDescriptionGate(t *testing.T) {
	w := wizardAtStep(t, StepDescription)

	w.Draft.Description = "çok kısa"
	require.Error(t, w.Next())
	assert.Equal(t, StepDescription, w.CurrentStep)

	w.Draft.Description = strings.Repeat("a", 50)
	require.NoError(t, w.Next())
	assert.Equal(t, StepPreview, w.CurrentStep)
}

func TestWizardPreviousNeverValidates(t *testing.T) {
	w := wizardAtStep(t, StepSchedule)
	w.Draft.PositionType = "" // invalidate an earlier gate
	w.Previous()
	assert.Equal(t, StepBasics, w.CurrentStep)
	w.Previous()
	assert.Equal(t, StepBasics, w.CurrentStep)
}

func TestWizardPublishRevalidatesAllGates(t *testing.T) {
	w := wizardAtStep(t, StepDescription)
	w.Draft.Description = strings.Repeat("x", 50)
	require.NoError(t, w.Next())
	require.Equal(t, StepPreview, w.CurrentStep)

	// back-navigate and break an earlier gate, then return to preview
	w.Previous()
	w.Draft.Description = "on chars.."
	require.Error(t, w.Next())

	// a draft save accepts the incomplete state
	draft := w.SaveDraft(time.Now())
	assert.Equal(t, database.JobStatusDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)

	// publish must fail no matter which step the user is on
	_, err := w.Publish(time.Now())
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "description", verr.Field)
}

func TestWizardPublishSetsStatusAndTimestamp(t *testing.T) {
	w := completeWizard(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	listing, err := w.Publish(now)
	require.NoError(t, err)
	assert.Equal(t, database.JobStatusActive, listing.Status)
	require.NotNil(t, listing.PublishedAt)
	assert.Equal(t, now, *listing.PublishedAt)
}

func TestWizardDerivesTitleFromPositionLabel(t *testing.T) {
	w := completeWizard(t)
	w.Draft.Title = ""
	w.Draft.PositionType = "asci-yardimcisi"

	listing, err := w.Publish(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Aşçı Yardımcısı", listing.Title)
	assert.True(t, strings.HasPrefix(listing.Slug, "asci-yardimcisi-"))
}

func TestWizardCityChangeClearsDistrict(t *testing.T) {
	w := NewWizard()
	w.SetCity("istanbul")
	w.Draft.District = "kadikoy"

	opts := w.SetCity("ankara")
	assert.Empty(t, w.Draft.District)
	assert.NotEmpty(t, opts)

	// re-selecting the same city keeps the district
	w.Draft.District = "cankaya"
	w.SetCity("ankara")
	assert.Equal(t, "cankaya", w.Draft.District)
}

func TestEditWizardKeepsSlugOncePublished(t *testing.T) {
	published := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	existing := database.JobListing{
		Title:        "Garson",
		Slug:         "garson-abc123",
		PositionType: "garson",
		City:         "istanbul",
		ShiftTypes:   []string{"evening"},
		Description:  strings.Repeat("d", 60),
		Status:       database.JobStatusActive,
		PublishedAt:  &published,
	}

	w := NewEditWizard(existing)
	w.Draft.Title = "Kıdemli Garson"

	listing, err := w.Publish(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "garson-abc123", listing.Slug)
	require.NotNil(t, listing.PublishedAt)
	assert.Equal(t, published, *listing.PublishedAt)
	assert.Equal(t, "Kıdemli Garson", listing.Title)
}

func TestEditWizardSaveDraftNeverDemotesPublishedListing(t *testing.T) {
	published := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	existing := database.JobListing{
		Title:        "Komi",
		Slug:         "komi-xyz789",
		PositionType: "komi",
		City:         "istanbul",
		ShiftTypes:   []string{"morning"},
		Description:  strings.Repeat("k", 60),
		Status:       database.JobStatusActive,
		PublishedAt:  &published,
	}

	w := NewEditWizard(existing)
	w.Draft.Description = "kısaltıldı"

	listing := w.SaveDraft(time.Now())
	assert.Equal(t, database.JobStatusActive, listing.Status)
	require.NotNil(t, listing.PublishedAt)
	assert.Equal(t, published, *listing.PublishedAt)
	assert.Equal(t, "komi-xyz789", listing.Slug)
}

func wizardAtStep(t *testing.T, step int) *Wizard {
	t.Helper()
	w := NewWizard()
	w.Draft.PositionType = "garson"
	w.SetCity("istanbul")
	w.Draft.ShiftTypes = []string{"evening"}
	for w.CurrentStep < step {
		if err := w.Next(); err != nil {
			t.Fatalf("advance to step %d: %v", step, err)
		}
	}
	return w
}

func completeWizard(t *testing.T) *Wizard {
	t.Helper()
	w := wizardAtStep(t, StepDescription)
	w.Draft.Description = strings.Repeat("ç", 50)
	if err := w.Next(); err != nil {
		t.Fatalf("advance to preview: %v", err)
	}
	return w
}
