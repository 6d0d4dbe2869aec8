package jobs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugBaseTransliteratesTurkish(t *testing.T) {
	cases := map[string]string{
		"Aşçı Yardımcısı":         "asci-yardimcisi",
		"Garson":                  "garson",
		"Gece Vardiyası Komisi":   "gece-vardiyasi-komisi",
		"Barista   (Tam Zamanlı)": "barista-tam-zamanli",
		"Bulaşıkçı!!":             "bulasikci",
		"  --  ":                  "",
		"Çiğ Köfte Ustası":        "cig-kofte-ustasi",
	}
	for title, want := range cases {
		assert.Equal(t, want, SlugBase(title), "title %q", title)
	}
}

func TestNewSlugDeterministicBase(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	slug := NewSlug("Aşçı Yardımcısı", now)
	assert.True(t, strings.HasPrefix(slug, "asci-yardimcisi-"), "got %q", slug)
}

func TestNewSlugUniquePerTimestamp(t *testing.T) {
	t1 := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	t2 := t1.Add(time.Millisecond)
	assert.NotEqual(t, NewSlug("Garson", t1), NewSlug("Garson", t2))
}

func TestNewSlugEmptyTitleStillProducesSlug(t *testing.T) {
	slug := NewSlug("!!!", time.Now())
	assert.NotEmpty(t, slug)
	assert.False(t, strings.HasPrefix(slug, "-"))
}
