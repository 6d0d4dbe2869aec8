package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistrictsForFoldsTurkishSpelling(t *testing.T) {
	plain := DistrictsFor("istanbul")
	assert.NotEmpty(t, plain)

	assert.Equal(t, plain, DistrictsFor("İstanbul"))
	assert.Equal(t, plain, DistrictsFor("ISTANBUL"))
	assert.Equal(t, plain, DistrictsFor(" İstanbul "))
}

func TestDistrictsForUnknownCity(t *testing.T) {
	assert.Empty(t, DistrictsFor("rize"))
	assert.Empty(t, DistrictsFor(""))
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, "Aşçı Yardımcısı", LabelFor(PositionTypes, "asci-yardimcisi"))
	assert.Equal(t, "bilinmeyen", LabelFor(PositionTypes, "bilinmeyen"))
}
