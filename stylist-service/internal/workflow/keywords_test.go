package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"outfit-server/shared/models"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "evento formal", normalizeText("  ¡Evénto   FORMAL! "))
	assert.Equal(t, "t shirt", normalizeText("T-Shirt"))
	assert.Equal(t, "otono", normalizeText("Otoño"))
	assert.Equal(t, "", normalizeText("?!"))
}

func TestExtractSlots(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.CollectedSlots
	}{
		{"accent and case insensitive", "Algo ELEGÁNTE para la Oficina", models.CollectedSlots{Occasion: "office", Style: "elegant"}},
		{"phrase beats shorter match", "para un evento formal", models.CollectedSlots{Occasion: "formal_event"}},
		{"whole words only", "laptop bag", models.CollectedSlots{}},
		{"english sentence", "Casual sneakers for a trip", models.CollectedSlots{Occasion: "travel", Style: "casual", Category: "shoes"}},
		{"earliest match wins", "fiesta o boda", models.CollectedSlots{Occasion: "party"}},
		{"empty", "", models.CollectedSlots{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSlots(tt.in))
		})
	}
}

func TestCanonicalize(t *testing.T) {
	v, ok := Canonicalize(models.SlotCategory, "Zapatillas")
	assert.True(t, ok)
	assert.Equal(t, models.CategoryShoes, v)

	_, ok = Canonicalize(models.SlotCategory, "sombrero")
	assert.False(t, ok, "unknown category is rejected")

	v, ok = Canonicalize(models.SlotOccasion, "formal_event")
	assert.True(t, ok)
	assert.Equal(t, OccasionFormalEvent, v)

	v, ok = Canonicalize(models.SlotStyle, "Cyber Punk")
	assert.True(t, ok)
	assert.Equal(t, "cyber_punk", v)

	_, ok = Canonicalize(models.SlotStyle, "   ")
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "la oficina", Label(models.SlotOccasion, OccasionOffice, LocaleES))
	assert.Equal(t, "the office", Label(models.SlotOccasion, OccasionOffice, LocaleEN))
	assert.Equal(t, "la oficina", Label(models.SlotOccasion, OccasionOffice, "fr"))
	assert.Equal(t, "cyber punk", Label(models.SlotStyle, "cyber_punk", LocaleES))
}

func TestMissingFieldsOrder(t *testing.T) {
	assert.Equal(t, SlotOrder, MissingFields(models.CollectedSlots{}))
	assert.Equal(t, []models.Slot{models.SlotOccasion, models.SlotCategory}, MissingFields(models.CollectedSlots{Style: "casual"}))
	assert.NotNil(t, MissingFields(models.CollectedSlots{Occasion: "a", Style: "b", Category: "top"}))
	assert.Empty(t, MissingFields(models.CollectedSlots{Occasion: "a", Style: "b", Category: "top"}))
}

func TestResolveLocale(t *testing.T) {
	assert.Equal(t, LocaleES, ResolveLocale("", ""))
	assert.Equal(t, LocaleEN, ResolveLocale("", LocaleEN))
	assert.Equal(t, LocaleEN, ResolveLocale("en-GB,en;q=0.8", LocaleES))
	assert.Equal(t, LocaleES, ResolveLocale("es-MX", LocaleEN))
	assert.Equal(t, LocaleES, ResolveLocale("not a locale!!", LocaleES))
}

func TestClassifyGenerationError(t *testing.T) {
	assert.Equal(t, models.WorkflowErrGenerationTimeout, ClassifyGenerationError(ErrGenerationTimeout))
	assert.Equal(t, models.WorkflowErrInsufficientCredits, ClassifyGenerationError(models.ErrInsufficientCredits))
	assert.Equal(t, models.WorkflowErrGenerationFailed, ClassifyGenerationError(assert.AnError))
}
