package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type patchDTO struct {
	Name  *string  `json:"name"`
	Rate  *float64 `json:"rate"`
	Notes *string  `json:"-"`
	City  *string  `json:"city"`
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestNormalizePtrDTO(t *testing.T) {
	dto := patchDTO{Name: strPtr("  Acme  "), Rate: f64Ptr(19.999)}
	NormalizePtrDTO(&dto)
	assert.Equal(t, "Acme", *dto.Name)
	assert.Equal(t, 20.0, *dto.Rate)
	assert.Nil(t, dto.City)
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	dto := patchDTO{Name: strPtr("Acme"), Rate: f64Ptr(12.5), Notes: strPtr("skip me")}
	got := UpdatesFromPtrDTO(&dto, map[string]string{"name": "company_name"})
	assert.Equal(t, map[string]any{"company_name": "Acme", "rate": 12.5}, got)
}

type createDTO struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

func TestNormalizeDTO(t *testing.T) {
	dto := createDTO{Name: " Hosting ", Rate: 9.996}
	NormalizeDTO(&dto)
	assert.Equal(t, "Hosting", dto.Name)
	assert.Equal(t, 10.0, dto.Rate)
}
