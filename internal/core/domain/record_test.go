package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() DrugRecord {
	return DrugRecord{
		Name:         "Emgality",
		Manufacturer: "Eli Lilly and Company",
		DosageForm:   "Injection",
		Strength:     "120 mg/mL",
		Route:        "Subcutaneous",
		Indications:  "Preventive treatment of migraine in adults.",
	}
}

func TestValidate_Success(t *testing.T) {
	rec := validRecord()
	require.NoError(t, rec.Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DrugRecord)
	}{
		{"empty name", func(r *DrugRecord) { r.Name = "" }},
		{"whitespace name", func(r *DrugRecord) { r.Name = "   " }},
		{"empty manufacturer", func(r *DrugRecord) { r.Manufacturer = "" }},
		{"whitespace manufacturer", func(r *DrugRecord) { r.Manufacturer = "\t\n" }},
		{"empty indications", func(r *DrugRecord) { r.Indications = "" }},
		{"name too long", func(r *DrugRecord) { r.Name = strings.Repeat("x", MaxIdentityLen+1) }},
		{"manufacturer too long", func(r *DrugRecord) { r.Manufacturer = strings.Repeat("m", 300) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			err := rec.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestValidate_NameAtBound(t *testing.T) {
	rec := validRecord()
	rec.Name = strings.Repeat("x", MaxIdentityLen)
	assert.NoError(t, rec.Validate())
}

func TestTitle(t *testing.T) {
	rec := validRecord()
	assert.Equal(t, "Emgality", rec.Title())

	rec.BrandName = "EMGALITY"
	assert.Equal(t, "EMGALITY", rec.Title())
}

func TestRawLabel_Label(t *testing.T) {
	raw := RawLabel{
		"drugName": "Test",
		"label":    map[string]any{"title": "TEST"},
	}
	label := raw.Label()
	require.NotNil(t, label)
	assert.Equal(t, "TEST", label["title"])

	assert.Nil(t, RawLabel{"drugName": "X"}.Label())
	assert.Nil(t, RawLabel{"label": "not a mapping"}.Label())
}

func TestQualityIssue_String(t *testing.T) {
	issue := QualityIssue{Type: "Missing route", Description: "Using default route"}
	assert.Equal(t, "Missing route: Using default route", issue.String())
}
