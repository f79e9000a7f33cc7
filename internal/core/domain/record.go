package domain

import (
	"fmt"
	"strings"
)

// MaxIdentityLen is the column bound for the name and manufacturer fields.
// Records exceeding it are skipped by the loader rather than truncated.
const MaxIdentityLen = 255

// Default sentinel values for required fields that could not be resolved
// from any source field.
const (
	DefaultManufacturer = "Unknown Manufacturer"
	DefaultDosageForm   = "Unknown"
	DefaultStrength     = "Not specified"
	DefaultRoute        = "Unknown"
	DefaultIndications  = "Not available"
)

// RawLabel is one document from the source label file. The file guarantees
// no shape per record, so it stays an untyped mapping until transformation.
type RawLabel map[string]any

// Label returns the nested label mapping, or nil when absent or not a mapping.
func (r RawLabel) Label() map[string]any {
	label, ok := r["label"].(map[string]any)
	if !ok {
		return nil
	}
	return label
}

// DrugRecord is the canonical record produced by transformation,
// ready for loading. Optional fields use the empty string for "absent";
// the loader writes those as NULL.
type DrugRecord struct {
	// Identity fields. Name and Manufacturer are always non-empty
	// and within MaxIdentityLen once a record is accepted.
	Name         string
	GenericName  string
	BrandName    string
	Manufacturer string

	// SetID is the external dedup key from the source document.
	SetID string
	Slug  string

	// Pharmaceutical facts. DosageForm, Strength and Route carry
	// default sentinels when no source field resolved.
	DosageForm           string
	Strength             string
	Route                string
	NDC                  string
	FDAApplicationNumber string
	// ApprovalDate is an ISO date (YYYY-MM-DD) or empty.
	ApprovalDate string

	// Narrative fields, HTML-free plain text.
	Indications             string
	Contraindications       string
	Warnings                string
	Precautions             string
	AdverseReactions        string
	DosageAndAdministration string
	HowSupplied             string
	ClinicalPharmacology    string
	MechanismOfAction       string
	Pharmacokinetics        string
}

// Validate checks the loader-side field constraints. A failing record is
// counted as skipped, never loaded.
func (r *DrugRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: drug name is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Manufacturer) == "" {
		return fmt.Errorf("%w: manufacturer is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Indications) == "" {
		return fmt.Errorf("%w: indications is empty", ErrInvalidInput)
	}
	if len(r.Name) > MaxIdentityLen {
		return fmt.Errorf("%w: drug name too long (%d chars)", ErrInvalidInput, len(r.Name))
	}
	if len(r.Manufacturer) > MaxIdentityLen {
		return fmt.Errorf("%w: manufacturer too long (%d chars)", ErrInvalidInput, len(r.Manufacturer))
	}
	return nil
}

// Title returns the label row title: the brand name when present,
// otherwise the drug name.
func (r *DrugRecord) Title() string {
	if r.BrandName != "" {
		return r.BrandName
	}
	return r.Name
}

// QualityIssue describes a fallback or default applied during a single
// transformation. Issues are reported to the caller for auditing and are
// never persisted.
type QualityIssue struct {
	// Type is a short category, e.g. "Alternative name source".
	Type string

	// Description is the human-readable detail.
	Description string
}

func (q QualityIssue) String() string {
	return q.Type + ": " + q.Description
}
