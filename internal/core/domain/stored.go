package domain

import "time"

// StoredDrug is one persisted drug identity row. Created on first insert,
// overwritten in place on re-ingestion of the same identity, never deleted
// by the pipeline.
type StoredDrug struct {
	// ID is the generated identity key.
	ID string

	Name         string
	GenericName  string
	BrandName    string
	Manufacturer string

	DosageForm           string
	Strength             string
	Route                string
	NDC                  string
	FDAApplicationNumber string
	ApprovalDate         string

	SetID string
	Slug  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredLabel is the persisted label row paired 1:1 with a StoredDrug.
type StoredLabel struct {
	ID     string
	DrugID string

	GenericName string
	LabelerName string
	ProductType string
	Title       string

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

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DrugDetail is a drug joined with its label, as served to readers.
type DrugDetail struct {
	Drug  StoredDrug
	Label *StoredLabel
}

// SearchQuery filters the drug catalogue. Empty criteria match everything;
// matching is case-insensitive substring.
type SearchQuery struct {
	// Query matches against drug name and generic name.
	Query string

	// Indication matches against the label's indications text.
	Indication string

	// Manufacturer matches against the manufacturer name.
	Manufacturer string

	// Limit bounds the result count. Non-positive means DefaultSearchLimit.
	Limit int
}

// DefaultSearchLimit bounds search results when no limit is given.
const DefaultSearchLimit = 10
