// Package transformer maps raw label documents onto the canonical drug
// record. Every field follows a strict ordered fallback chain; each
// fallback or default applied is recorded as a quality issue so callers
// can audit provenance. Markup-bearing fields pass through HTML-to-text
// reduction.
package transformer

import (
	"fmt"
	"strings"

	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/core/ports/driven"
)

// Ensure Transformer implements the interface.
var _ driven.Transformer = (*Transformer)(nil)

// Transformer is stateless; each Transform call returns its own issue
// list, so a single instance is safe to reuse and to share.
type Transformer struct{}

// New creates a new transformer.
func New() *Transformer {
	return &Transformer{}
}

// issueLog collects the quality issues for one transformation.
type issueLog struct {
	issues []domain.QualityIssue
}

func (l *issueLog) add(issueType, description string) {
	l.issues = append(l.issues, domain.QualityIssue{Type: issueType, Description: description})
}

// Transform normalises one raw document. It returns domain.ErrRecordRejected
// when the input is not a mapping or no usable drug name resolves through
// the fallback chain.
func (t *Transformer) Transform(raw domain.RawLabel) (*driven.TransformResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: document is not a mapping", domain.ErrRecordRejected)
	}

	log := &issueLog{}

	label := raw.Label()
	if label == nil {
		log.add("Missing label", "Drug has no label data")
		label = map[string]any{}
	}

	name := resolveName(raw, label, log)
	if name == "" {
		return nil, fmt.Errorf("%w: no usable drug name", domain.ErrRecordRejected)
	}

	clinicalBlocks := CleanBlocks(stringValue(label["clinicalPharmacology"]))

	record := domain.DrugRecord{
		Name:         name,
		Manufacturer: resolveManufacturer(raw, label, log),
		GenericName:  extractGenericName(label),
		BrandName:    extractBrandName(name, label),
		SetID:        stringValue(raw["setId"]),
		Slug:         stringValue(raw["slug"]),

		DosageForm:   extractDosageForm(label, log),
		Strength:     extractStrength(label, log),
		Route:        extractRoute(label, log),
		NDC:          ParseNDC(Clean(stringValue(label["howSupplied"]))),
		ApprovalDate: DeriveApprovalDate(stringValue(label["effectiveTime"])),
		// No source field maps to the application number; the column is
		// a placeholder.
		FDAApplicationNumber: "",

		Indications:             resolveIndications(label, log),
		Contraindications:       Clean(stringValue(label["contraindications"])),
		Warnings:                Clean(stringValue(label["warningsAndPrecautions"])),
		Precautions:             "",
		AdverseReactions:        Clean(stringValue(label["adverseReactions"])),
		DosageAndAdministration: Clean(stringValue(label["dosageAndAdministration"])),
		HowSupplied:             Clean(stringValue(label["howSupplied"])),
		ClinicalPharmacology:    Clean(stringValue(label["clinicalPharmacology"])),
		MechanismOfAction:       ExtractSection(clinicalBlocks, "mechanism of action", mechanismStops),
		Pharmacokinetics:        ExtractSection(clinicalBlocks, "pharmacokinetics", pkStops),
	}

	return &driven.TransformResult{Record: record, Issues: log.issues}, nil
}

// resolveName applies the name fallback chain:
// drugName, name, productName, brandName, then the label title.
func resolveName(raw domain.RawLabel, label map[string]any, log *issueLog) string {
	if name := cleanText(stringValue(raw["drugName"])); name != "" {
		return name
	}

	for _, alt := range []string{"name", "productName", "brandName"} {
		if name := cleanText(stringValue(raw[alt])); name != "" {
			log.add("Alternative name source", fmt.Sprintf("Used %s instead of drugName", alt))
			return name
		}
	}

	if title := cleanText(stringValue(label["title"])); title != "" {
		log.add("Label title used", "Used label title as drug name")
		return title
	}

	return ""
}

// resolveManufacturer applies the manufacturer fallback chain:
// labeler, manufacturer, company, sponsor, the label's labelerName,
// then the default sentinel.
func resolveManufacturer(raw domain.RawLabel, label map[string]any, log *issueLog) string {
	if m := cleanText(stringValue(raw["labeler"])); m != "" {
		return m
	}

	for _, alt := range []string{"manufacturer", "company", "sponsor"} {
		if m := cleanText(stringValue(raw[alt])); m != "" {
			log.add("Alternative manufacturer source", fmt.Sprintf("Used %s instead of labeler", alt))
			return m
		}
	}

	if m := cleanText(stringValue(label["labelerName"])); m != "" {
		log.add("Label labeler used", "Used label labelerName as manufacturer")
		return m
	}

	log.add("Missing manufacturer", "Using default manufacturer")
	return domain.DefaultManufacturer
}

// resolveIndications applies the indications fallback chain:
// indicationsAndUsage, indications, usage, indication, then the default.
func resolveIndications(label map[string]any, log *issueLog) string {
	if ind := Clean(stringValue(label["indicationsAndUsage"])); ind != "" {
		return ind
	}

	for _, alt := range []string{"indications", "usage", "indication"} {
		if ind := Clean(stringValue(label[alt])); ind != "" {
			log.add("Alternative indications source", fmt.Sprintf("Used %s instead of indicationsAndUsage", alt))
			return ind
		}
	}

	log.add("Missing indications", "Using default indications")
	return domain.DefaultIndications
}

// extractDosageForm matches the controlled vocabulary against the dosage
// forms section, then against the alternative descriptor fields.
func extractDosageForm(label map[string]any, log *issueLog) string {
	if section := Clean(stringValue(label["dosageFormsAndStrengths"])); section != "" {
		if form := ParseDosageForm(section); form != "" {
			return form
		}
	}

	for _, alt := range []string{"dosageForm", "formulation", "productType"} {
		text := Clean(stringValue(label[alt]))
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "injection"):
			return "Injection"
		case strings.Contains(lower, "tablet"):
			return "Tablet"
		case strings.Contains(lower, "capsule"):
			return "Capsule"
		}
	}

	log.add("Missing dosage form", "Using default dosage form")
	return domain.DefaultDosageForm
}

// extractStrength parses strength patterns from the dosage forms section,
// then from the alternative fields.
func extractStrength(label map[string]any, log *issueLog) string {
	if section := Clean(stringValue(label["dosageFormsAndStrengths"])); section != "" {
		if strength := ParseStrength(section); strength != "" {
			return strength
		}
	}

	for _, alt := range []string{"strength", "activeIngredient", "concentration"} {
		text := Clean(stringValue(label[alt]))
		if text == "" {
			continue
		}
		if strength := ParseStrength(text); strength != "" {
			log.add("Alternative strength source", fmt.Sprintf("Used %s for strength", alt))
			return strength
		}
	}

	log.add("Missing strength", "Using default strength")
	return domain.DefaultStrength
}

// extractRoute parses route keywords from the dosage and administration
// section, then from the alternative fields.
func extractRoute(label map[string]any, log *issueLog) string {
	if section := Clean(stringValue(label["dosageAndAdministration"])); section != "" {
		if route := ParseRoute(section); route != "" {
			return route
		}
	}

	for _, alt := range []string{"route", "administration", "productType"} {
		text := Clean(stringValue(label[alt]))
		if text == "" {
			continue
		}
		if route := ParseRoute(text); route != "" {
			log.add("Alternative route source", fmt.Sprintf("Used %s for route", alt))
			return route
		}
	}

	log.add("Missing route", "Using default route")
	return domain.DefaultRoute
}

// extractGenericName reads the label's genericName, falling back to a
// parenthesised fragment of a title that mentions "generic".
func extractGenericName(label map[string]any) string {
	if generic := cleanText(stringValue(label["genericName"])); generic != "" {
		return generic
	}

	title := stringValue(label["title"])
	if strings.Contains(strings.ToLower(title), "generic") {
		if _, after, found := strings.Cut(title, "("); found {
			return cleanText(strings.TrimRight(after, ")"))
		}
	}

	return ""
}

// extractBrandName prefers a label title that differs from the resolved
// name; otherwise the name itself is the brand.
func extractBrandName(name string, label map[string]any) string {
	title := stringValue(label["title"])
	if title != "" && !strings.EqualFold(title, name) {
		return cleanText(title)
	}
	return cleanText(name)
}
