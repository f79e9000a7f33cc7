package transformer

import (
	"regexp"
	"strings"
	"time"
)

// dosageForms is the controlled vocabulary for dosage-form extraction.
// First match against the cleaned section text wins.
var dosageForms = []string{
	"tablet", "capsule", "injection", "solution", "suspension",
	"cream", "ointment", "gel", "patch", "spray", "inhaler",
	"syrup", "powder", "granules", "suppository", "drops",
	"lotion", "foam", "film", "strip", "pellet",
}

// routes maps route keywords to their canonical names, in match order.
// Specific parenteral routes come before the generic "injection".
var routes = []struct {
	keyword string
	name    string
}{
	{"subcutaneous", "Subcutaneous"},
	{"intravenous", "Intravenous"},
	{"intramuscular", "Intramuscular"},
	{"injection", "Injection"},
	{"oral", "Oral"},
	{"topical", "Topical"},
	{"inhalation", "Inhalation"},
	{"inhaled", "Inhalation"},
	{"rectal", "Rectal"},
	{"ophthalmic", "Ophthalmic"},
	{"nasal", "Nasal"},
	{"transdermal", "Transdermal"},
	{"sublingual", "Sublingual"},
	{"buccal", "Buccal"},
}

// Strength patterns, tried in order. They cover numeric-unit shapes such
// as "120 mg/mL", "100 mg" and "5%".
var strengthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:mg|mcg|μg|g|units?|iu|%)(?:\s*/\s*(?:\d+(?:\.\d+)?\s*)?(?:mg|mcg|μg|g|mL|tablet|capsule))?`),
	regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:mg|mcg|μg|g|units?|iu)\s*per\s*\d+(?:\.\d+)?\s*(?:mL|tablet|capsule)`),
	regexp.MustCompile(`\d+(?:\.\d+)?\s*%`),
}

// ndcPattern matches the standard 3-segment code (4-4-2 or 5-3-2 digits)
// with an optional NDC prefix.
var ndcPattern = regexp.MustCompile(`(?i)(?:NDC\s*:?\s*)?(\d{4,5}-\d{3,4}-\d{2})`)

// ParseDosageForm finds the first dosage-form keyword in the text.
// Returns "" when no vocabulary entry matches.
func ParseDosageForm(text string) string {
	lower := strings.ToLower(text)
	for _, form := range dosageForms {
		if strings.Contains(lower, form) {
			return capitalise(form)
		}
	}
	return ""
}

// ParseStrength extracts a strength expression from free text.
// Returns "" when no pattern matches.
func ParseStrength(text string) string {
	if text == "" {
		return ""
	}
	for _, pattern := range strengthPatterns {
		if match := pattern.FindString(text); match != "" {
			return match
		}
	}
	return ""
}

// ParseRoute finds the first route-of-administration keyword in the text.
// Returns "" when no vocabulary entry matches.
func ParseRoute(text string) string {
	lower := strings.ToLower(text)
	for _, route := range routes {
		if strings.Contains(lower, route.keyword) {
			return route.name
		}
	}
	return ""
}

// ParseNDC extracts the first NDC code from the "how supplied" text.
func ParseNDC(text string) string {
	match := ndcPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}

// DeriveApprovalDate reformats an 8-digit YYYYMMDD value as YYYY-MM-DD.
// Any other shape, including a non-calendar date, yields "" silently.
func DeriveApprovalDate(value string) string {
	if len(value) != 8 {
		return ""
	}
	parsed, err := time.Parse("20060102", value)
	if err != nil {
		return ""
	}
	return parsed.Format("2006-01-02")
}

// Section boundary keywords: collecting stops when a line mentions a
// different known section.
var (
	mechanismStops = []string{"pharmacodynamics", "pharmacokinetics", "absorption"}
	pkStops        = []string{"clinical studies", "drug interactions", "mechanism"}
)

// ExtractSection pulls one named section out of block-structured narrative
// text. It scans line by line for a case-insensitive heading match, collects
// subsequent non-empty lines until a stop keyword appears, and joins the
// collected lines with spaces.
func ExtractSection(text, heading string, stops []string) string {
	heading = strings.ToLower(heading)

	var collected []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !inSection {
			if strings.Contains(lower, heading) {
				inSection = true
			}
			continue
		}
		if containsAny(lower, stops) {
			break
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			collected = append(collected, trimmed)
		}
	}
	return strings.Join(collected, " ")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
